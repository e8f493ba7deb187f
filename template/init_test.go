package template

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/acctgen/internal/config"
	"github.com/Rana718/acctgen/internal/importer"
)

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)
	return cfg
}

func TestConfigRoundTrips(t *testing.T) {
	pt := NewProjectTemplate(defaultConfig(t))
	body, err := pt.GetConfig()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	assert.Contains(t, decoded, "members")
	assert.Contains(t, decoded, "hash")

	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "kankouyohou.com", cfg.Members.MailDomain)
	assert.NoError(t, cfg.Validate())
}

func TestSchemaCoversGeneratedTables(t *testing.T) {
	schema := NewProjectTemplate(defaultConfig(t)).GetSchema()
	for _, table := range []string{"user_group", "users", "member", "member_roles", "member_role_periods"} {
		assert.Contains(t, schema, "CREATE TABLE "+table+" (")
	}
	assert.Equal(t, 5, strings.Count(schema, "CREATE TABLE"))
}

func TestJobExampleLoads(t *testing.T) {
	pt := NewProjectTemplate(defaultConfig(t))
	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pt.GetJobExample()), 0644))

	req, err := importer.LoadJob(path)
	require.NoError(t, err)
	assert.Equal(t, "サンプル学校", req.OrganizationName)
	assert.Equal(t, "13", req.PrefCode)
	assert.Len(t, req.Teachers, 1)
	assert.Len(t, req.Students, 2)
}

func TestFiles(t *testing.T) {
	files, err := NewProjectTemplate(defaultConfig(t)).Files()
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, config.FileName, files[0].Path)
}
