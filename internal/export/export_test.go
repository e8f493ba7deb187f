package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/acctgen/internal/generator"
)

func TestFileBase(t *testing.T) {
	tests := []struct {
		name string
		org  string
		want string
	}{
		{"ascii with spaces", "  Test School  ", "TestSchool"},
		{"japanese kept", "東京第一中学校", "東京第一中学校"},
		{"punctuation removed", "O'Brien / Academy (2024)", "OBrienAcademy2024"},
		{"full width digits kept", "第１高校", "第１高校"},
		{"only symbols", "!!! ---", "sql_export"},
		{"empty", "", "sql_export"},
		{"truncated by rune", strings.Repeat("学", 120), strings.Repeat("学", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileBase(tt.org))
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "TestSchool_users.sql", FileName("Test School", KindUsers))
	assert.Equal(t, "sql_export_members.sql", FileName("", KindMembers))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Members ")
	require.NoError(t, err)
	assert.Equal(t, KindMembers, kind)

	_, err = ParseKind("roles")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestWriteScripts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	res := generator.Result{
		OrganizationName: "Test School",
		UsersSQL:         "START TRANSACTION;\n",
		MembersSQL:       "-- メンバーがありません",
	}

	paths, err := WriteScripts(dir, res)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "TestSchool_users.sql"),
		filepath.Join(dir, "TestSchool_members.sql"),
	}, paths)

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, res.MembersSQL, string(data))
}

func TestWriteScriptsSkipsEmptyContent(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteScripts(dir, generator.Result{UsersSQL: generator.NoOrganizationPlaceholder})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "sql_export_users.sql")}, paths)
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, "attachment; filename*=UTF-8''%E6%9D%B1%E4%BA%AC_users.sql", ContentDisposition("東京_users.sql"))
	assert.Equal(t, "attachment; filename*=UTF-8''TestSchool_users.sql", ContentDisposition("TestSchool_users.sql"))
}
