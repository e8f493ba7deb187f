package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Rana718/acctgen/internal/generator"
	"github.com/Rana718/acctgen/internal/grid"
)

// LoadJob reads a generation request from a YAML or JSON job file.
func LoadJob(path string) (generator.Request, error) {
	var req generator.Request

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("failed to read job file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &req)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &req)
	default:
		return req, fmt.Errorf("unsupported job file format: %s. Supported formats: .yaml, .yml, .json", path)
	}
	if err != nil {
		return req, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}
	return req, nil
}

// Sheets names the account sheet files for each role. Empty paths are skipped.
type Sheets struct {
	Teachers string
	Students string
}

// ApplySheets pastes each sheet into a fresh grid anchored at the first user
// id cell and stores the resulting rows on req, replacing any rows already
// there for that role.
func ApplySheets(req *generator.Request, sheets Sheets) error {
	ed := grid.NewEditor()
	anchor := grid.Cell{Row: 0, Column: grid.ColUserID}

	for _, item := range []struct {
		role grid.Role
		path string
		dst  *[]grid.AccountRow
	}{
		{grid.Teacher, sheets.Teachers, &req.Teachers},
		{grid.Student, sheets.Students, &req.Students},
	} {
		if item.path == "" {
			continue
		}
		matrix, err := ReadMatrix(item.path)
		if err != nil {
			return err
		}
		if _, err := ed.PasteAt(item.role, anchor, matrix); err != nil {
			return fmt.Errorf("failed to load %s sheet: %w", item.role, err)
		}
		rows, err := ed.Rows(item.role)
		if err != nil {
			return err
		}
		*item.dst = rows
	}
	return nil
}
