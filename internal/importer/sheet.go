package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/Rana718/acctgen/internal/grid"
)

var ErrUnsupportedSheet = errors.New("unsupported sheet format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadMatrix loads a sheet of accounts as rows of cells. Tab separated and
// plain text files follow clipboard rules, CSV files are parsed as CSV and
// XLSX workbooks are read from their first sheet. A leading label row is
// dropped.
func ReadMatrix(path string) ([][]string, error) {
	var (
		matrix [][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		matrix, err = readTSV(path)
	case ".csv":
		matrix, err = readCSV(path)
	case ".xlsx", ".xlsm":
		matrix, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSheet, path)
	}
	if err != nil {
		return nil, err
	}
	return StripHeader(matrix), nil
}

// readText returns the file as UTF-8. Files that are not valid UTF-8 are
// assumed to be Shift_JIS, the encoding Excel uses on Japanese Windows.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s as Shift_JIS: %w", path, err)
	}
	return string(decoded), nil
}

func readTSV(path string) ([][]string, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}
	return grid.ParseClipboard(text), nil
}

func readCSV(path string) ([][]string, error) {
	text, err := readText(path)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var matrix [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if emptyRecord(record) {
			continue
		}
		matrix = append(matrix, record)
	}
	return matrix, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}

	matrix := make([][]string, 0, len(rows))
	for _, row := range rows {
		if emptyRecord(row) {
			continue
		}
		matrix = append(matrix, row)
	}
	return matrix, nil
}

func emptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var headerLabels = map[string]bool{
	"userid":   true,
	"ユーザーid":   true,
	"loginid":  true,
	"ログインid":   true,
	"username": true,
	"ユーザー名":    true,
}

// StripHeader drops the first row when its first cell is a column label such
// as ユーザーID, userId or user_id.
func StripHeader(matrix [][]string) [][]string {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return matrix
	}
	if headerLabels[normalizeLabel(matrix[0][0])] {
		return matrix[1:]
	}
	return matrix
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "", "　", "", "ｉｄ", "id").Replace(s)
}
