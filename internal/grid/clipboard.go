package grid

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r\n|\n|\r`)

// ParseClipboard turns spreadsheet clipboard text (TSV as copied from Excel or
// Google Sheets) into a ragged matrix. Fully empty lines are dropped.
func ParseClipboard(text string) [][]string {
	if text == "" {
		return nil
	}
	lines := lineBreak.Split(text, -1)
	matrix := make([][]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		matrix = append(matrix, strings.Split(line, "\t"))
	}
	return matrix
}
