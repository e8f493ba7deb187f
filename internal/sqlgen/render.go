package sqlgen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
)

type Format string

const (
	FormatPretty  Format = "pretty"
	FormatCompact Format = "compact"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPretty, "":
		return FormatPretty, nil
	case FormatCompact:
		return FormatCompact, nil
	}
	return "", fmt.Errorf("unsupported output format: %s. Supported formats: %v", s, []Format{FormatPretty, FormatCompact})
}

// Renderer turns a script into text wrapped in START TRANSACTION / COMMIT.
type Renderer interface {
	Render(script Script) (string, error)
}

func NewRenderer(format Format) Renderer {
	if format == FormatCompact {
		return compactRenderer{}
	}
	return prettyRenderer{}
}

// prettyRenderer lays inserts out one column and one tuple per line with a
// blank line between statements.
type prettyRenderer struct{}

func (prettyRenderer) Render(script Script) (string, error) {
	b := getBuffer()
	defer putBuffer(b)

	b.WriteString("START TRANSACTION;\n\n")
	for _, stmt := range script.Statements {
		switch st := stmt.(type) {
		case Insert:
			if err := writePrettyInsert(b, st); err != nil {
				return "", err
			}
		case Raw:
			b.WriteString(string(st))
		default:
			return "", fmt.Errorf("unsupported statement type %T", stmt)
		}
		b.WriteString(";\n\n")
	}
	b.WriteString("COMMIT;\n")
	return b.String(), nil
}

func writePrettyInsert(b *bytes.Buffer, ins Insert) error {
	if err := ins.validate(); err != nil {
		return err
	}
	fmt.Fprintf(b, "INSERT INTO %s (\n", ins.Table)
	for i, col := range ins.Columns {
		b.WriteString("  ")
		b.WriteString(col)
		if i < len(ins.Columns)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(") VALUES\n")

	perLine := ins.RowsPerLine
	if perLine < 1 {
		perLine = 1
	}
	for i, row := range ins.Rows {
		switch {
		case i == 0:
			b.WriteString("  ")
		case i%perLine == 0:
			b.WriteString(",\n  ")
		default:
			b.WriteString(", ")
		}
		b.WriteByte('(')
		b.WriteString(strings.Join(row, ", "))
		b.WriteByte(')')
	}
	return nil
}

// compactRenderer writes each statement on a single line. Inserts are built
// with squirrel from pre-rendered literal expressions, so no placeholders or
// bound arguments are produced.
type compactRenderer struct{}

func (compactRenderer) Render(script Script) (string, error) {
	b := getBuffer()
	defer putBuffer(b)

	b.WriteString("START TRANSACTION;\n")
	for _, stmt := range script.Statements {
		switch st := stmt.(type) {
		case Insert:
			sql, err := compactInsert(st)
			if err != nil {
				return "", err
			}
			b.WriteString(sql)
		case Raw:
			b.WriteString(string(st))
		default:
			return "", fmt.Errorf("unsupported statement type %T", stmt)
		}
		b.WriteString(";\n")
	}
	b.WriteString("COMMIT;\n")
	return b.String(), nil
}

func compactInsert(ins Insert) (string, error) {
	if err := ins.validate(); err != nil {
		return "", err
	}
	qb := squirrel.Insert(ins.Table).Columns(ins.Columns...)
	for _, row := range ins.Rows {
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = squirrel.Expr(v)
		}
		qb = qb.Values(values...)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build insert into %s: %w", ins.Table, err)
	}
	if len(args) > 0 {
		return "", fmt.Errorf("insert into %s produced %d bound arguments", ins.Table, len(args))
	}
	return sql, nil
}

func (ins Insert) validate() error {
	if len(ins.Rows) == 0 {
		return fmt.Errorf("insert into %s has no rows", ins.Table)
	}
	for i, row := range ins.Rows {
		if len(row) != len(ins.Columns) {
			return fmt.Errorf("insert into %s: row %d has %d values for %d columns", ins.Table, i, len(row), len(ins.Columns))
		}
	}
	return nil
}
