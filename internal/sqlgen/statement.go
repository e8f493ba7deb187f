package sqlgen

// Statement is one SQL statement of a script, without its terminating semicolon.
type Statement interface {
	statement()
}

// Insert is a multi-row INSERT whose values are already rendered SQL
// fragments (quoted literals, NULL, NOW(), integers or session variables).
type Insert struct {
	Table   string
	Columns []string
	Rows    [][]string
	// RowsPerLine groups consecutive tuples on one line in the pretty layout.
	// Zero means one tuple per line.
	RowsPerLine int
}

// Raw is emitted verbatim.
type Raw string

func (Insert) statement() {}
func (Raw) statement()    {}

// Script is a list of statements run inside one transaction.
type Script struct {
	Statements []Statement
}

func (s *Script) Add(stmt Statement) {
	s.Statements = append(s.Statements, stmt)
}

// captureLastInsertID stores the first auto-generated id of the previous
// insert in a session variable.
func captureLastInsertID(variable string) Raw {
	return Raw("SET @" + variable + " = LAST_INSERT_ID()")
}
