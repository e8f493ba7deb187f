package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Role string

const (
	Teacher Role = "teacher"
	Student Role = "student"
)

// Roles lists the editable roles in display order. Teachers come first, which is
// also the order accounts are handed to the SQL generator.
var Roles = []Role{Teacher, Student}

func (r Role) Valid() bool {
	return r == Teacher || r == Student
}

// Prefix is the id prefix minted for rows of this role.
func (r Role) Prefix() string {
	if r == Student {
		return "s-"
	}
	return "t-"
}

// Label is the heading shown above the role's table.
func (r Role) Label() string {
	if r == Student {
		return "Student"
	}
	return "Teacher"
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

type Column string

const (
	ColUserID   Column = "userId"
	ColUserName Column = "userName"
	ColPassword Column = "password"
)

// Columns is the fixed column order of the grid. Pasted blocks are mapped onto it.
var Columns = []Column{ColUserID, ColUserName, ColPassword}

// Header labels in the same order as Columns.
var ColumnLabels = map[Column]string{
	ColUserID:   "ユーザーID",
	ColUserName: "ユーザー名",
	ColPassword: "パスワード",
}

func (c Column) Index() int {
	for i, col := range Columns {
		if col == c {
			return i
		}
	}
	return -1
}

func ParseColumn(s string) (Column, error) {
	c := Column(s)
	if c.Index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
	}
	return c, nil
}

var (
	ErrUnknownRole   = errors.New("unknown role")
	ErrUnknownColumn = errors.New("unknown column")
	ErrRowNotFound   = errors.New("row not found")
)

type AccountRow struct {
	ID       string `json:"id" yaml:"id,omitempty"`
	UserID   string `json:"userId" yaml:"user_id"`
	UserName string `json:"userName" yaml:"user_name"`
	Password string `json:"password" yaml:"password"`
	Role     Role   `json:"role" yaml:"role,omitempty"`
}

// Blank reports whether the row carries no user id. Blank rows are never
// turned into accounts.
func (r AccountRow) Blank() bool {
	return strings.TrimSpace(r.UserID) == ""
}

func (r AccountRow) Get(col Column) string {
	switch col {
	case ColUserID:
		return r.UserID
	case ColUserName:
		return r.UserName
	case ColPassword:
		return r.Password
	}
	return ""
}

func (r *AccountRow) set(col Column, value string) {
	switch col {
	case ColUserID:
		r.UserID = value
	case ColUserName:
		r.UserName = value
	case ColPassword:
		r.Password = value
	}
}

// overflowSuffix stands in for ids whose digits do not fit in an int. Minted
// ids then continue above it instead of restarting low.
const overflowSuffix = 1 << 30

// idSuffix returns every digit of the id read as one number, 0 when there are
// none and overflowSuffix when the number is too large.
func idSuffix(id string) int {
	var digits strings.Builder
	for _, ch := range id {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	n, err := strconv.Atoi(digits.String())
	if errors.Is(err, strconv.ErrRange) {
		return overflowSuffix
	}
	if err != nil {
		return 0
	}
	return n
}

// NonBlank returns the rows that carry a user id, in order.
func NonBlank(rows []AccountRow) []AccountRow {
	out := make([]AccountRow, 0, len(rows))
	for _, r := range rows {
		if !r.Blank() {
			out = append(out, r)
		}
	}
	return out
}
