package grid

import (
	"fmt"
	"strconv"
)

// Sheet is the ordered row list of a single role.
//
// next is re-derived from the highest id suffix after every structural change
// (add, delete, paste growth, reset), so a freshly minted id can never collide
// with a surviving row.
type Sheet struct {
	role Role
	rows []AccountRow
	next int
}

func NewSheet(role Role) *Sheet {
	s := &Sheet{role: role}
	s.Reset()
	return s
}

func (s *Sheet) Role() Role { return s.role }

func (s *Sheet) Len() int { return len(s.rows) }

// NextID is the id the next added row will receive.
func (s *Sheet) NextID() string {
	return s.role.Prefix() + strconv.Itoa(s.next)
}

// Rows returns a copy of the rows.
func (s *Sheet) Rows() []AccountRow {
	out := make([]AccountRow, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Sheet) AddRow() AccountRow {
	row := s.mint()
	s.rows = append(s.rows, row)
	s.resync()
	return row
}

// DeleteRow removes the row with the given id and reports whether it existed.
func (s *Sheet) DeleteRow(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	next := make([]AccountRow, 0, len(s.rows)-1)
	next = append(next, s.rows[:idx]...)
	next = append(next, s.rows[idx+1:]...)
	s.rows = next
	s.resync()
	return true
}

// EditCell overwrites one field of the row with the given id. A missing id is
// not an error; it reports false.
func (s *Sheet) EditCell(id string, col Column, value string) (bool, error) {
	if col.Index() < 0 {
		return false, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return false, nil
	}
	s.rows[idx].set(col, value)
	return true, nil
}

// Reset leaves exactly one blank row with the role's first id.
func (s *Sheet) Reset() {
	s.rows = []AccountRow{{ID: s.role.Prefix() + "1", Role: s.role}}
	s.next = 2
}

// Paste writes matrix onto the sheet with its top-left cell at anchor and
// returns the number of rows appended to make room. The previous list is read
// once and replaced by one new list.
func (s *Sheet) Paste(anchor Cell, matrix [][]string) int {
	startCol := anchor.Column.Index()
	if startCol < 0 || anchor.Row < 0 || len(matrix) == 0 {
		return 0
	}

	next := make([]AccountRow, len(s.rows), len(s.rows)+len(matrix))
	copy(next, s.rows)

	grown := 0
	if needed := anchor.Row + len(matrix) - len(next); needed > 0 {
		maxSuffix := maxIDSuffix(next)
		for i := 0; i < needed; i++ {
			next = append(next, AccountRow{
				ID:   s.role.Prefix() + strconv.Itoa(maxSuffix+1+i),
				Role: s.role,
			})
		}
		grown = needed
	}

	for r, cells := range matrix {
		target := anchor.Row + r
		for c, value := range cells {
			col := startCol + c
			if col >= len(Columns) {
				break
			}
			next[target].set(Columns[col], value)
		}
	}

	s.rows = next
	s.resync()
	return grown
}

func (s *Sheet) indexOf(id string) int {
	for i := range s.rows {
		if s.rows[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Sheet) mint() AccountRow {
	row := AccountRow{ID: s.NextID(), Role: s.role}
	s.next++
	return row
}

func (s *Sheet) resync() {
	s.next = maxIDSuffix(s.rows) + 1
}

func maxIDSuffix(rows []AccountRow) int {
	max := 0
	for _, r := range rows {
		if n := idSuffix(r.ID); n > max {
			max = n
		}
	}
	return max
}
