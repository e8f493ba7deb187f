package grid

import (
	"fmt"
	"sync"
)

// Cell addresses one input of a sheet.
type Cell struct {
	Row    int    `json:"row"`
	Column Column `json:"column"`
}

// Editor owns the teacher and student sheets together with the ephemeral focus
// state used to anchor pastes. The focus state is not part of Snapshot.
type Editor struct {
	mu     sync.Mutex
	sheets map[Role]*Sheet

	selected  map[Role]*Cell
	focused   Role
	composing bool
}

func NewEditor() *Editor {
	return &Editor{
		sheets: map[Role]*Sheet{
			Teacher: NewSheet(Teacher),
			Student: NewSheet(Student),
		},
		selected: make(map[Role]*Cell, 2),
	}
}

// Snapshot copies both row lists. Callers never receive live rows.
func (e *Editor) Snapshot() (teachers, students []AccountRow) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sheets[Teacher].Rows(), e.sheets[Student].Rows()
}

func (e *Editor) Rows(role Role) ([]AccountRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.sheet(role)
	if err != nil {
		return nil, err
	}
	return s.Rows(), nil
}

func (e *Editor) AddRow(role Role) (AccountRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.sheet(role)
	if err != nil {
		return AccountRow{}, err
	}
	return s.AddRow(), nil
}

func (e *Editor) DeleteRow(role Role, id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.sheet(role)
	if err != nil {
		return false, err
	}
	return s.DeleteRow(id), nil
}

func (e *Editor) Reset(role Role) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.sheet(role)
	if err != nil {
		return err
	}
	s.Reset()
	return nil
}

// EditCell applies a field edit. The returned flag tells the view whether it may
// restore the caret now; while an IME composition is open the value is still
// stored but the caret is left alone until CompositionEnd.
func (e *Editor) EditCell(role Role, id string, col Column, value string) (restoreCaret bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.sheet(role)
	if err != nil {
		return false, err
	}
	found, err := s.EditCell(id, col, value)
	if err != nil {
		return false, err
	}
	if !found {
		return false, fmt.Errorf("%w: %q", ErrRowNotFound, id)
	}
	return !e.composing, nil
}

func (e *Editor) CompositionStart() {
	e.mu.Lock()
	e.composing = true
	e.mu.Unlock()
}

// CompositionEnd closes the composition and commits the final value.
func (e *Editor) CompositionEnd(role Role, id string, col Column, value string) (restoreCaret bool, err error) {
	e.mu.Lock()
	e.composing = false
	e.mu.Unlock()
	return e.EditCell(role, id, col, value)
}

// KeyDown clears a composition that the input method never closed.
func (e *Editor) KeyDown(key string) {
	if key != "Enter" && key != "Escape" {
		return
	}
	e.mu.Lock()
	e.composing = false
	e.mu.Unlock()
}

func (e *Editor) Composing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.composing
}

// Focus records the cell that subsequent pastes are anchored at.
func (e *Editor) Focus(role Role, cell Cell) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if cell.Column.Index() < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, cell.Column)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	c := cell
	e.selected[role] = &c
	e.focused = role
	return nil
}

func (e *Editor) Blur(role Role) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.composing = false
	delete(e.selected, role)
	if e.focused == role {
		e.focused = ""
	}
}

// Selection returns the focused role and its anchor, if any.
func (e *Editor) Selection() (Role, *Cell) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.focused == "" {
		return "", nil
	}
	sel := e.selected[e.focused]
	if sel == nil {
		return e.focused, nil
	}
	c := *sel
	return e.focused, &c
}

// PasteResult describes what a paste did. Handled is false when the event was
// left to the default paste behaviour.
type PasteResult struct {
	Handled bool `json:"handled"`
	Role    Role `json:"role,omitempty"`
	Rows    int  `json:"rows"`
	Grown   int  `json:"grown"`
}

// Paste applies clipboard text at the recorded anchor of the focused role.
func (e *Editor) Paste(text string) PasteResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.focused == "" {
		return PasteResult{}
	}
	sel := e.selected[e.focused]
	if sel == nil || text == "" {
		return PasteResult{}
	}
	matrix := ParseClipboard(text)
	if len(matrix) == 0 {
		return PasteResult{Handled: true, Role: e.focused}
	}
	grown := e.sheets[e.focused].Paste(*sel, matrix)
	return PasteResult{Handled: true, Role: e.focused, Rows: len(matrix), Grown: grown}
}

// PasteAt applies a matrix at an explicit anchor without touching focus state.
// Importers use it to feed whole sheets through the same rules as the editor.
func (e *Editor) PasteAt(role Role, anchor Cell, matrix [][]string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, err := e.sheet(role)
	if err != nil {
		return 0, err
	}
	return s.Paste(anchor, matrix), nil
}

func (e *Editor) sheet(role Role) (*Sheet, error) {
	s, ok := e.sheets[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return s, nil
}
