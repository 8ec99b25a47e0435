// Package lines implements the repeatable line-item rows of the ticket form. Groups are values:
// every edit returns a new Group and leaves the receiver untouched, so a caller holding an older
// Group (a rendered view, a payload being sent) never observes a later edit.
package lines

import (
	"encoding/json"

	apperrors "ops-portal/pkg/app_errors"
)

// Row is one editable line. With replaces a single field by its wire name; Blank reports whether
// the row still equals its kind's blank template.
type Row[R any] interface {
	With(field, value string) (R, error)
	Blank() bool
}

// Group is an ordered list of rows. Row identity is positional.
type Group[R Row[R]] struct {
	rows []R
}

func NewGroup[R Row[R]](rows ...R) Group[R] {
	if len(rows) == 0 {
		return Group[R]{}
	}
	return Group[R]{rows: append([]R(nil), rows...)}
}

// Add appends blank to the end of the group.
func (g Group[R]) Add(blank R) Group[R] {
	rows := make([]R, len(g.rows), len(g.rows)+1)
	copy(rows, g.rows)
	return Group[R]{rows: append(rows, blank)}
}

// Remove drops the row at i; later rows shift down by one.
func (g Group[R]) Remove(i int) (Group[R], error) {
	if i < 0 || i >= len(g.rows) {
		return g, apperrors.ErrRowNotFound
	}
	rows := make([]R, 0, len(g.rows)-1)
	rows = append(rows, g.rows[:i]...)
	rows = append(rows, g.rows[i+1:]...)
	return Group[R]{rows: rows}, nil
}

// Update replaces one field of the row at i, keeping every other field.
func (g Group[R]) Update(i int, field, value string) (Group[R], error) {
	if i < 0 || i >= len(g.rows) {
		return g, apperrors.ErrRowNotFound
	}
	row, err := g.rows[i].With(field, value)
	if err != nil {
		return g, err
	}
	rows := make([]R, len(g.rows))
	copy(rows, g.rows)
	rows[i] = row
	return Group[R]{rows: rows}, nil
}

// Rows returns a copy of the rows in insertion order; nil when empty.
func (g Group[R]) Rows() []R {
	if len(g.rows) == 0 {
		return nil
	}
	return append([]R(nil), g.rows...)
}

func (g Group[R]) Len() int {
	return len(g.rows)
}

// Dirty reports whether any row carries a value beyond its blank template.
func (g Group[R]) Dirty() bool {
	for _, r := range g.rows {
		if !r.Blank() {
			return true
		}
	}
	return false
}

func (g Group[R]) MarshalJSON() ([]byte, error) {
	if g.rows == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(g.rows)
}
