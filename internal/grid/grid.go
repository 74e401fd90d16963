// Package grid renders launches, rockets and payloads as terminal tables,
// Markdown, JSON or YAML. Column visibility is owned here and never leaks into
// the view state.
package grid

import (
	"fmt"
	"strings"
)

type column[T any] struct {
	field  string
	header string
	cell   func(T) string
	// flex columns absorb the remaining terminal width and are truncated
	// instead of wrapped
	flex bool
}

// Grid is a set of columns over rows of type T.
type Grid[T any] struct {
	columns []column[T]
	hidden  map[string]bool
	width   int
}

func newGrid[T any](columns ...column[T]) *Grid[T] {
	return &Grid[T]{columns: columns, hidden: make(map[string]bool)}
}

// SetWidth fixes the table width. Zero uses the terminal width.
func (g *Grid[T]) SetWidth(width int) {
	g.width = width
}

// Fields returns every column's field name in display order.
func (g *Grid[T]) Fields() []string {
	out := make([]string, 0, len(g.columns))
	for _, c := range g.columns {
		out = append(out, c.field)
	}
	return out
}

// Visible returns the field names currently shown, in display order.
func (g *Grid[T]) Visible() []string {
	out := make([]string, 0, len(g.columns))
	for _, c := range g.visibleColumns() {
		out = append(out, c.field)
	}
	return out
}

// Show makes field visible.
func (g *Grid[T]) Show(field string) error {
	f, err := g.lookup(field)
	if err != nil {
		return err
	}
	delete(g.hidden, f)
	return nil
}

// Hide hides field. The last visible column cannot be hidden.
func (g *Grid[T]) Hide(field string) error {
	f, err := g.lookup(field)
	if err != nil {
		return err
	}
	if g.hidden[f] {
		return nil
	}
	if len(g.visibleColumns()) == 1 {
		return fmt.Errorf("cannot hide %s: it is the only visible column", f)
	}
	g.hidden[f] = true
	return nil
}

// Toggle flips the visibility of field.
func (g *Grid[T]) Toggle(field string) error {
	f, err := g.lookup(field)
	if err != nil {
		return err
	}
	if g.hidden[f] {
		return g.Show(f)
	}
	return g.Hide(f)
}

// HideAll hides each of fields, stopping at the first error.
func (g *Grid[T]) HideAll(fields []string) error {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if err := g.Hide(f); err != nil {
			return err
		}
	}
	return nil
}

// lookup resolves a field name or header, ignoring case.
func (g *Grid[T]) lookup(field string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(field))
	for _, c := range g.columns {
		if c.field == want || strings.ToLower(c.header) == want {
			return c.field, nil
		}
	}
	return "", fmt.Errorf("unknown column %q (valid columns: %s)", field, strings.Join(g.Fields(), ", "))
}

func (g *Grid[T]) visibleColumns() []column[T] {
	out := make([]column[T], 0, len(g.columns))
	for _, c := range g.columns {
		if !g.hidden[c.field] {
			out = append(out, c)
		}
	}
	return out
}

// cells formats the visible columns of every row.
func (g *Grid[T]) cells(rows []T) ([]column[T], [][]string) {
	cols := g.visibleColumns()
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = c.cell(r)
		}
		out = append(out, line)
	}
	return cols, out
}
