package dataset

import (
	"fmt"

	"github.com/aurorastack/insight-engine/internal/models"
)

// Table is an ordered collection of uniquely-keyed columns, row-homogeneous
// and immutable after Build. Accessors return copies so a shared registry
// table can never be contaminated by a caller.
type Table struct {
	rows    int
	order   []string
	numeric map[string][]float64
	labels  map[string][]string
}

// Builder accumulates columns for a Table. All columns must have the same
// row count; Build verifies and freezes the result.
type Builder struct {
	rows    int
	order   []string
	numeric map[string][]float64
	labels  map[string][]string
	err     error
}

// NewBuilder starts a table with the given row count.
func NewBuilder(rows int) *Builder {
	return &Builder{
		rows:    rows,
		numeric: make(map[string][]float64),
		labels:  make(map[string][]string),
	}
}

// Numeric adds a float column.
func (b *Builder) Numeric(name string, values []float64) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.checkColumn(name, len(values)); err != nil {
		b.err = err
		return b
	}
	b.numeric[name] = append([]float64(nil), values...)
	b.order = append(b.order, name)
	return b
}

// Ints adds an integer-valued column stored as floats.
func (b *Builder) Ints(name string, values []int) *Builder {
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	return b.Numeric(name, floats)
}

// Labels adds a categorical column.
func (b *Builder) Labels(name string, values []string) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.checkColumn(name, len(values)); err != nil {
		b.err = err
		return b
	}
	b.labels[name] = append([]string(nil), values...)
	b.order = append(b.order, name)
	return b
}

func (b *Builder) checkColumn(name string, length int) error {
	if _, dup := b.numeric[name]; dup {
		return fmt.Errorf("duplicate column %q", name)
	}
	if _, dup := b.labels[name]; dup {
		return fmt.Errorf("duplicate column %q", name)
	}
	if length != b.rows {
		return fmt.Errorf("column %q has %d rows, want %d", name, length, b.rows)
	}
	return nil
}

// Build freezes the accumulated columns into an immutable Table.
func (b *Builder) Build() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Table{
		rows:    b.rows,
		order:   b.order,
		numeric: b.numeric,
		labels:  b.labels,
	}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns lists column names in insertion order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.order...)
}

// Numeric returns a copy of a float column.
func (t *Table) Numeric(name string) ([]float64, bool) {
	values, ok := t.numeric[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), values...), true
}

// Labels returns a copy of a categorical column.
func (t *Table) Labels(name string) ([]string, bool) {
	values, ok := t.labels[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), values...), true
}

// HasColumn reports whether any column carries the name.
func (t *Table) HasColumn(name string) bool {
	if _, ok := t.numeric[name]; ok {
		return true
	}
	_, ok := t.labels[name]
	return ok
}

// RequireNumeric fetches a float column or fails the dataset contract.
func (t *Table) RequireNumeric(label models.DatasetLabel, name string) ([]float64, error) {
	values, ok := t.Numeric(name)
	if !ok {
		return nil, &models.MissingColumnError{Dataset: label, Column: name}
	}
	return values, nil
}
