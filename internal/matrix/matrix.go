// Package matrix holds the ordered rows of one run. Row order is input order
// and is the index used for pair enumeration.
package matrix

import (
	"errors"
	"fmt"

	"github.com/KHajji/distle/internal/symbol"
)

var (
	// ErrMissingID is returned for a row without a sample identifier.
	ErrMissingID = errors.New("missing sample identifier")
	// ErrKindMismatch is returned when a row's kind differs from the matrix kind.
	ErrKindMismatch = errors.New("row kind does not match matrix kind")
)

// Row is one sample: its identifier and symbols. Rows are not modified
// after Add.
type Row struct {
	ID  string
	Seq symbol.Seq
}

// Matrix is an ordered, single-kind collection of rows.
type Matrix struct {
	kind symbol.Kind
	rows []Row
}

// New returns an empty matrix for rows of kind k.
func New(k symbol.Kind, capHint int) *Matrix {
	if capHint < 0 {
		capHint = 0
	}
	return &Matrix{kind: k, rows: make([]Row, 0, capHint)}
}

// Add appends a row. Identifiers are not checked for uniqueness.
func (m *Matrix) Add(id string, seq symbol.Seq) error {
	if id == "" {
		return ErrMissingID
	}
	if seq == nil || seq.Kind() != m.kind {
		got := "<nil>"
		if seq != nil {
			got = seq.Kind().String()
		}
		return fmt.Errorf("%w: row %q is %s, matrix is %s", ErrKindMismatch, id, got, m.kind)
	}
	m.rows = append(m.rows, Row{ID: id, Seq: seq})
	return nil
}

func (m *Matrix) Kind() symbol.Kind { return m.kind }
func (m *Matrix) Len() int          { return len(m.rows) }
func (m *Matrix) Row(i int) Row     { return m.rows[i] }

// Rows returns the backing slice; callers must not modify it.
func (m *Matrix) Rows() []Row { return m.rows }

// IDs returns the sample identifiers in row order.
func (m *Matrix) IDs() []string {
	ids := make([]string, len(m.rows))
	for i, r := range m.rows {
		ids[i] = r.ID
	}
	return ids
}

// LengthMismatches counts rows whose length differs from the first row.
// Such rows are compared only up to the shorter length.
func (m *Matrix) LengthMismatches() int {
	if len(m.rows) == 0 {
		return 0
	}
	want := m.rows[0].Seq.Len()
	n := 0
	for _, r := range m.rows[1:] {
		if r.Seq.Len() != want {
			n++
		}
	}
	return n
}
