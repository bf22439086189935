// Package pwm defines the position-weight-matrix type shared by the rest of
// tomtom, and the handful of shape/orientation operations the core needs:
// validation and reverse-complementation.
package pwm

import "github.com/pkg/errors"

// Base indexes a row of a PWM. The alphabet order is fixed: A, C, G, T.
type Base int

const (
	A Base = iota
	C
	G
	T
)

// NumBases is the alphabet size tomtom operates over: DNA only, no protein
// or ambiguity-code support.
const NumBases = 4

// ErrInvalidShape is returned when a caller-supplied matrix does not have
// exactly 4 rows, or has zero columns.
var ErrInvalidShape = errors.New("pwm: matrix must have exactly 4 rows and at least 1 column")

// RawRows is the wire-level representation callers hand to FromRows: 4 rows
// (A, C, G, T in that order), each of length L. Values are arbitrary reals;
// the core does not require column sums to normalize to 1.
type RawRows [][]float64

// Matrix is a validated 4xL position-weight matrix, stored column-major so
// that the scoring hot loop (which walks columns) doesn't have to stride
// across rows.
type Matrix struct {
	// Columns holds one [4]float64 per position, indexed by Base.
	Columns [][4]float64
}

// FromRows validates rows and builds a Matrix. rows must have exactly 4
// entries (A, C, G, T), all of the same non-zero length.
func FromRows(rows RawRows) (Matrix, error) {
	if len(rows) != NumBases {
		return Matrix{}, errors.Wrapf(ErrInvalidShape, "got %d rows, want %d", len(rows), NumBases)
	}
	l := len(rows[0])
	if l == 0 {
		return Matrix{}, errors.Wrap(ErrInvalidShape, "zero columns")
	}
	for i, row := range rows {
		if len(row) != l {
			return Matrix{}, errors.Wrapf(ErrInvalidShape, "row %d has %d columns, want %d", i, len(row), l)
		}
	}
	cols := make([][4]float64, l)
	for j := 0; j < l; j++ {
		for i := 0; i < NumBases; i++ {
			cols[j][i] = rows[i][j]
		}
	}
	return Matrix{Columns: cols}, nil
}

// Len returns the number of columns (positions) in m.
func (m Matrix) Len() int { return len(m.Columns) }

// Validate reports whether m satisfies the core's shape invariants. Matrix
// values built via FromRows are always valid; Validate exists for callers
// that construct a Matrix directly (e.g. in tests) and want the same check
// FromRows performs.
func (m Matrix) Validate() error {
	if m.Len() == 0 {
		return ErrInvalidShape
	}
	return nil
}

// ReverseComplement returns the reverse-complement of m: column order is
// reversed and rows are swapped A<->T, C<->G.
func (m Matrix) ReverseComplement() Matrix {
	n := m.Len()
	out := make([][4]float64, n)
	for j := 0; j < n; j++ {
		src := m.Columns[n-1-j]
		out[j] = [4]float64{src[T], src[G], src[C], src[A]}
	}
	return Matrix{Columns: out}
}
