package pwm

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func oneHot(seq string) RawRows {
	rows := RawRows{
		make([]float64, len(seq)),
		make([]float64, len(seq)),
		make([]float64, len(seq)),
		make([]float64, len(seq)),
	}
	for j, b := range seq {
		switch b {
		case 'A':
			rows[A][j] = 1
		case 'C':
			rows[C][j] = 1
		case 'G':
			rows[G][j] = 1
		case 'T':
			rows[T][j] = 1
		}
	}
	return rows
}

func TestFromRowsValid(t *testing.T) {
	m, err := FromRows(oneHot("ACGT"))
	expect.NoError(t, err)
	expect.EQ(t, m.Len(), 4)
	expect.EQ(t, m.Columns[0], [4]float64{1, 0, 0, 0})
	expect.EQ(t, m.Columns[3], [4]float64{0, 0, 0, 1})
}

func TestFromRowsBadShape(t *testing.T) {
	_, err := FromRows(RawRows{{1}, {0}, {0}})
	assert.HasSubstr(t, err.Error(), "got 3 rows")

	_, err = FromRows(RawRows{{}, {}, {}, {}})
	assert.HasSubstr(t, err.Error(), "zero columns")

	_, err = FromRows(RawRows{{1, 2}, {0}, {0, 0}, {0, 0}})
	assert.HasSubstr(t, err.Error(), "row 1 has 1 columns")
}

func TestReverseComplementOfPalindrome(t *testing.T) {
	m, err := FromRows(oneHot("ACGT"))
	expect.NoError(t, err)
	rc := m.ReverseComplement()
	expect.EQ(t, rc.Columns, m.Columns)
}

func TestReverseComplementNonPalindrome(t *testing.T) {
	m, err := FromRows(oneHot("AAAA"))
	expect.NoError(t, err)
	rc := m.ReverseComplement()
	want, err := FromRows(oneHot("TTTT"))
	expect.NoError(t, err)
	expect.EQ(t, rc.Columns, want.Columns)
}
