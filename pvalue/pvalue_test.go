package pvalue

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestCorrectBounds(t *testing.T) {
	expect.EQ(t, Correct(0, 5), 0.0)
	expect.EQ(t, Correct(1, 5), 1.0)
	expect.EQ(t, Correct(0.1, 0), 0.0)
}

func TestCorrectMatchesNaiveFormula(t *testing.T) {
	rawP, alignments := 0.01, 20
	got := Correct(rawP, alignments)
	want := 1 - pow(1-rawP, alignments)
	expect.True(t, abs(got-want) < 1e-9)
}

func TestCorrectMonotonicInAlignments(t *testing.T) {
	prev := 0.0
	for _, n := range []int{1, 2, 5, 10, 100} {
		cur := Correct(0.05, n)
		expect.True(t, cur >= prev)
		prev = cur
	}
}

func pow(x float64, n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= x
	}
	return r
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
