package align

import (
	"testing"

	"github.com/grailbio/testutil/expect"

	"github.com/grailbio/tomtom/pwm"
	"github.com/grailbio/tomtom/score"
)

func oneHot(seq string) pwm.Matrix {
	cols := make([][4]float64, len(seq))
	for j, b := range seq {
		switch b {
		case 'A':
			cols[j][0] = 1
		case 'C':
			cols[j][1] = 1
		case 'G':
			cols[j][2] = 1
		case 'T':
			cols[j][3] = 1
		}
	}
	return pwm.Matrix{Columns: cols}
}

func identityQuantizer() score.Quantizer {
	q, _ := score.NewQuantizer([]float64{0, 1}, 100)
	return q
}

func TestIdentityAlignment(t *testing.T) {
	q := oneHot("ACGT")
	tg := oneHot("ACGT")
	best := Score(q, tg, identityQuantizer(), true)
	expect.EQ(t, best.Offset, 0)
	expect.EQ(t, best.Overlap, 4)
	expect.EQ(t, best.Strand, Plus)
	expect.EQ(t, best.Score, 4*identityQuantizer().MaxColumnScore())
}

func TestOverhangAlignment(t *testing.T) {
	q := oneHot("AAAA")
	tg := oneHot("TTAAAATT")
	best := Score(q, tg, identityQuantizer(), false)
	expect.EQ(t, best.Offset, 2)
	expect.EQ(t, best.Overlap, 4)
	expect.EQ(t, best.Strand, Plus)
}

func TestAlignmentNeverOverlapsZero(t *testing.T) {
	q := oneHot("AAA")
	tg := oneHot("AAA")
	lq, lt := q.Len(), tg.Len()
	seen := map[int]bool{}
	for o := -(lq - 1); o <= lt-1; o++ {
		l := Overlap(lq, lt, o)
		expect.True(t, l >= 1)
		seen[l] = true
	}
	expect.EQ(t, len(seen), 3) // overlaps {1,2,3} all appear for length-3 vs length-3
}

func TestReverseComplementSymmetry(t *testing.T) {
	tg := oneHot("AAAA")
	q := tg.ReverseComplement() // = one-hot("TTTT")
	best := Score(q, tg, identityQuantizer(), true)
	expect.EQ(t, best.Strand, Minus)
	expect.EQ(t, best.Overlap, 4)
	expect.EQ(t, best.Offset, 0)
}
