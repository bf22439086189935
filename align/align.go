// Package align implements the gapless alignment scorer: enumerating every
// offset (and, when enabled, the reverse complement of the query) between a
// query and a target PWM, and picking the best integer score with a fixed
// tie-break rule.
package align

import (
	"github.com/grailbio/tomtom/pwm"
	"github.com/grailbio/tomtom/score"
)

// Strand records which orientation of the query produced the winning
// alignment.
type Strand int

const (
	// Plus is the query as given.
	Plus Strand = iota
	// Minus is the reverse complement of the query.
	Minus
)

// Best is the result of scoring one (query, target) pair across every
// offset and, if enabled, both strands.
type Best struct {
	Score   int
	Offset  int
	Overlap int
	Strand  Strand
	// Alignments is A(q,t) for the number of
	// offsets considered, doubled if reverse-complement scoring ran.
	Alignments int
}

// Overlap returns the number of aligned columns for query length lq, target
// length lt, and offset o: L = min(lq, lt, lq+o, lt-o).
func Overlap(lq, lt, o int) int {
	l := lq
	if lt < l {
		l = lt
	}
	if lq+o < l {
		l = lq + o
	}
	if lt-o < l {
		l = lt - o
	}
	return l
}

// oneStrand scores query against target across every offset in
// [-(lq-1), lt-1], returning the best (score, offset, overlap). Ties
// within a single strand favor the smaller |offset|, matching the
// cross-strand tie-break in Score.
func oneStrand(query, target pwm.Matrix, quant score.Quantizer) (bestScore, bestOffset, bestOverlap int) {
	lq, lt := query.Len(), target.Len()
	bestScore = -1
	for o := -(lq - 1); o <= lt-1; o++ {
		l := Overlap(lq, lt, o)
		if l < 1 {
			continue
		}
		jStart := 0
		if -o > jStart {
			jStart = -o
		}
		sum := 0
		for j := jStart; j < jStart+l; j++ {
			sum += quant.Quantize(score.Column(query.Columns[j], target.Columns[j+o]))
		}
		if sum > bestScore ||
			(sum == bestScore && abs(o) < abs(bestOffset)) {
			bestScore = sum
			bestOffset = o
			bestOverlap = l
		}
	}
	return
}

// Score finds the best gapless alignment of query against target. When
// reverseComplement is true, the reverse complement of query is also
// scored and the better of the two orientations wins; on equal scores the
// smaller |offset| wins, and if that also ties, the plus strand.
func Score(query, target pwm.Matrix, quant score.Quantizer, reverseComplement bool) Best {
	lq, lt := query.Len(), target.Len()
	numOffsets := lq + lt - 1

	plusScore, plusOffset, plusOverlap := oneStrand(query, target, quant)
	best := Best{
		Score:      plusScore,
		Offset:     plusOffset,
		Overlap:    plusOverlap,
		Strand:     Plus,
		Alignments: numOffsets,
	}
	if !reverseComplement {
		return best
	}
	rc := query.ReverseComplement()
	minusScore, minusOffset, minusOverlap := oneStrand(rc, target, quant)
	best.Alignments = numOffsets * 2
	if minusScore > best.Score ||
		(minusScore == best.Score && abs(minusOffset) < abs(best.Offset)) {
		best.Score = minusScore
		best.Offset = minusOffset
		best.Overlap = minusOverlap
		best.Strand = Minus
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
