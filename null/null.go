// Package null builds the per-query null score distribution: a per-column
// histogram of query-column-vs-target-column scores, convolved across every
// contiguous window of a given overlap length and averaged into one
// distribution per length, with a median-bin rebinning approximation
// applied when a convolution's support would otherwise outgrow
// n_median_bins.
package null

import (
	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/grailbio/tomtom/pwm"
	"github.com/grailbio/tomtom/score"
)

// ErrInvalidParameter is returned when n_median_bins is non-positive.
var ErrInvalidParameter = errors.New("null: n_median_bins must be positive")

// Null holds the per-overlap-length score distribution for one query,
// compressed onto a grid of at most n_median_bins super-bins.
type Null struct {
	// Quantizer is the quantizer this null was built with; observed scores
	// must be requantized with the same value before calling Tail.
	Quantizer score.Quantizer

	// maxScore[L] is the largest raw integer score sum for overlap length
	// L, i.e. L*(NBins-1). Needed to map an observed score onto the
	// compressed grid.
	maxScore []int
	// binWidth[L] is the width, in raw score units, of one compressed bin
	// for overlap length L.
	binWidth []int
	// tail[L][k] is the probability that a random alignment of overlap
	// length L scores >= the raw value at the start of compressed bin k.
	tail [][]float64
}

// Build constructs the null distribution for query against every column of
// every target in targets. nMedianBins bounds the support of each
// convolved length-L distribution.
func Build(query pwm.Matrix, targets []pwm.Matrix, quant score.Quantizer, nMedianBins int) (*Null, error) {
	if nMedianBins <= 0 {
		return nil, ErrInvalidParameter
	}
	lq := query.Len()

	// Per-column probability vectors: hist[j][b] / total, for each query
	// column j.
	hist := make([][]int, lq)
	for j := range hist {
		hist[j] = make([]int, quant.NBins)
	}
	total := 0
	for _, t := range targets {
		for _, tc := range t.Columns {
			for j, qc := range query.Columns {
				b := quant.Quantize(score.Column(qc, tc))
				hist[j][b]++
			}
		}
		total += t.Len()
	}
	if total == 0 {
		return nil, errors.New("null: empty target database")
	}
	probs := make([][]float64, lq)
	for j, h := range hist {
		p := make([]float64, len(h))
		for b, c := range h {
			p[b] = float64(c) / float64(total)
		}
		probs[j] = p
	}

	n := &Null{
		Quantizer: quant,
		maxScore:  make([]int, lq+1),
		binWidth:  make([]int, lq+1),
		tail:      make([][]float64, lq+1),
	}
	maxRaw := quant.MaxColumnScore()
	for l := 1; l <= lq; l++ {
		support := l*maxRaw + 1
		sum := make([]float64, support)
		numWindows := lq - l + 1
		for w := 0; w <= lq-l; w++ {
			dist := []float64{1}
			for j := w; j < w+l; j++ {
				dist = convolve(dist, probs[j])
			}
			for k, v := range dist {
				sum[k] += v
			}
		}
		for k := range sum {
			sum[k] /= float64(numWindows)
		}
		compressed, width := rebin(sum, nMedianBins)
		n.maxScore[l] = l * maxRaw
		n.binWidth[l] = width
		n.tail[l] = upperTail(compressed)
	}
	if log.At(log.Debug) {
		log.Debug.Printf("null: built query of length %d against %d target columns, max overlap %d", lq, total, lq)
	}
	return n, nil
}

// convolve returns the distribution of the sum of two independent integer
// random variables with distributions a and b, both starting at 0.
func convolve(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		if av == 0 {
			continue
		}
		for j, bv := range b {
			if bv == 0 {
				continue
			}
			out[i+j] += av * bv
		}
	}
	return out
}

// rebin compresses dist (a probability vector over 0..len(dist)-1) into at
// most maxBins equal-width super-bins, returning the compressed vector and
// the bin width used. If dist already fits, it is returned unchanged with
// width 1.
func rebin(dist []float64, maxBins int) ([]float64, int) {
	n := len(dist)
	if n <= maxBins {
		return dist, 1
	}
	width := (n + maxBins - 1) / maxBins
	nOut := (n + width - 1) / width
	out := make([]float64, nOut)
	for k, v := range dist {
		out[k/width] += v
	}
	return out, width
}

// upperTail returns the cumulative upper-tail array C[k] = sum_{k'>=k} dist[k'].
func upperTail(dist []float64) []float64 {
	out := make([]float64, len(dist))
	running := 0.0
	for k := len(dist) - 1; k >= 0; k-- {
		running += dist[k]
		out[k] = running
	}
	return out
}

// Tail returns the probability that a random alignment of overlap length l
// scores >= rawScore, under this null. l must be in [1, query length]; an
// l outside that range yields 1. rawScore outside [0, l*(B_s-1)] is clamped
// into that range.
func (n *Null) Tail(l, rawScore int) float64 {
	if l < 1 || l >= len(n.tail) || n.tail[l] == nil {
		return 1
	}
	if rawScore < 0 {
		rawScore = 0
	}
	if max := n.maxScore[l]; rawScore > max {
		rawScore = max
	}
	idx := rawScore / n.binWidth[l]
	if idx >= len(n.tail[l]) {
		idx = len(n.tail[l]) - 1
	}
	return n.tail[l][idx]
}

// MaxOverlap returns the largest overlap length this null was built for.
func (n *Null) MaxOverlap() int { return len(n.tail) - 1 }
