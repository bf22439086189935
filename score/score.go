// Package score implements the column scorer and quantizer: a symmetric
// bilinear score between two PWM columns, and an equal-width quantizer
// mapping real column scores into a small integer range so that alignment
// sums and null histograms can share one fixed dynamic range.
package score

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ErrInvalidParameter is returned when a binning parameter is non-positive.
var ErrInvalidParameter = errors.New("score: n_score_bins must be positive")

// Column computes the raw per-column score s(q,t) = sum_a q[a]*t[a], a
// Pearson-like inner product. Any symmetric bilinear column score is
// admissible as long as it's used consistently for both observed scores and
// null construction, which is enforced by routing every caller through a
// single Quantizer built from this same function.
func Column(q, t [4]float64) float64 {
	return q[0]*t[0] + q[1]*t[1] + q[2]*t[2] + q[3]*t[3]
}

// Quantizer maps real column scores into [0, NBins) using fixed, equal-width
// bin edges spanning [Min, Max]. The same Quantizer value must be used for
// both the observed alignment scores and the null histograms of a given
// query.
type Quantizer struct {
	Min, Max float64
	NBins    int
	// Degenerate is true when Min == Max, or when the sample's variance
	// computes to exactly zero: every column score collapses to bin 0.
	Degenerate bool
}

// NewQuantizer builds a Quantizer from the sample of raw column scores a
// query observed against the target database. sample must be non-empty.
func NewQuantizer(sample []float64, nBins int) (Quantizer, error) {
	if nBins <= 0 {
		return Quantizer{}, ErrInvalidParameter
	}
	min, max := sample[0], sample[0]
	for _, v := range sample {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	// max == min is the degenerate case (every target column scores
	// identically against every query column). stat.Variance additionally
	// flags a sample whose spread is so small that its variance computes to
	// exactly zero.
	degenerate := max == min
	if !degenerate && len(sample) > 1 && stat.Variance(sample, nil) == 0 {
		degenerate = true
	}
	return Quantizer{Min: min, Max: max, NBins: nBins, Degenerate: degenerate}, nil
}

// Quantize maps a raw column score to an integer bin in [0, NBins). Values
// at or above Max fall into the last bin.
func (q Quantizer) Quantize(s float64) int {
	if q.Degenerate {
		return 0
	}
	b := int((s - q.Min) * float64(q.NBins) / (q.Max - q.Min))
	if b < 0 {
		b = 0
	}
	if b >= q.NBins {
		b = q.NBins - 1
	}
	return b
}

// MaxColumnScore is the largest quantized column score a Quantizer can
// produce: B_s - 1.
func (q Quantizer) MaxColumnScore() int {
	if q.NBins <= 0 {
		return 0
	}
	return q.NBins - 1
}
