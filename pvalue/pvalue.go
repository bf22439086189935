// Package pvalue implements the multiple-testing correction from spec
// section 4.4: converting a raw per-alignment tail probability into a
// per-pair p-value via a numerically stable Sidak-style correction.
package pvalue

import "math"

// Correct converts a raw tail probability rawP (the probability, under the
// null, of scoring at least as well as the observed alignment) into a
// corrected p-value accounting for alignments independent-ish trials,
// computed as 1 - (1-rawP)^alignments = -expm1(alignments * log1p(-rawP))
// for numerical stability when rawP is tiny. The result is clamped to
// [0, 1].
func Correct(rawP float64, alignments int) float64 {
	if rawP <= 0 {
		return 0
	}
	if rawP >= 1 {
		return 1
	}
	if alignments <= 0 {
		return 0
	}
	corrected := -math.Expm1(float64(alignments) * math.Log1p(-rawP))
	if corrected < 0 {
		corrected = 0
	}
	if corrected > 1 {
		corrected = 1
	}
	return corrected
}
