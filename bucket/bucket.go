// Package bucket implements approximate top-K target bucketing: targets are
// hashed into n_target_bins buckets by a signature derived from their
// quantized column-score profile against a fixed reference query, so that a
// per-query top-K search can prune whole buckets whose bound (computed from
// one representative target, see Assignment) does not beat the current
// K-th-best p-value.
package bucket

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"

	"github.com/grailbio/tomtom/pwm"
	"github.com/grailbio/tomtom/score"
)

// ReferenceColumn returns the column-wise mean of every column of every
// query in queries, used as the fixed reference query signature profiles
// are computed against.
func ReferenceColumn(queries []pwm.Matrix) [4]float64 {
	var sum [4]float64
	n := 0
	for _, q := range queries {
		for _, c := range q.Columns {
			sum[0] += c[0]
			sum[1] += c[1]
			sum[2] += c[2]
			sum[3] += c[3]
			n++
		}
	}
	if n == 0 {
		return sum
	}
	for i := range sum {
		sum[i] /= float64(n)
	}
	return sum
}

// Profile computes the quantized column-score profile of target against
// ref, one integer per column, using quant for quantization.
func Profile(target pwm.Matrix, ref [4]float64, quant score.Quantizer) []int32 {
	profile := make([]int32, target.Len())
	for j, c := range target.Columns {
		profile[j] = int32(quant.Quantize(score.Column(ref, c)))
	}
	return profile
}

// Signature hashes profile into one of nBins buckets.
func Signature(profile []int32, nBins int) int {
	if nBins <= 0 {
		nBins = 1
	}
	buf := make([]byte, len(profile)*4)
	for i, v := range profile {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}
	h := farm.Hash64(buf)
	return int(h % uint64(nBins))
}
