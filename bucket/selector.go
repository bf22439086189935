package bucket

import (
	"github.com/grailbio/tomtom/pwm"
	"github.com/grailbio/tomtom/score"
)

// Assignment groups target indices into buckets. Each bucket also keeps the
// PWM of the first target assigned to it as that bucket's representative,
// used by Ceiling to bound what the bucket could achieve against a
// specific query. Because the bound is representative rather than
// exhaustive, pruning on it yields "K nearest with high probability", not
// an exact top-K.
type Assignment struct {
	Targets        [][]int      // Targets[bucket] = target indices hashed into that bucket.
	Representative []pwm.Matrix // Representative[bucket] = representative target's matrix; zero value if the bucket is empty.
}

// Assign buckets every target by Signature(Profile(target, ref, quant), nBins).
// targets and profiles must be parallel slices.
func Assign(targets []pwm.Matrix, profiles [][]int32, nBins int) *Assignment {
	a := &Assignment{
		Targets:        make([][]int, nBins),
		Representative: make([]pwm.Matrix, nBins),
	}
	seen := make([]bool, nBins)
	for idx, profile := range profiles {
		b := Signature(profile, nBins)
		a.Targets[b] = append(a.Targets[b], idx)
		if !seen[b] {
			seen[b] = true
			a.Representative[b] = targets[idx]
		}
	}
	return a
}

// Ceiling returns an upper bound, in quant's units, on the raw score
// bucket b's representative target could achieve against query at overlap
// length l. For each representative column it takes the best score against
// any column of query, then sums the best contiguous run of l such
// per-column bests: since a real alignment pairs each representative
// column with exactly one query column, this is a valid upper bound even
// though it is not itself an achievable alignment.
func (a *Assignment) Ceiling(b int, query pwm.Matrix, quant score.Quantizer, l int) int {
	rep := a.Representative[b]
	if rep.Len() == 0 {
		return 0
	}
	colCeil := make([]int32, rep.Len())
	for k, tc := range rep.Columns {
		best := 0
		for _, qc := range query.Columns {
			if v := quant.Quantize(score.Column(qc, tc)); v > best {
				best = v
			}
		}
		colCeil[k] = int32(best)
	}
	return windowMaxSum(colCeil, l)
}

// windowMaxSum returns the largest sum of any contiguous run of l entries
// in profile, or the sum of the whole profile if it's shorter than l.
func windowMaxSum(profile []int32, l int) int {
	n := len(profile)
	if l <= 0 {
		return 0
	}
	if l >= n {
		sum := 0
		for _, v := range profile {
			sum += int(v)
		}
		return sum
	}
	sum := 0
	for _, v := range profile[:l] {
		sum += int(v)
	}
	best := sum
	for start := 1; start+l <= n; start++ {
		sum += int(profile[start+l-1]) - int(profile[start-1])
		if sum > best {
			best = sum
		}
	}
	return best
}
