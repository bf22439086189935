package tomtom

import "github.com/pkg/errors"

// Error taxonomy. NumericalDegenerate is deliberately
// absent here: it is a documented silent-recovery path (bin 0, p=1), not
// an error.
var (
	// ErrEmptyInput is returned when queries or targets has no elements.
	ErrEmptyInput = errors.New("tomtom: queries and targets must be non-empty")

	// ErrInvalidParameter is returned when n_score_bins, n_median_bins,
	// or n_target_bins is <= 0.
	ErrInvalidParameter = errors.New("tomtom: n_score_bins, n_median_bins, and n_target_bins must be positive")
)

// Warning is a non-fatal diagnostic surfaced alongside a Result: accessible
// to callers, but never causes Run to fail.
type Warning struct {
	// QueryIndex is the affected query, or -1 if the warning applies to
	// the whole call.
	QueryIndex int
	Message    string
}
