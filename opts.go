package tomtom

// Opts holds every tunable of a tomtom.Run call. Field names mirror the
// historical --n-nearest / --min-overlap style flags of the tool this core
// reimplements; DefaultOpts gives the documented defaults.
type Opts struct {
	// NNearest, if > 0, truncates each query's output to its N_nearest
	// closest targets by p-value. Zero means "return the full Nq x Nt
	// matrix". Go: -n-nearest.
	NNearest int

	// NScoreBins is B_s, the number of equal-width bins the column
	// scorer quantizes into. Go: -n-score-bins.
	NScoreBins int

	// NMedianBins bounds the support of each convolved per-length null
	// distribution. Go: -n-median-bins.
	NMedianBins int

	// NTargetBins is the number of approximate buckets targets are
	// hashed into for top-K pruning. Go: -n-target-bins.
	NTargetBins int

	// NCache bounds the number of per-query null distributions retained
	// while one Run call is in progress. Each Run call starts with an empty
	// cache, so nothing carries over between calls. Zero disables caching.
	// Go: -n-cache.
	NCache int

	// ReverseComplement enables scoring the reverse complement of each
	// query in addition to the query itself. Go: -norc to disable.
	ReverseComplement bool

	// NJobs is the number of worker goroutines the scheduler fans queries
	// across. Non-positive means "use every available core". Go: -n-jobs.
	NJobs int
}

// DefaultOpts holds the recommended defaults for typical motif databases.
var DefaultOpts = Opts{
	NNearest:          0,
	NScoreBins:        100,
	NMedianBins:       1000,
	NTargetBins:       100,
	NCache:            100,
	ReverseComplement: true,
	NJobs:             0,
}
