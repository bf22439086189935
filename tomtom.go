// Package tomtom implements the core of a fast motif-comparison algorithm:
// scoring every (query, target) PWM pair under every gapless offset and
// optionally the reverse complement, and converting the best score into a
// p-value calibrated against a per-query null distribution built from the
// target database.
package tomtom

import (
	"container/heap"
	"encoding/binary"
	"math"
	"runtime"
	"sort"
	"sync"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/pkg/errors"

	"github.com/grailbio/tomtom/align"
	"github.com/grailbio/tomtom/bucket"
	"github.com/grailbio/tomtom/cache"
	"github.com/grailbio/tomtom/null"
	"github.com/grailbio/tomtom/pvalue"
	"github.com/grailbio/tomtom/pwm"
	"github.com/grailbio/tomtom/score"
)

// profileBins is the number of quantization bins used for the top-K
// bucketing signature. This is independent of Opts.NScoreBins, which
// quantizes the actual alignment scores; the bucketing profile only needs
// enough resolution to separate dissimilar targets, not to calibrate a
// null distribution.
const profileBins = 16

// Result holds the output of a Run call. Without NNearest, P, Scores,
// Offsets, Overlaps, and Strands are Nq x Nt. With NNearest = K, they are
// Nq x K and Idxs (Nq x K) records which target produced each entry,
// sorted ascending by p within each row.
type Result struct {
	P        [][]float64
	Scores   [][]int
	Offsets  [][]int
	Overlaps [][]int
	Strands  [][]int // 0 = Plus, 1 = Minus
	Idxs     [][]int // nil unless NNearest > 0
}

// Run scores every query against every target and returns the calibrated
// result.
func Run(queries, targets []pwm.RawRows, opts Opts) (*Result, []Warning, error) {
	if len(queries) == 0 || len(targets) == 0 {
		return nil, nil, ErrEmptyInput
	}
	if opts.NScoreBins <= 0 || opts.NMedianBins <= 0 || opts.NTargetBins <= 0 {
		return nil, nil, ErrInvalidParameter
	}

	queryMatrices, err := parseAll(queries, "query")
	if err != nil {
		return nil, nil, err
	}
	targetMatrices, err := parseAll(targets, "target")
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	var warnMu sync.Mutex
	warn := func(queryIdx int, msg string) {
		warnMu.Lock()
		warnings = append(warnings, Warning{QueryIndex: queryIdx, Message: msg})
		warnMu.Unlock()
	}

	nNearest := opts.NNearest
	if nNearest > len(targetMatrices) {
		warn(-1, "n_nearest exceeds number of targets; clamping")
		nNearest = len(targetMatrices)
	}

	nq, nt := len(queryMatrices), len(targetMatrices)
	r := newResult(nq, nt, nNearest)

	var assign *bucket.Assignment
	if nNearest > 0 {
		assign = buildBucketAssignment(queryMatrices, targetMatrices, opts.NTargetBins)
	}

	c := cache.New(opts.NCache)

	nJobs := opts.NJobs
	if nJobs <= 0 {
		nJobs = runtime.NumCPU()
	}
	if nJobs > nq {
		nJobs = nq
	}
	if nJobs < 1 {
		nJobs = 1
	}

	log.Debug.Printf("tomtom: scoring %d queries against %d targets with %d workers", nq, nt, nJobs)
	err = traverse.Each(nJobs, func(worker int) error {
		start := (worker * nq) / nJobs
		end := ((worker + 1) * nq) / nJobs
		for qi := start; qi < end; qi++ {
			if err := scoreQuery(qi, queryMatrices, targetMatrices, opts, nNearest, assign, c, r); err != nil {
				return errors.Wrapf(err, "query %d", qi)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return r, warnings, nil
}

func newResult(nq, nt, nNearest int) *Result {
	cols := nt
	if nNearest > 0 {
		cols = nNearest
	}
	r := &Result{
		P:        make([][]float64, nq),
		Scores:   make([][]int, nq),
		Offsets:  make([][]int, nq),
		Overlaps: make([][]int, nq),
		Strands:  make([][]int, nq),
	}
	if nNearest > 0 {
		r.Idxs = make([][]int, nq)
	}
	for i := 0; i < nq; i++ {
		r.P[i] = make([]float64, cols)
		r.Scores[i] = make([]int, cols)
		r.Offsets[i] = make([]int, cols)
		r.Overlaps[i] = make([]int, cols)
		r.Strands[i] = make([]int, cols)
		if nNearest > 0 {
			r.Idxs[i] = make([]int, cols)
		}
	}
	return r
}

func parseAll(raws []pwm.RawRows, what string) ([]pwm.Matrix, error) {
	out := make([]pwm.Matrix, len(raws))
	for i, raw := range raws {
		m, err := pwm.FromRows(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %d", what, i)
		}
		out[i] = m
	}
	return out, nil
}

// cacheKey content-hashes a query PWM plus the quantizer-relevant options.
func cacheKey(query pwm.Matrix, opts Opts) cache.Key {
	buf := make([]byte, 0, query.Len()*32+16)
	var tmp [8]byte
	for _, col := range query.Columns {
		for _, v := range col {
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
			buf = append(buf, tmp[:]...)
		}
	}
	binary.LittleEndian.PutUint64(tmp[:], uint64(opts.NScoreBins))
	buf = append(buf, tmp[:]...)
	binary.LittleEndian.PutUint64(tmp[:], uint64(opts.NMedianBins))
	buf = append(buf, tmp[:]...)
	if opts.ReverseComplement {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return cache.Key(farm.Hash64(buf))
}

type cachedQuery struct {
	quant score.Quantizer
	null  *null.Null
}

func buildOrFetchNull(query pwm.Matrix, targets []pwm.Matrix, opts Opts, c *cache.Cache) (*cachedQuery, error) {
	key := cacheKey(query, opts)
	if v, ok := c.Get(key); ok {
		return v.(*cachedQuery), nil
	}
	var sample []float64
	for _, t := range targets {
		for _, tc := range t.Columns {
			for _, qc := range query.Columns {
				sample = append(sample, score.Column(qc, tc))
			}
		}
	}
	quant, err := score.NewQuantizer(sample, opts.NScoreBins)
	if err != nil {
		return nil, err
	}
	n, err := null.Build(query, targets, quant, opts.NMedianBins)
	if err != nil {
		return nil, err
	}
	cq := &cachedQuery{quant: quant, null: n}
	c.Put(key, cq)
	return cq, nil
}

func scoreQuery(qi int, queries, targets []pwm.Matrix, opts Opts, nNearest int, assign *bucket.Assignment, c *cache.Cache, r *Result) error {
	query := queries[qi]
	cq, err := buildOrFetchNull(query, targets, opts, c)
	if err != nil {
		return err
	}

	type hit struct {
		idx     int
		p       float64
		score   int
		offset  int
		overlap int
		strand  int
	}
	scoreTarget := func(ti int) hit {
		best := align.Score(query, targets[ti], cq.quant, opts.ReverseComplement)
		rawP := cq.null.Tail(best.Overlap, best.Score)
		p := pvalue.Correct(rawP, best.Alignments)
		strand := 0
		if best.Strand == align.Minus {
			strand = 1
		}
		return hit{ti, p, best.Score, best.Offset, best.Overlap, strand}
	}

	if nNearest == 0 {
		for ti := range targets {
			h := scoreTarget(ti)
			r.P[qi][ti] = h.p
			r.Scores[qi][ti] = h.score
			r.Offsets[qi][ti] = h.offset
			r.Overlaps[qi][ti] = h.overlap
			r.Strands[qi][ti] = h.strand
		}
		return nil
	}

	hq := newTopKHeap(nNearest)
	l := query.Len()
	if l > cq.null.MaxOverlap() {
		l = cq.null.MaxOverlap()
	}
	for b, bucketTargets := range assign.Targets {
		if len(bucketTargets) == 0 {
			continue
		}
		if hq.full() {
			ceil := assign.Ceiling(b, query, cq.quant, l)
			optimisticRawP := cq.null.Tail(l, ceil)
			optimisticP := pvalue.Correct(optimisticRawP, 1)
			if optimisticP >= hq.worst() {
				continue // prune: this bucket's bound does not beat the current K-th best.
			}
		}
		for _, ti := range bucketTargets {
			h := scoreTarget(ti)
			hq.push(h.idx, h.p, h.score, h.offset, h.overlap, h.strand)
		}
	}

	entries := hq.sorted()
	for rank, e := range entries {
		r.P[qi][rank] = e.p
		r.Scores[qi][rank] = e.score
		r.Offsets[qi][rank] = e.offset
		r.Overlaps[qi][rank] = e.overlap
		r.Strands[qi][rank] = e.strand
		r.Idxs[qi][rank] = e.idx
	}
	return nil
}

func buildBucketAssignment(queries, targets []pwm.Matrix, nBins int) *bucket.Assignment {
	ref := bucket.ReferenceColumn(queries)
	var sample []float64
	for _, t := range targets {
		for _, c := range t.Columns {
			sample = append(sample, score.Column(ref, c))
		}
	}
	quant, err := score.NewQuantizer(sample, profileBins)
	if err != nil {
		// sample is non-empty (targets is non-empty, checked in Run), so
		// this can only fail on NBins <= 0, which profileBins never is.
		log.Fatalf("tomtom: unexpected bucket quantizer error: %v", err)
	}
	profiles := make([][]int32, len(targets))
	for i, t := range targets {
		profiles[i] = bucket.Profile(t, ref, quant)
	}
	return bucket.Assign(targets, profiles, nBins)
}

// topKHeap is a bounded max-heap over p-value, keeping the K smallest
// p-values seen so far. Its root is always the current K-th-best (worst of
// the retained set), which is exactly the threshold the bucket pruning in
// scoreQuery needs.
type topKHeap struct {
	k       int
	entries topKEntries
}

type topKEntry struct {
	idx     int
	p       float64
	score   int
	offset  int
	overlap int
	strand  int
}

type topKEntries []topKEntry

func (h topKEntries) Len() int            { return len(h) }
func (h topKEntries) Less(i, j int) bool  { return h[i].p > h[j].p } // max-heap on p
func (h topKEntries) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *topKEntries) Push(x interface{}) { *h = append(*h, x.(topKEntry)) }
func (h *topKEntries) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newTopKHeap(k int) *topKHeap {
	return &topKHeap{k: k}
}

func (h *topKHeap) full() bool { return len(h.entries) >= h.k }

func (h *topKHeap) worst() float64 {
	if len(h.entries) == 0 {
		return math.Inf(1)
	}
	return h.entries[0].p
}

func (h *topKHeap) push(idx int, p float64, scoreVal, offset, overlap, strand int) {
	e := topKEntry{idx, p, scoreVal, offset, overlap, strand}
	if len(h.entries) < h.k {
		heap.Push(&h.entries, e)
		return
	}
	if p < h.entries[0].p {
		heap.Pop(&h.entries)
		heap.Push(&h.entries, e)
	}
}

func (h *topKHeap) sorted() []topKEntry {
	out := make([]topKEntry, len(h.entries))
	copy(out, h.entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].p != out[j].p {
			return out[i].p < out[j].p
		}
		return out[i].idx < out[j].idx
	})
	return out
}
