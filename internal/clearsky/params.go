package clearsky

import (
	"math"
	"time"
)

// Defaults for the scalar tuning knobs. The five frequency-dependent
// tunables take their defaults from the bucket table instead.
const (
	DefaultComparisonInterval = 30 * 24 * time.Hour
	DefaultPercentile         = 0.9
	DefaultCorrThreshold      = 0.98
	DefaultFirstLastLimit     = 0.1
)

// Options declares the user-facing tuning knobs of the classifier. Pointer
// fields left nil are resolved per stream from the estimated sampling
// frequency; zero-valued scalar fields take the package defaults. Smoothing
// window widths of one or less disable the corresponding smoothing pass.
type Options struct {
	// ComparisonInterval is the length of each comparison window.
	ComparisonInterval time.Duration

	// Percentile is the multiplicative correction applied to the raw
	// maximum envelope.
	Percentile float64

	// CorrThreshold is the minimum Pearson correlation between a day and
	// its template for the day to be accepted.
	CorrThreshold float64

	// FirstLastLimit is the largest power allowed at a day's first and
	// last sample. Set it very high to disable the night-bound check.
	FirstLastLimit float64

	// MinPoints is the sample count a day must exceed to be eligible.
	MinPoints *int

	// PreSmoothWindow is the moving-average width applied to a window's
	// pooled samples before envelope extraction.
	PreSmoothWindow *int

	// PostSmoothWindow is the moving-average width applied to the
	// percentile-corrected envelope.
	PostSmoothWindow *int

	// GapThreshold is the largest tolerated spacing in minutes between a
	// day's consecutive samples.
	GapThreshold *float64

	// MaxDeviation is the absolute difference from the template beyond
	// which a sample counts as an exceed.
	MaxDeviation *float64

	// MaxExceedCount is the number of exceeding samples a day may carry
	// and still be accepted.
	MaxExceedCount *int

	// Workers bounds how many comparison windows are classified
	// concurrently. Zero means one worker per CPU.
	Workers int
}

// Params is the fully resolved parameter set for one stream. Built once per
// stream by ResolveParams and immutable afterwards; never shared across
// streams, whose sampling rates may differ.
type Params struct {
	Frequency          float64
	ComparisonInterval time.Duration
	Percentile         float64
	CorrThreshold      float64
	FirstLastLimit     float64
	MinPoints          int
	PreSmoothWindow    int
	PostSmoothWindow   int
	GapThreshold       float64
	MaxDeviation       float64
	MaxExceedCount     int
}

// freqBucket holds the defaults for one band of sampling frequencies.
type freqBucket struct {
	maxFreq      float64 // inclusive upper bound, minutes
	minPoints    int
	preSmooth    int
	postSmooth   int
	gapThreshold float64
	maxExceeds   int
}

var freqBuckets = []freqBucket{
	{maxFreq: 1, minPoints: 300, preSmooth: 10, postSmooth: 60, gapThreshold: 30, maxExceeds: 300},
	{maxFreq: 5, minPoints: 100, preSmooth: 5, postSmooth: 30, gapThreshold: 30, maxExceeds: 100},
	{maxFreq: 10, minPoints: 70, preSmooth: 2, postSmooth: 15, gapThreshold: 50, maxExceeds: 70},
	{maxFreq: 15, minPoints: 45, preSmooth: 2, postSmooth: 10, gapThreshold: 60, maxExceeds: 45},
	{maxFreq: math.Inf(1), minPoints: 20, preSmooth: 2, postSmooth: 2, gapThreshold: 120, maxExceeds: 20},
}

// bucketFor picks the defaults band for a median frequency in minutes. NaN
// compares false against every bound and falls through to the coarsest band.
func bucketFor(freq float64) freqBucket {
	for _, b := range freqBuckets {
		if freq <= b.maxFreq {
			return b
		}
	}
	return freqBuckets[len(freqBuckets)-1]
}

// ResolveParams fills every unset option from the frequency bucket table and
// the stream's maximum observed power. The returned list names the fields
// that were defaulted, so callers can report them to the operator rather
// than apply them silently.
func ResolveParams(opts Options, freq, maxPower float64) (Params, []string) {
	b := bucketFor(freq)

	p := Params{
		Frequency:          freq,
		ComparisonInterval: opts.ComparisonInterval,
		Percentile:         opts.Percentile,
		CorrThreshold:      opts.CorrThreshold,
		FirstLastLimit:     opts.FirstLastLimit,
	}

	if p.ComparisonInterval == 0 {
		p.ComparisonInterval = DefaultComparisonInterval
	}
	if p.Percentile == 0 {
		p.Percentile = DefaultPercentile
	}
	if p.CorrThreshold == 0 {
		p.CorrThreshold = DefaultCorrThreshold
	}
	if p.FirstLastLimit == 0 {
		p.FirstLastLimit = DefaultFirstLastLimit
	}

	var defaulted []string

	if opts.MinPoints != nil {
		p.MinPoints = *opts.MinPoints
	} else {
		p.MinPoints = b.minPoints
		defaulted = append(defaulted, "min_points")
	}

	if opts.PreSmoothWindow != nil {
		p.PreSmoothWindow = *opts.PreSmoothWindow
	} else {
		p.PreSmoothWindow = b.preSmooth
		defaulted = append(defaulted, "pre_smooth_window")
	}

	if opts.PostSmoothWindow != nil {
		p.PostSmoothWindow = *opts.PostSmoothWindow
	} else {
		p.PostSmoothWindow = b.postSmooth
		defaulted = append(defaulted, "post_smooth_window")
	}

	if opts.GapThreshold != nil {
		p.GapThreshold = *opts.GapThreshold
	} else {
		p.GapThreshold = b.gapThreshold
		defaulted = append(defaulted, "gap_threshold")
	}

	if opts.MaxDeviation != nil {
		p.MaxDeviation = *opts.MaxDeviation
	} else {
		p.MaxDeviation = 0.3 * maxPower
		defaulted = append(defaulted, "max_deviation")
	}

	if opts.MaxExceedCount != nil {
		p.MaxExceedCount = *opts.MaxExceedCount
	} else {
		p.MaxExceedCount = b.maxExceeds
		defaulted = append(defaulted, "max_exceed_count")
	}

	return p, defaulted
}
