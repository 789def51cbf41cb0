package app

import (
	"sync"

	"go.uber.org/zap"

	"github.com/openpv/clearsky/internal/clearsky"
)

// runObserver tallies classifier callbacks for the run summary and logs
// every rejected day with its diagnostics. Callbacks arrive concurrently
// from the window workers.
type runObserver struct {
	logger *zap.SugaredLogger

	mu       sync.Mutex
	streams  int
	accepted int
	rejected map[string]int
}

func newRunObserver(logger *zap.SugaredLogger) *runObserver {
	return &runObserver{
		logger:   logger,
		rejected: make(map[string]int),
	}
}

func (o *runObserver) ParamsResolved(stream string, p clearsky.Params, defaulted []string) {
	o.mu.Lock()
	o.streams++
	o.mu.Unlock()
}

func (o *runObserver) TemplateBuilt(stream string, w clearsky.Window, t *clearsky.Template) {
}

func (o *runObserver) DayEvaluated(v clearsky.Verdict) {
	o.mu.Lock()
	if v.Accepted() {
		o.accepted++
	} else {
		o.rejected[string(v.Reason)]++
	}
	o.mu.Unlock()

	if !v.Accepted() {
		o.logger.Debugw("Rejected day",
			"stream", v.Stream,
			"date", v.Date.Format("2006-01-02"),
			"reason", string(v.Reason),
			"samples", v.SampleCount,
			"max_gap_minutes", v.MaxGap,
			"correlation", v.Correlation,
			"exceeds", v.ExceedCount)
	}
}

// Streams returns how many streams the classifier resolved parameters for.
func (o *runObserver) Streams() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.streams
}

// Summary returns the accepted count and the rejection counts keyed by
// reason.
func (o *runObserver) Summary() (int, map[string]int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	rejected := make(map[string]int, len(o.rejected))
	for reason, count := range o.rejected {
		rejected[reason] = count
	}
	return o.accepted, rejected
}
