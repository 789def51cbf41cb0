// Package clearsky identifies clear sky days in photovoltaic power output
// streams. Each stream is cut into fixed comparison windows and every day is
// matched against an upper envelope template built from the window it falls
// in.
package clearsky

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Classifier runs the clear sky detection pipeline over one or more power
// streams.
type Classifier struct {
	opts     Options
	logger   *zap.SugaredLogger
	observer Observer
}

// New creates a Classifier with the given options. A nil logger disables
// logging.
func New(opts Options, logger *zap.SugaredLogger) *Classifier {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Classifier{
		opts:     opts,
		logger:   logger,
		observer: NopObserver{},
	}
}

// SetObserver registers an observer for progress callbacks. Must be called
// before Run; a nil observer restores the no-op default.
func (c *Classifier) SetObserver(obs Observer) {
	if obs == nil {
		obs = NopObserver{}
	}
	c.observer = obs
}

// windowTask pairs one comparison window with its stream's resolved
// parameters.
type windowTask struct {
	window Window
	params Params
}

// Run classifies every day of every stream in samples and returns the
// accepted clear sky days sorted by stream and date. Samples may arrive in
// any order; each stream's parameters are resolved from its own sampling
// frequency before its windows are classified.
func (c *Classifier) Run(ctx context.Context, samples []Sample) ([]Record, error) {
	if err := validateOptions(c.opts); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	streams := SplitStreams(samples)
	if len(streams) == 0 {
		return nil, nil
	}

	var tasks []windowTask
	for _, st := range streams {
		freq := EstimateFrequency(st.Samples)
		params, defaulted := ResolveParams(c.opts, freq, maxStreamPower(st.Samples))
		c.observer.ParamsResolved(st.ID, params, defaulted)
		c.logger.Infow("Resolved stream parameters",
			"stream", st.ID,
			"samples", len(st.Samples),
			"frequency_minutes", params.Frequency,
			"defaulted", defaulted)

		for _, w := range PartitionWindows(st.Samples, params.ComparisonInterval) {
			tasks = append(tasks, windowTask{window: w, params: params})
		}
	}

	workers := c.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([][]Record, len(tasks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = c.classifyWindow(task)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to classify windows: %w", err)
	}

	var records []Record
	for _, rs := range results {
		records = append(records, rs...)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Stream != records[j].Stream {
			return records[i].Stream < records[j].Stream
		}
		return records[i].Date.Before(records[j].Date)
	})

	c.logger.Infow("Classification finished",
		"streams", len(streams),
		"windows", len(tasks),
		"clear_days", len(records))
	return records, nil
}

// classifyWindow builds the window's template and evaluates each of its days
// against it.
func (c *Classifier) classifyWindow(task windowTask) []Record {
	w := task.window
	tmpl := BuildTemplate(w, task.params)
	c.observer.TemplateBuilt(w.Stream, w, tmpl)
	c.logger.Debugw("Built window template",
		"stream", w.Stream,
		"window_end", w.End,
		"days", len(w.Days),
		"template_points", len(tmpl.Points))

	var records []Record
	for _, d := range w.Days {
		v, rec := EvaluateDay(d, tmpl, task.params)
		c.observer.DayEvaluated(v)
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

func validateOptions(opts Options) error {
	if opts.ComparisonInterval < 0 {
		return fmt.Errorf("comparison interval %v is negative", opts.ComparisonInterval)
	}
	if opts.Percentile < 0 || opts.Percentile > 1 {
		return fmt.Errorf("percentile %v outside [0, 1]", opts.Percentile)
	}
	if opts.CorrThreshold < 0 || opts.CorrThreshold > 1 {
		return fmt.Errorf("correlation threshold %v outside [0, 1]", opts.CorrThreshold)
	}
	if opts.FirstLastLimit < 0 {
		return fmt.Errorf("first/last power limit %v is negative", opts.FirstLastLimit)
	}
	if opts.Workers < 0 {
		return fmt.Errorf("worker count %d is negative", opts.Workers)
	}
	return nil
}

// maxStreamPower returns the largest power in the stream. Callers pass
// non-empty streams; an empty slice yields negative infinity.
func maxStreamPower(samples []Sample) float64 {
	m := math.Inf(-1)
	for _, s := range samples {
		if s.Power > m {
			m = s.Power
		}
	}
	return m
}
