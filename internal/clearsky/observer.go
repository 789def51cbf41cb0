package clearsky

// Observer receives progress callbacks from a classifier run. Callbacks may
// be invoked concurrently from worker goroutines; implementations must be
// safe for concurrent use.
type Observer interface {
	// ParamsResolved is called once per stream with the effective parameter
	// set and the names of the tunables filled from frequency defaults.
	ParamsResolved(stream string, p Params, defaulted []string)

	// TemplateBuilt is called after each window's upper-profile template is
	// assembled, before any of the window's days are evaluated.
	TemplateBuilt(stream string, w Window, t *Template)

	// DayEvaluated is called with the verdict for every evaluated day,
	// accepted or not.
	DayEvaluated(v Verdict)
}

// NopObserver is an Observer that ignores all callbacks.
type NopObserver struct{}

func (NopObserver) ParamsResolved(string, Params, []string) {}

func (NopObserver) TemplateBuilt(string, Window, *Template) {}

func (NopObserver) DayEvaluated(Verdict) {}
