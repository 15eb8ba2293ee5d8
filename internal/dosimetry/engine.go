package dosimetry

import "time"

// Engine binds reference tables, machine constants and a clock. It is safe
// for concurrent use once built.
type Engine struct {
	tables  Tables
	machine Machine
	now     func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now, mainly for tests and replays.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithMachine(m Machine) Option {
	return func(e *Engine) { e.machine = m }
}

func NewEngine(t Tables, opts ...Option) *Engine {
	e := &Engine{tables: t, machine: DefaultMachine(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Tables() Tables   { return e.tables }
func (e *Engine) Machine() Machine { return e.machine }
func (e *Engine) Now() time.Time   { return e.now() }

// ScpValue returns the total scatter factor for fieldSize, 0 when the sheet
// has no SCP series.
func (e *Engine) ScpValue(fieldSize float64) float64 {
	return e.ScatterValue(fieldSize, SeriesSCP)
}

// ScatterValue returns the collimator ("sc") or phantom ("sp") scatter
// factor for fieldSize, 0 when the series is absent.
func (e *Engine) ScatterValue(fieldSize float64, source string) float64 {
	fs, ok := e.tables.SCP[SeriesFS]
	if !ok {
		return 0
	}
	values, ok := e.tables.SCP[source]
	if !ok {
		return 0
	}
	return LookupAtFieldSize(fieldSize, fs, values)
}

func (e *Engine) TMR(fieldSize float64, depth string) (float64, LookupStatus) {
	return LookupDetailed(fieldSize, depth, e.tables.TMR)
}

func (e *Engine) PDD(fieldSize float64, depth string) (float64, LookupStatus) {
	return LookupDetailed(fieldSize, depth, e.tables.PDD)
}

func (e *Engine) DecayFactor() float64 {
	return DecayFactor(e.now())
}

func (e *Engine) TreatmentTime(dMax, totalScp float64) float64 {
	return TreatmentTime(e.machine, dMax, totalScp, e.now())
}
