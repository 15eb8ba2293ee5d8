// Package session holds the per-operator calculation state machine shared by
// every scenario: fields are set as text, Calculate validates and computes,
// SaveToHistory hands the last result to the audit log and Clear resets.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	repo "TPSuite/internal/repo"
)

var (
	ErrNoResult     = errors.New("no calculation to save")
	ErrUnknownField = errors.New("unknown field")
)

const (
	MsgSaved = "Saved to history successfully"
)

// Calculator is one clinical scenario.
type Calculator interface {
	Label() string
	// Fields lists the accepted field names in display order.
	Fields() []string
	Calculate(fields map[string]string) (Outcome, error)
}

// Outcome is an immutable calculation result.
type Outcome interface {
	// Summary is the human-readable result stored with the log record.
	Summary() string
	// Parameters are the derived values added to the saved payload.
	Parameters() map[string]string
}

// LogAppender receives saved calculations.
type LogAppender interface {
	AppendLog(ctx context.Context, rec repo.LogRecord) (int64, error)
}

type State int

const (
	StateIdle State = iota
	StateInvalid
	StateComputed
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInvalid:
		return "invalid"
	case StateComputed:
		return "computed"
	case StateSaved:
		return "saved"
	}
	return "unknown"
}

type Session struct {
	calc    Calculator
	store   LogAppender
	timeout time.Duration
	saves   *sync.WaitGroup

	mu     sync.Mutex
	fields map[string]string
	result Outcome
	// inputs are the fields that produced result.
	inputs  map[string]string
	message string
	state   State
	// gen changes on Clear and Calculate so a late save cannot overwrite
	// newer state.
	gen uint64
}

type Option func(*Session)

// WithSaveTimeout bounds each asynchronous append.
func WithSaveTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithWaitGroup tracks in-flight saves so shutdown can wait for them.
func WithWaitGroup(wg *sync.WaitGroup) Option {
	return func(s *Session) { s.saves = wg }
}

func New(calc Calculator, store LogAppender, opts ...Option) *Session {
	s := &Session{
		calc:    calc,
		store:   store,
		timeout: 10 * time.Second,
		fields:  emptyFields(calc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyFields(calc Calculator) map[string]string {
	fields := make(map[string]string, len(calc.Fields()))
	for _, name := range calc.Fields() {
		fields[name] = ""
	}
	return fields
}

func (s *Session) Label() string { return s.calc.Label() }

// SetField stores text for name. Names are matched case-insensitively.
func (s *Session) SetField(name, text string) error {
	canonical, ok := s.fieldName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[canonical] = text
	return nil
}

func (s *Session) fieldName(name string) (string, bool) {
	return FieldName(s.calc, name)
}

func (s *Session) Field(name string) string {
	canonical, ok := s.fieldName(name)
	if !ok {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[canonical]
}

// Calculate validates the current fields and computes a new result. On
// failure the message is set and the previous result is kept.
func (s *Session) Calculate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inputs := copyFields(s.fields)
	out, err := Run(s.calc, inputs)
	if err != nil {
		s.message = err.Error()
		s.state = StateInvalid
		return err
	}
	s.result = out
	s.inputs = inputs
	s.message = ""
	s.state = StateComputed
	s.gen++
	return nil
}

// Clear resets fields, result and message.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = emptyFields(s.calc)
	s.result = nil
	s.inputs = nil
	s.message = ""
	s.state = StateIdle
	s.gen++
}

// SaveToHistory appends the last result, with the fields that produced it,
// to the log in the background. The
// returned channel yields the outcome once and is then closed. Without a
// result it yields ErrNoResult immediately and nothing is stored.
func (s *Session) SaveToHistory(ctx context.Context, user, patientID string) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	if s.result == nil {
		s.mu.Unlock()
		done <- ErrNoResult
		close(done)
		return done
	}
	rec, err := s.record(user, patientID)
	gen := s.gen
	s.mu.Unlock()
	if err != nil {
		done <- err
		close(done)
		return done
	}

	if s.saves != nil {
		s.saves.Add(1)
	}
	go func() {
		if s.saves != nil {
			defer s.saves.Done()
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		_, err := s.store.AppendLog(ctx, rec)
		if err != nil {
			log.Printf("save %s for %s failed: %v", rec.CalculationType, rec.Username, err)
		}

		s.mu.Lock()
		if s.gen == gen {
			if err != nil {
				s.message = "Could not save to history: " + err.Error()
			} else {
				s.message = MsgSaved
				s.state = StateSaved
			}
		}
		s.mu.Unlock()

		done <- err
		close(done)
	}()
	return done
}

func (s *Session) record(user, patientID string) (repo.LogRecord, error) {
	params := copyFields(s.inputs)
	for k, v := range s.result.Parameters() {
		params[k] = v
	}
	if patientID = strings.TrimSpace(patientID); patientID != "" {
		params["PatientID"] = patientID
	}
	values, err := json.Marshal(params)
	if err != nil {
		return repo.LogRecord{}, fmt.Errorf("encode parameters: %w", err)
	}
	return repo.LogRecord{
		Username:          user,
		CalculationType:   s.calc.Label(),
		CalculationValues: string(values),
		Result:            s.result.Summary(),
	}, nil
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Scenario string            `json:"scenario"`
	State    string            `json:"state"`
	Fields   map[string]string `json:"fields"`
	Result   Outcome           `json:"result,omitempty"`
	Summary  string            `json:"summary,omitempty"`
	Message  string            `json:"message,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Scenario: s.calc.Label(),
		State:    s.state.String(),
		Fields:   copyFields(s.fields),
		Result:   s.result,
		Message:  s.message,
	}
	if s.result != nil {
		snap.Summary = s.result.Summary()
	}
	return snap
}

func (s *Session) Result() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
