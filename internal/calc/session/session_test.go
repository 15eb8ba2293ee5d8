package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"

	"TPSuite/internal/dosimetry"
	repo "TPSuite/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doubler doubles the value of field "A".
type doubler struct{}

type doubled float64

func (d doubled) Summary() string { return strconv.FormatFloat(float64(d), 'f', 2, 64) + " MU" }
func (d doubled) Parameters() map[string]string {
	return map[string]string{"Twice": strconv.FormatFloat(float64(d), 'f', 2, 64)}
}

func (doubler) Label() string    { return "Doubler" }
func (doubler) Fields() []string { return []string{"A", "Note"} }
func (doubler) Calculate(f map[string]string) (Outcome, error) {
	v, err := strconv.ParseFloat(f["A"], 64)
	if err != nil || v <= 0 {
		return nil, errors.New("All values must be greater than zero")
	}
	return doubled(2 * v), nil
}

type memLog struct {
	mu      sync.Mutex
	records []repo.LogRecord
	err     error
	block   chan struct{}
}

func (m *memLog) AppendLog(ctx context.Context, rec repo.LogRecord) (int64, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	m.records = append(m.records, rec)
	return int64(len(m.records)), nil
}

func (m *memLog) all() []repo.LogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repo.LogRecord(nil), m.records...)
}

func TestCalculateAndClear(t *testing.T) {
	s := New(doubler{}, &memLog{})
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.SetField("a", "2.5"))
	require.NoError(t, s.Calculate())
	assert.Equal(t, StateComputed, s.State())
	assert.Equal(t, doubled(5), s.Result())

	s.Clear()
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Result())
	assert.Empty(t, s.Message())
	assert.Equal(t, "", s.Field("A"))
}

func TestInvalidInputKeepsResult(t *testing.T) {
	s := New(doubler{}, &memLog{})
	require.NoError(t, s.SetField("A", "3"))
	require.NoError(t, s.Calculate())

	require.NoError(t, s.SetField("A", "-1"))
	assert.Error(t, s.Calculate())
	assert.Equal(t, StateInvalid, s.State())
	assert.Equal(t, "All values must be greater than zero", s.Message())
	assert.Equal(t, doubled(6), s.Result())
}

func TestUnknownField(t *testing.T) {
	s := New(doubler{}, &memLog{})
	assert.ErrorIs(t, s.SetField("B", "1"), ErrUnknownField)
}

func TestSaveWithoutResult(t *testing.T) {
	store := &memLog{}
	s := New(doubler{}, store)
	assert.ErrorIs(t, <-s.SaveToHistory(context.Background(), "anna", ""), ErrNoResult)
	assert.Empty(t, store.all())
}

func TestSaveToHistory(t *testing.T) {
	store := &memLog{}
	var wg sync.WaitGroup
	s := New(doubler{}, store, WithWaitGroup(&wg))
	require.NoError(t, s.SetField("A", "4"))
	require.NoError(t, s.SetField("Note", "left breast"))
	require.NoError(t, s.Calculate())

	require.NoError(t, <-s.SaveToHistory(context.Background(), "anna", " P-0042 "))
	wg.Wait()

	assert.Equal(t, StateSaved, s.State())
	assert.Equal(t, MsgSaved, s.Message())

	recs := store.all()
	require.Len(t, recs, 1)
	assert.Equal(t, "anna", recs[0].Username)
	assert.Equal(t, "Doubler", recs[0].CalculationType)
	assert.Equal(t, "8.00 MU", recs[0].Result)

	var values map[string]string
	require.NoError(t, json.Unmarshal([]byte(recs[0].CalculationValues), &values))
	assert.Equal(t, map[string]string{
		"A":         "4",
		"Note":      "left breast",
		"Twice":     "8.00",
		"PatientID": "P-0042",
	}, values)
}

func TestSaveFailureOnlySetsMessage(t *testing.T) {
	store := &memLog{err: errors.New("disk full")}
	s := New(doubler{}, store)
	require.NoError(t, s.SetField("A", "1"))
	require.NoError(t, s.Calculate())

	err := <-s.SaveToHistory(context.Background(), "anna", "")
	require.Error(t, err)
	assert.Equal(t, StateComputed, s.State())
	assert.Equal(t, "Could not save to history: disk full", s.Message())
	assert.Equal(t, doubled(2), s.Result())
}

func TestLateSaveDoesNotOverwriteClear(t *testing.T) {
	store := &memLog{block: make(chan struct{})}
	s := New(doubler{}, store)
	require.NoError(t, s.SetField("A", "1"))
	require.NoError(t, s.Calculate())

	done := s.SaveToHistory(context.Background(), "anna", "")
	s.Clear()
	close(store.block)
	require.NoError(t, <-done)

	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Message())
	assert.Len(t, store.all(), 1)
}

func TestSaveRecordsComputedInputs(t *testing.T) {
	store := &memLog{}
	s := New(doubler{}, store)
	require.NoError(t, s.SetField("A", "4"))
	require.NoError(t, s.Calculate())

	require.NoError(t, s.SetField("A", "100"))
	require.NoError(t, <-s.SaveToHistory(context.Background(), "anna", ""))

	require.NoError(t, s.SetField("A", "-1"))
	require.Error(t, s.Calculate())
	require.NoError(t, <-s.SaveToHistory(context.Background(), "anna", ""))

	recs := store.all()
	require.Len(t, recs, 2)
	for _, rec := range recs {
		var values map[string]string
		require.NoError(t, json.Unmarshal([]byte(rec.CalculationValues), &values))
		assert.Equal(t, "4", values["A"])
		assert.Equal(t, "8.00", values["Twice"])
		assert.Equal(t, "8.00 MU", rec.Result)
	}
	assert.Equal(t, "-1", s.Field("A"))
}

func TestOverflowingResultIsInvalid(t *testing.T) {
	s := New(doubler{}, &memLog{})
	require.NoError(t, s.SetField("A", "1e308"))
	err := s.Calculate()
	assert.ErrorIs(t, err, dosimetry.ErrInvalidInput)
	assert.Equal(t, StateInvalid, s.State())
	assert.Nil(t, s.Result())
}

func TestCanonicalFields(t *testing.T) {
	got := CanonicalFields(doubler{}, map[string]string{" a ": "1", "note": "x", "Extra": "y"})
	assert.Equal(t, map[string]string{"A": "1", "Note": "x", "Extra": "y"}, got)

	got = CanonicalFields(doubler{}, map[string]string{"a": "1", "A": "2"})
	assert.Equal(t, map[string]string{"A": "2"}, got)

	out, err := Run(doubler{}, map[string]string{"a": "3"})
	require.NoError(t, err)
	assert.Equal(t, doubled(6), out)
}
