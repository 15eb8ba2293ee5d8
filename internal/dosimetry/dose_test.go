package dosimetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestDmax(t *testing.T) {
	assert.Equal(t, 0.0, Dmax(200, 0))
	assert.Equal(t, 250.0, Dmax(200, 0.8))
}

func TestDecayFactor(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want float64
	}{
		{"mid October", date(2026, time.October, 19), 0.9462},
		{"seventh day keeps month", date(2026, time.May, 7), 1.0000},
		{"early May uses March", date(2026, time.May, 6), 0.8953},
		{"early January wraps to November", date(2026, time.January, 3), 0.9358},
		{"early February wraps to December", date(2026, time.February, 1), 0.9255},
		{"early March uses January", date(2026, time.March, 5), 0.9153},
		{"late April", date(2026, time.April, 30), 0.8854},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecayFactor(tt.day))
		})
	}
}

func TestTreatmentTime(t *testing.T) {
	m := DefaultMachine()
	may := date(2026, time.May, 15)

	assert.Equal(t, 1.09, TreatmentTime(m, 200, 1.0, may))
	assert.Equal(t, 0.0, TreatmentTime(m, 200, 0, may))
	assert.Equal(t, 0.0, TreatmentTime(m, 0, 0, may))
	assert.Equal(t, 0.0, TreatmentTime(m, 1e6, 0, may))

	// The decay factor lengthens the time later in the source cycle.
	assert.Greater(t, TreatmentTime(m, 200, 1.0, date(2026, time.April, 15)), 1.09)
}

func TestEngineUsesInjectedClock(t *testing.T) {
	e := NewEngine(DefaultTables(), WithClock(func() time.Time { return date(2026, time.May, 15) }))
	assert.Equal(t, 1.0, e.DecayFactor())
	assert.Equal(t, 1.09, e.TreatmentTime(200, 1.0))

	fast := DefaultMachine()
	fast.DoseRate *= 2
	e = NewEngine(DefaultTables(), WithMachine(fast), WithClock(func() time.Time { return date(2026, time.May, 15) }))
	assert.Equal(t, 0.54, e.TreatmentTime(200, 1.0))
}
