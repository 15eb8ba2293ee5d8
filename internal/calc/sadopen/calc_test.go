package sadopen

import (
	"testing"
	"time"

	"TPSuite/internal/dosimetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine() *dosimetry.Engine {
	may := time.Date(2026, time.May, 15, 9, 0, 0, 0, time.UTC)
	return dosimetry.NewEngine(dosimetry.DefaultTables(), dosimetry.WithClock(func() time.Time { return may }))
}

func TestCalculate(t *testing.T) {
	c := Calculator{Engine: engine()}
	out, err := c.Calculate(map[string]string{"X": "10", "Y": "10", "Depth": "5", "Dose": "200"})
	require.NoError(t, err)

	res := out.(Result)
	assert.Equal(t, 10.0, res.EQFS)
	assert.Equal(t, 1.0, res.SCP)
	assert.Equal(t, 0.787, res.TMR)
	assert.InDelta(t, 254.1296, res.DMax, 1e-4)
	assert.Equal(t, 1.39, res.TreatmentTime)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "1.39 MU", res.Summary())

	p := res.Parameters()
	assert.Equal(t, "10.0", p["EQFS"])
	assert.Equal(t, "0.7870", p["TMR"])
	assert.Equal(t, "254.13", p["DMax"])
}

func TestCalculateDepthAveraged(t *testing.T) {
	in := Input{X: 10, Y: 10, Depth: 5.5, DepthLabel: "5.5", Dose: 200}
	res := Calculate(engine(), in)
	assert.InDelta(t, 0.788, res.TMR, 1e-9)
	assert.Empty(t, res.Warnings)
}

func TestCalculateUntabulatedDepth(t *testing.T) {
	in := Input{X: 10, Y: 10, Depth: 30, DepthLabel: "30", Dose: 200}
	res := Calculate(engine(), in)
	assert.Equal(t, dosimetry.LookupSentinel, res.TMR)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "TMR not tabulated")
}

func TestCalculateRejectsInput(t *testing.T) {
	c := Calculator{Engine: engine()}
	tests := []struct {
		name   string
		fields map[string]string
		field  string
	}{
		{"missing dose", map[string]string{"X": "10", "Y": "10", "Depth": "5"}, "Dose"},
		{"zero width", map[string]string{"X": "0", "Y": "10", "Depth": "5", "Dose": "200"}, "X"},
		{"text depth", map[string]string{"X": "10", "Y": "10", "Depth": "deep", "Dose": "200"}, "Depth"},
		{"negative Y", map[string]string{"X": "10", "Y": "-4", "Depth": "5", "Dose": "200"}, "Y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Calculate(tt.fields)
			require.ErrorIs(t, err, dosimetry.ErrInvalidInput)
			var ie *dosimetry.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}
