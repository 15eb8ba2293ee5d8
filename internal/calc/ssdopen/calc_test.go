package ssdopen

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
	assert.Equal(t, 71.5, res.PDD)
	assert.InDelta(t, 279.7203, res.DMax, 1e-4)
	assert.Equal(t, 1.53, res.TreatmentTime)
	assert.Equal(t, "1.53 MU", res.Summary())
	assert.Equal(t, "71.50", res.Parameters()["PDD"])
}

func TestCalculateUntabulatedDepth(t *testing.T) {
	res := Calculate(engine(), Input{X: 10, Y: 10, Depth: 40, DepthLabel: "40", Dose: 200})
	assert.Equal(t, dosimetry.LookupSentinel, res.PDD)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "PDD")
}
