package sadwedged

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
	out, err := c.Calculate(map[string]string{"X": "10", "Y": "10", "Depth": "5", "Dose": "200", "Wedge": "30"})
	require.NoError(t, err)

	res := out.(Result)
	assert.Equal(t, 1.0, res.SCP)
	assert.InDelta(t, 0.636, res.TotalSCP, 1e-12)
	assert.Equal(t, 2.19, res.TreatmentTime)
	assert.Equal(t, dosimetry.Wedge30.Label(), res.Parameters()["Wedge"])
}

func TestNoWedgeMatchesOpenField(t *testing.T) {
	base := dosimetry.FieldInput{X: 12, Y: 8, Depth: 7, DepthLabel: "7", Dose: 180}
	res := Calculate(engine(), Input{FieldInput: base, Wedge: dosimetry.WedgeNone})
	assert.Equal(t, res.SCP, res.TotalSCP)
}

func TestCalculateRejectsUnknownWedge(t *testing.T) {
	c := Calculator{Engine: engine()}
	_, err := c.Calculate(map[string]string{"X": "10", "Y": "10", "Depth": "5", "Dose": "200", "Wedge": "25"})
	var ie *dosimetry.InputError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "Wedge", ie.Field)
}
