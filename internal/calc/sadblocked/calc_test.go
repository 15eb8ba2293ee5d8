package sadblocked

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

func inputFields(block string) map[string]string {
	return map[string]string{
		"X": "10", "Y": "10", "BlockedArea": "36",
		"Depth": "5", "Dose": "200", "BlockFactor": block,
	}
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		block string
		scp   float64
		time  float64
	}{
		{"", 0.991, 1.42},
		{"TRAY", 0.991 * 0.957, 1.48},
		{"Belly Board", 0.991 * 0.978, 1.45},
	}
	c := Calculator{Engine: engine()}
	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			out, err := c.Calculate(inputFields(tt.block))
			require.NoError(t, err)
			res := out.(Result)
			assert.Equal(t, 10.0, res.EQFS)
			assert.Equal(t, 8.0, res.ReducedField)
			assert.Equal(t, 0.781, res.TMR)
			assert.InDelta(t, tt.scp, res.TotalSCP, 1e-12)
			assert.Equal(t, tt.time, res.TreatmentTime)
		})
	}
}

func TestNoBlockFactorIsNeutral(t *testing.T) {
	e := engine()
	for _, area := range []float64{0, 4.5, 20, 63} {
		in := Input{
			FieldInput:  dosimetry.FieldInput{X: 10, Y: 10, Depth: 5, DepthLabel: "5", Dose: 200},
			BlockedArea: area,
			Block:       dosimetry.BlockNone,
		}
		res := Calculate(e, in)
		assert.Equal(t, res.Sc*res.Sp, res.TotalSCP)
	}
}

func TestBlockedAreaOptional(t *testing.T) {
	f := inputFields("")
	delete(f, "BlockedArea")
	in, err := ParseInput(f)
	require.NoError(t, err)
	assert.Zero(t, in.BlockedArea)
}

func TestBlockedAreaCoveringField(t *testing.T) {
	c := Calculator{Engine: engine()}
	for _, area := range []string{"100", "150"} {
		f := inputFields("")
		f["BlockedArea"] = area
		_, err := c.Calculate(f)
		var ie *dosimetry.InputError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "BlockedArea", ie.Field)
	}
}
