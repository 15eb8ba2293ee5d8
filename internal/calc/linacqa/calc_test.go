package linacqa

import (
	"fmt"
	"testing"

	"TPSuite/internal/dosimetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readings(t1, t2, p1, p2, zero string) map[string]string {
	return map[string]string{
		"T1": t1, "T2": t2, "P1": p1, "P2": p2,
		"neg31": "12.1", "neg32": "12.2",
		"zero1": zero, "zero2": zero,
		"pos31": "12.4", "pos32": "12.5",
	}
}

func TestReferenceConditions(t *testing.T) {
	out, err := Calculator{}.Calculate(readings("20", "20", "101.32", "101.32", "12.32"))
	require.NoError(t, err)

	res := out.(Result)
	assert.Equal(t, 1.0, res.CorrectionFactor)
	assert.InDelta(t, 12.32, res.C0, 1e-12)
	assert.InDelta(t, 0.0, res.ErrorPercent, 1e-9)
	assert.Equal(t, SeverityGreen, res.Severity)
	assert.Equal(t, "0.00%", res.Summary())
}

func TestCorrectedReading(t *testing.T) {
	in, err := ParseInput(readings("21", "23", "100.4", "100.6", "12.0"))
	require.NoError(t, err)
	assert.Equal(t, [2]float64{21, 23}, in.Temperature)

	res := Calculate(in)
	assert.InDelta(t, 1.015036, res.CorrectionFactor, 1e-6)
	assert.InDelta(t, 12.1804, res.C0, 1e-4)
	assert.InDelta(t, 1.1364, res.ErrorPercent, 1e-4)
	assert.Equal(t, SeverityGreen, res.Severity)
	assert.Equal(t, "1.0150", res.Parameters()["Ktp"])
}

func TestClassify(t *testing.T) {
	tests := []struct {
		percent float64
		want    Severity
	}{
		{0, SeverityGreen},
		{1.99, SeverityGreen},
		{-1.5, SeverityGreen},
		{2.0, SeverityYellow},
		{3.41, SeverityYellow},
		{5.0, SeverityYellow},
		{-4.9, SeverityYellow},
		{5.01, SeverityRed},
		{-5.84, SeverityRed},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.percent), func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.percent))
		})
	}
}

func TestParseInputRejects(t *testing.T) {
	tests := []struct {
		name  string
		f     map[string]string
		field string
	}{
		{"empty temperature", readings("", "20", "101", "101", "12"), "T1"},
		{"zero temperature", readings("20", "0", "101", "101", "12"), "T2"},
		{"text pressure", readings("20", "20", "abc", "101", "12"), "P1"},
		{"negative reading", readings("20", "20", "101", "101", "-12"), "zero1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInput(tt.f)
			require.ErrorIs(t, err, dosimetry.ErrInvalidInput)
			var ie *dosimetry.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestNotesAreNotParsed(t *testing.T) {
	f := readings("20", "20", "101.32", "101.32", "12.32")
	f["negC"] = "see logbook"
	_, err := ParseInput(f)
	assert.NoError(t, err)
}
