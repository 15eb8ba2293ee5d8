package dosimetry

import (
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

// Machine holds the treatment unit constants used for timing.
type Machine struct {
	ShutterTime float64 // minutes
	DoseRate    float64 // cGy/min at the reference point
	SADFactor   float64
}

// DefaultMachine returns the unit's commissioning values.
func DefaultMachine() Machine {
	return Machine{
		ShutterTime: 0.01,
		DoseRate:    179.47,
		SADFactor:   1.01,
	}
}

// Source output relative to the May calibration.
var decayFactors = map[time.Month]float64{
	time.May:       1.0000,
	time.June:      0.9890,
	time.July:      0.9781,
	time.August:    0.9674,
	time.September: 0.9567,
	time.October:   0.9462,
	time.November:  0.9358,
	time.December:  0.9255,
	time.January:   0.9153,
	time.February:  0.9052,
	time.March:     0.8953,
	time.April:     0.8854,
}

// Dmax returns the dose at the depth of maximum buildup, or 0 for a zero
// factor.
func Dmax(doseAtDepth, factor float64) float64 {
	if factor == 0 {
		return 0
	}
	return doseAtDepth / factor
}

// DecayFactor returns the source decay factor in effect on day now. During
// the first six days of a month the factor from two months earlier still
// applies.
func DecayFactor(now time.Time) float64 {
	month := int(now.Month())
	if now.Day() < 7 {
		if month <= 2 {
			month += 10
		} else {
			month -= 2
		}
	}
	f, ok := decayFactors[time.Month(month)]
	if !ok {
		return 1.0
	}
	return f
}

// TreatmentTime returns the beam-on time for dMax, rounded to 2 decimals.
// A zero scatter or decay factor yields 0.
func TreatmentTime(m Machine, dMax, totalScp float64, now time.Time) float64 {
	decay := DecayFactor(now)
	if totalScp == 0 || decay == 0 {
		return 0
	}
	t := (dMax / (m.DoseRate * m.SADFactor * totalScp * decay)) - m.ShutterTime
	return scalar.Round(t, 2)
}
