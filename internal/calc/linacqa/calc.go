package linacqa

import (
	"math"

	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

const Label = "LINAC QA"

// Reference conditions of the chamber calibration.
const (
	ReferenceTemperature = 20.0   // °C
	ReferencePressure    = 101.32 // kPa
	ReferenceReading     = 12.32  // nC at zero bias
)

type Severity string

const (
	SeverityGreen  Severity = "GREEN"
	SeverityYellow Severity = "YELLOW"
	SeverityRed    Severity = "RED"
)

// Classify grades an output deviation given in percent.
func Classify(errorPercent float64) Severity {
	switch abs := math.Abs(errorPercent); {
	case abs < 2.0:
		return SeverityGreen
	case abs <= 5.0:
		return SeverityYellow
	default:
		return SeverityRed
	}
}

// Field names, also used as keys in the saved payload.
var fields = []string{
	"T1", "T2", "P1", "P2",
	"neg31", "neg32", "zero1", "zero2", "pos31", "pos32",
	"negC", "c0", "c3",
}

type Input struct {
	Temperature [2]float64 `json:"temperature"`
	Pressure    [2]float64 `json:"pressure"`
	Negative    [2]float64 `json:"negative"`
	Zero        [2]float64 `json:"zero"`
	Positive    [2]float64 `json:"positive"`
}

type Result struct {
	AvgTemperature   float64  `json:"avg_temperature"`
	AvgPressure      float64  `json:"avg_pressure"`
	CorrectionFactor float64  `json:"correction_factor"`
	C0               float64  `json:"c0"`
	C3               float64  `json:"c3"`
	CNeg             float64  `json:"c_neg"`
	ErrorPercent     float64  `json:"error_percent"`
	Severity         Severity `json:"severity"`
}

// ParseInput reads the paired readings. negC, c0 and c3 are operator notes
// and are not parsed.
func ParseInput(f map[string]string) (Input, error) {
	var in Input
	pairs := []struct {
		dst   *[2]float64
		names [2]string
	}{
		{&in.Temperature, [2]string{"T1", "T2"}},
		{&in.Pressure, [2]string{"P1", "P2"}},
		{&in.Negative, [2]string{"neg31", "neg32"}},
		{&in.Zero, [2]string{"zero1", "zero2"}},
		{&in.Positive, [2]string{"pos31", "pos32"}},
	}
	for _, p := range pairs {
		for i, name := range p.names {
			v, err := dosimetry.ParsePositive(name, f[name])
			if err != nil {
				return Input{}, err
			}
			p.dst[i] = v
		}
	}
	return in, nil
}

// Calculate applies the temperature-pressure correction to the averaged
// electrometer readings and compares the zero-bias charge with the
// reference reading.
func Calculate(in Input) Result {
	avgT := mean(in.Temperature)
	avgP := mean(in.Pressure)

	ktp := ((273.2 + avgT) / (273.2 + ReferenceTemperature)) * (ReferencePressure / avgP)

	c0 := ktp * mean(in.Zero)
	deviation := (ReferenceReading - scalar.Round(c0, 2)) / ReferenceReading
	percent := deviation * 100

	return Result{
		AvgTemperature:   avgT,
		AvgPressure:      avgP,
		CorrectionFactor: ktp,
		C0:               c0,
		C3:               ktp * mean(in.Positive),
		CNeg:             ktp * mean(in.Negative),
		ErrorPercent:     percent,
		Severity:         Classify(percent),
	}
}

func mean(pair [2]float64) float64 {
	return stat.Mean(pair[:], nil)
}

func (r Result) Summary() string {
	return dosimetry.FormatPercent(r.ErrorPercent) + "%"
}

func (r Result) Parameters() map[string]string {
	return map[string]string{
		"Ktp":      dosimetry.FormatFactor(r.CorrectionFactor),
		"C0":       dosimetry.FormatFactor(r.C0),
		"C3":       dosimetry.FormatFactor(r.C3),
		"CNeg":     dosimetry.FormatFactor(r.CNeg),
		"Error":    dosimetry.FormatPercent(r.ErrorPercent),
		"Severity": string(r.Severity),
	}
}

// Calculator adapts the QA check to session.Calculator.
type Calculator struct{}

func (Calculator) Label() string    { return Label }
func (Calculator) Fields() []string { return fields }

func (Calculator) Calculate(f map[string]string) (session.Outcome, error) {
	in, err := ParseInput(f)
	if err != nil {
		return nil, err
	}
	return Calculate(in), nil
}
