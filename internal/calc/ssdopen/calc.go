package ssdopen

import (
	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"
)

const Label = "SSD Open Field"

var fields = []string{"X", "Y", "Depth", "Dose"}

type Input = dosimetry.FieldInput

type Result struct {
	EQFS          float64  `json:"eqfs"`
	SCP           float64  `json:"scp"`
	PDD           float64  `json:"pdd"`
	DMax          float64  `json:"dmax"`
	TreatmentTime float64  `json:"treatment_time"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Calculate runs eqfs → Scp → PDD → Dmax → time for a fixed-SSD field.
// PDD is tabulated in percent.
func Calculate(e *dosimetry.Engine, in Input) Result {
	eqfs := dosimetry.EquivalentFieldSize(in.X, in.Y)
	scp := e.ScpValue(eqfs)
	pdd, status := e.PDD(eqfs, in.DepthLabel)
	dMax := dosimetry.Dmax(in.Dose, pdd) * 100.0

	res := Result{
		EQFS:          eqfs,
		SCP:           scp,
		PDD:           pdd,
		DMax:          dMax,
		TreatmentTime: e.TreatmentTime(dMax, scp),
	}
	if w := dosimetry.LookupWarning("PDD", eqfs, in.DepthLabel, status); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	return res
}

func (r Result) Summary() string {
	return dosimetry.FormatTime(r.TreatmentTime) + " MU"
}

func (r Result) Parameters() map[string]string {
	return map[string]string{
		"EQFS": dosimetry.FormatFieldSize(r.EQFS),
		"SCP":  dosimetry.FormatFactor(r.SCP),
		"PDD":  dosimetry.FormatPercent(r.PDD),
		"DMax": dosimetry.FormatDose(r.DMax),
		"Time": dosimetry.FormatTime(r.TreatmentTime),
	}
}

type Calculator struct {
	Engine *dosimetry.Engine
}

func (c Calculator) Label() string    { return Label }
func (c Calculator) Fields() []string { return fields }

func (c Calculator) Calculate(f map[string]string) (session.Outcome, error) {
	in, err := dosimetry.ParseFieldInput(f)
	if err != nil {
		return nil, err
	}
	return Calculate(c.Engine, in), nil
}
