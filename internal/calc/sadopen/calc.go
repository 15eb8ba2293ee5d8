package sadopen

import (
	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"
)

const Label = "SAD Open Field"

var fields = []string{"X", "Y", "Depth", "Dose"}

type Input = dosimetry.FieldInput

type Result struct {
	EQFS          float64  `json:"eqfs"`
	SCP           float64  `json:"scp"`
	TMR           float64  `json:"tmr"`
	DMax          float64  `json:"dmax"`
	TreatmentTime float64  `json:"treatment_time"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Calculate runs eqfs → Scp → TMR → Dmax → time for an isocentric field.
func Calculate(e *dosimetry.Engine, in Input) Result {
	eqfs := dosimetry.EquivalentFieldSize(in.X, in.Y)
	scp := e.ScpValue(eqfs)
	tmr, status := e.TMR(eqfs, in.DepthLabel)
	dMax := dosimetry.Dmax(in.Dose, tmr)

	res := Result{
		EQFS:          eqfs,
		SCP:           scp,
		TMR:           tmr,
		DMax:          dMax,
		TreatmentTime: e.TreatmentTime(dMax, scp),
	}
	if w := dosimetry.LookupWarning("TMR", eqfs, in.DepthLabel, status); w != "" {
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
		"TMR":  dosimetry.FormatFactor(r.TMR),
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
