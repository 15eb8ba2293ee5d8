package sadwedged

import (
	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"
)

const Label = "SAD Wedged Field"

var fields = []string{"X", "Y", "Depth", "Dose", "Wedge"}

type Input struct {
	dosimetry.FieldInput
	Wedge dosimetry.WedgeFactor `json:"wedge"`
}

type Result struct {
	EQFS          float64  `json:"eqfs"`
	SCP           float64  `json:"scp"`
	TotalSCP      float64  `json:"total_scp"`
	TMR           float64  `json:"tmr"`
	DMax          float64  `json:"dmax"`
	TreatmentTime float64  `json:"treatment_time"`
	WedgeLabel    string   `json:"wedge_label"`
	Warnings      []string `json:"warnings,omitempty"`
}

func ParseInput(f map[string]string) (Input, error) {
	field, err := dosimetry.ParseFieldInput(f)
	if err != nil {
		return Input{}, err
	}
	wedge, err := dosimetry.ParseWedgeFactor(f["Wedge"])
	if err != nil {
		return Input{}, err
	}
	return Input{FieldInput: field, Wedge: wedge}, nil
}

// Calculate is the open-field pipeline with the wedge transmission folded
// into the output factor.
func Calculate(e *dosimetry.Engine, in Input) Result {
	eqfs := dosimetry.EquivalentFieldSize(in.X, in.Y)
	scp := e.ScpValue(eqfs)
	totalScp := scp * in.Wedge.Value()
	tmr, status := e.TMR(eqfs, in.DepthLabel)
	dMax := dosimetry.Dmax(in.Dose, tmr)

	res := Result{
		EQFS:          eqfs,
		SCP:           scp,
		TotalSCP:      totalScp,
		TMR:           tmr,
		DMax:          dMax,
		TreatmentTime: e.TreatmentTime(dMax, totalScp),
		WedgeLabel:    in.Wedge.Label(),
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
		"Wedge":    r.WedgeLabel,
		"EQFS":     dosimetry.FormatFieldSize(r.EQFS),
		"SCP":      dosimetry.FormatFactor(r.SCP),
		"TotalSCP": dosimetry.FormatFactor(r.TotalSCP),
		"TMR":      dosimetry.FormatFactor(r.TMR),
		"DMax":     dosimetry.FormatDose(r.DMax),
		"Time":     dosimetry.FormatTime(r.TreatmentTime),
	}
}

type Calculator struct {
	Engine *dosimetry.Engine
}

func (c Calculator) Label() string    { return Label }
func (c Calculator) Fields() []string { return fields }

func (c Calculator) Calculate(f map[string]string) (session.Outcome, error) {
	in, err := ParseInput(f)
	if err != nil {
		return nil, err
	}
	return Calculate(c.Engine, in), nil
}
