package ssdblocked

import (
	"TPSuite/internal/calc/session"
	"TPSuite/internal/dosimetry"
)

const Label = "SSD Blocked Field"

var fields = []string{"X", "Y", "BlockedArea", "Depth", "Dose", "BlockFactor"}

type Input struct {
	dosimetry.FieldInput
	BlockedArea float64               `json:"blocked_area"`
	Block       dosimetry.BlockFactor `json:"block"`
}

type Result struct {
	EQFS          float64  `json:"eqfs"`
	ReducedField  float64  `json:"reduced_field"`
	Sc            float64  `json:"sc"`
	Sp            float64  `json:"sp"`
	TotalSCP      float64  `json:"total_scp"`
	PDD           float64  `json:"pdd"`
	DMax          float64  `json:"dmax"`
	TreatmentTime float64  `json:"treatment_time"`
	BlockLabel    string   `json:"block_label"`
	Warnings      []string `json:"warnings,omitempty"`
}

func ParseInput(f map[string]string) (Input, error) {
	field, err := dosimetry.ParseFieldInput(f)
	if err != nil {
		return Input{}, err
	}
	area, err := dosimetry.ParseBlockedArea(f, field.X, field.Y)
	if err != nil {
		return Input{}, err
	}
	block, err := dosimetry.ParseBlockFactor(f["BlockFactor"])
	if err != nil {
		return Input{}, err
	}
	return Input{FieldInput: field, BlockedArea: area, Block: block}, nil
}

// Calculate takes collimator scatter from the full field and phantom
// scatter and PDD from the field left open by the block.
func Calculate(e *dosimetry.Engine, in Input) Result {
	eqfs := dosimetry.EquivalentFieldSize(in.X, in.Y)
	rfs := dosimetry.ReducedFieldSize(in.X, in.Y, in.BlockedArea)
	sc := e.ScatterValue(eqfs, dosimetry.SeriesSc)
	sp := e.ScatterValue(rfs, dosimetry.SeriesSp)
	totalScp := sc * sp * in.Block.Value()
	pdd, status := e.PDD(rfs, in.DepthLabel)
	dMax := dosimetry.Dmax(in.Dose, pdd) * 100.0

	res := Result{
		EQFS:          eqfs,
		ReducedField:  rfs,
		Sc:            sc,
		Sp:            sp,
		TotalSCP:      totalScp,
		PDD:           pdd,
		DMax:          dMax,
		TreatmentTime: e.TreatmentTime(dMax, totalScp),
		BlockLabel:    in.Block.Label(),
	}
	if w := dosimetry.LookupWarning("PDD", rfs, in.DepthLabel, status); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	return res
}

func (r Result) Summary() string {
	return dosimetry.FormatTime(r.TreatmentTime) + " MU"
}

func (r Result) Parameters() map[string]string {
	return map[string]string{
		"BlockFactor":  r.BlockLabel,
		"EQFS":         dosimetry.FormatFieldSize(r.EQFS),
		"ReducedField": dosimetry.FormatFieldSize(r.ReducedField),
		"Sc":           dosimetry.FormatFactor(r.Sc),
		"Sp":           dosimetry.FormatFactor(r.Sp),
		"TotalSCP":     dosimetry.FormatFactor(r.TotalSCP),
		"PDD":          dosimetry.FormatPercent(r.PDD),
		"DMax":         dosimetry.FormatDose(r.DMax),
		"Time":         dosimetry.FormatTime(r.TreatmentTime),
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
