package calc

import (
	"sort"

	"TPSuite/internal/calc/linacqa"
	"TPSuite/internal/calc/sadblocked"
	"TPSuite/internal/calc/sadopen"
	"TPSuite/internal/calc/sadwedged"
	"TPSuite/internal/calc/session"
	"TPSuite/internal/calc/ssdblocked"
	"TPSuite/internal/calc/ssdopen"
	"TPSuite/internal/dosimetry"
)

// Scenario slugs used in routes and session requests.
const (
	ScenarioLinacQA    = "linac-qa"
	ScenarioSADOpen    = "sad-open"
	ScenarioSADBlocked = "sad-blocked"
	ScenarioSADWedged  = "sad-wedged"
	ScenarioSSDOpen    = "ssd-open"
	ScenarioSSDBlocked = "ssd-blocked"
)

// Calculators returns every clinical scenario bound to e.
func Calculators(e *dosimetry.Engine) map[string]session.Calculator {
	return map[string]session.Calculator{
		ScenarioLinacQA:    linacqa.Calculator{},
		ScenarioSADOpen:    sadopen.Calculator{Engine: e},
		ScenarioSADBlocked: sadblocked.Calculator{Engine: e},
		ScenarioSADWedged:  sadwedged.Calculator{Engine: e},
		ScenarioSSDOpen:    ssdopen.Calculator{Engine: e},
		ScenarioSSDBlocked: ssdblocked.Calculator{Engine: e},
	}
}

// Scenarios lists the slugs in m in a stable order.
func Scenarios(m map[string]session.Calculator) []string {
	out := make([]string, 0, len(m))
	for slug := range m {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
