package session

import (
	"encoding/json"
	"strings"

	"TPSuite/internal/dosimetry"
)

// FieldName resolves name to the calculator's spelling of it, ignoring case
// and surrounding spaces.
func FieldName(c Calculator, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, f := range c.Fields() {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

// CanonicalFields renames the keys of in to the calculator's field names.
// An exactly spelled key wins over a differently cased duplicate; unknown
// keys are passed through.
func CanonicalFields(c Calculator, in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if name, ok := FieldName(c, k); ok && name == k {
			out[name] = v
		}
	}
	for k, v := range in {
		name, ok := FieldName(c, k)
		if !ok {
			out[k] = v
			continue
		}
		if _, taken := out[name]; !taken {
			out[name] = v
		}
	}
	return out
}

// Run computes c over fields after canonicalizing their names. Outcomes that
// cannot be encoded, such as ones carrying an infinite value, are rejected
// as invalid input.
func Run(c Calculator, fields map[string]string) (Outcome, error) {
	out, err := c.Calculate(CanonicalFields(c, fields))
	if err != nil {
		return nil, err
	}
	if _, err := json.Marshal(out); err != nil {
		return nil, &dosimetry.InputError{Field: "Result", Reason: "is out of range for the entered values"}
	}
	return out, nil
}
