package pota

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Spot is a live activator report from the POTA spot feed. Fields the
// backend does not interpret are kept and re-emitted unchanged.
type Spot struct {
	Activator string
	Reference string
	Frequency string // kHz, as sent upstream
	Mode      string
	Hunted    bool

	fields map[string]any
}

// NewSpot builds a spot from its key fields, for callers that do not decode JSON.
func NewSpot(activator, reference, frequencyKHz, mode string) Spot {
	return Spot{
		Activator: activator,
		Reference: reference,
		Frequency: frequencyKHz,
		Mode:      mode,
	}
}

// UnmarshalJSON decodes an upstream spot object.
func (s *Spot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	fields := make(map[string]any)
	if err := dec.Decode(&fields); err != nil {
		return fmt.Errorf("decoding spot: %w", err)
	}

	s.fields = fields
	s.Activator = stringField(fields, "activator")
	s.Reference = stringField(fields, "reference")
	s.Frequency = stringField(fields, "frequency")
	s.Mode = stringField(fields, "mode")
	if h, ok := fields["hunted"].(bool); ok {
		s.Hunted = h
	}
	return nil
}

// MarshalJSON emits every upstream field plus the hunted annotation.
func (s Spot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.fields)+5)
	for k, v := range s.fields {
		out[k] = v
	}
	out["activator"] = s.Activator
	out["reference"] = s.Reference
	out["frequency"] = s.Frequency
	out["mode"] = s.Mode
	out["hunted"] = s.Hunted
	return json.Marshal(out)
}

// stringField reads a field that upstream may send as a string or a number.
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
