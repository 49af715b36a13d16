package radio

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidFrequency is returned for a frequency that is not a positive number.
var ErrInvalidFrequency = errors.New("invalid frequency")

// KHz is a frequency in kilohertz that decodes from either a JSON number or a
// numeric string such as "14074.0".
type KHz float64

// UnmarshalJSON implements json.Unmarshaler.
func (k *KHz) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
	}

	switch v := raw.(type) {
	case float64:
		*k = KHz(v)
	case string:
		f, err := ParseKHz(v)
		if err != nil {
			return err
		}
		*k = f
	default:
		return fmt.Errorf("%w: expected number or string", ErrInvalidFrequency)
	}
	return nil
}

// ParseKHz parses a kHz value from text.
func ParseKHz(s string) (KHz, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
	}
	return KHz(f), nil
}

// Validate reports whether k is a usable dial frequency.
func (k KHz) Validate() error {
	f := float64(k)
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, f)
	}
	return nil
}

// Hz converts to hertz, rounded to the nearest whole hertz. flrig tunes in
// whole hertz, and the rounding drops float noise such as 14074099.999999998.
func (k KHz) Hz() float64 {
	return math.Round(float64(k) * 1000)
}
