// Package band maps amateur radio frequencies to band labels.
package band

import (
	"strconv"
	"strings"
)

// Range is a half-open frequency range [LowKHz, HighKHz) for one band.
type Range struct {
	Label   string  `json:"label"`
	LowKHz  float64 `json:"low_khz"`
	HighKHz float64 `json:"high_khz"`
}

// Contains reports whether khz falls within the range.
func (r Range) Contains(khz float64) bool {
	return khz >= r.LowKHz && khz < r.HighKHz
}

// ranges must stay disjoint.
var ranges = []Range{
	{Label: "160m", LowKHz: 1800, HighKHz: 2000},
	{Label: "80m", LowKHz: 3500, HighKHz: 4000},
	{Label: "60m", LowKHz: 5330, HighKHz: 5406},
	{Label: "40m", LowKHz: 7000, HighKHz: 7300},
	{Label: "30m", LowKHz: 10100, HighKHz: 10150},
	{Label: "20m", LowKHz: 14000, HighKHz: 14350},
	{Label: "17m", LowKHz: 18068, HighKHz: 18168},
	{Label: "15m", LowKHz: 21000, HighKHz: 21450},
	{Label: "12m", LowKHz: 24890, HighKHz: 24990},
	{Label: "10m", LowKHz: 28000, HighKHz: 30000},
	{Label: "6m", LowKHz: 50000, HighKHz: 54000},
	{Label: "2m", LowKHz: 144000, HighKHz: 148000},
}

// Classify returns the band label for a frequency given in kHz as text.
// Empty or non-numeric input, and frequencies outside every band, yield "".
func Classify(khz string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(khz), 64)
	if err != nil {
		return ""
	}
	return ClassifyKHz(f)
}

// ClassifyKHz returns the band label for a frequency in kHz, or "" if none matches.
func ClassifyKHz(khz float64) string {
	for _, r := range ranges {
		if r.Contains(khz) {
			return r.Label
		}
	}
	return ""
}

// Ranges returns a copy of the band table in ascending frequency order.
func Ranges() []Range {
	out := make([]Range, len(ranges))
	copy(out, ranges)
	return out
}
