// Package hunt matches live activator spots against the contacts already logged today.
package hunt

import (
	"strings"

	"github.com/pota-logger/backend/internal/band"
	"github.com/pota-logger/backend/internal/pota"
	"github.com/pota-logger/backend/internal/storage/models"
)

// FilterAll is the filter value that disables band or mode filtering.
const FilterAll = "All"

// Filter narrows spots to those on bandLabel and mode. Band matches the
// classifier output exactly; mode matches case-insensitively. An empty value
// or FilterAll leaves that dimension unfiltered. The input slice is not modified.
func Filter(spots []pota.Spot, bandLabel, mode string) []pota.Spot {
	byBand := bandLabel != "" && bandLabel != FilterAll
	byMode := mode != "" && mode != FilterAll

	out := make([]pota.Spot, 0, len(spots))
	for _, s := range spots {
		if byBand && band.Classify(s.Frequency) != bandLabel {
			continue
		}
		if byMode && !strings.EqualFold(s.Mode, mode) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Annotate returns a copy of spots with Hunted set for every spot whose
// (activator, park, band) matches one of qsos.
func Annotate(spots []pota.Spot, qsos []models.QSO) []pota.Spot {
	hunted := make(map[models.HuntedKey]struct{}, len(qsos))
	for i := range qsos {
		hunted[qsos[i].Key()] = struct{}{}
	}

	out := make([]pota.Spot, len(spots))
	for i, s := range spots {
		_, s.Hunted = hunted[SpotKey(s)]
		out[i] = s
	}
	return out
}

// SpotKey returns the matching key for a spot. Spots whose frequency does not
// classify get an empty band and can never match a logged contact.
func SpotKey(s pota.Spot) models.HuntedKey {
	return models.NewHuntedKey(s.Activator, s.Reference, band.Classify(s.Frequency))
}

// Summary counts spots for status reporting.
type Summary struct {
	Total  int            `json:"total"`
	Hunted int            `json:"hunted"`
	ByBand map[string]int `json:"by_band"`
}

// Summarize counts annotated spots overall, hunted, and per band.
// Unclassified spots are counted under "".
func Summarize(spots []pota.Spot) Summary {
	sum := Summary{Total: len(spots), ByBand: make(map[string]int)}
	for _, s := range spots {
		if s.Hunted {
			sum.Hunted++
		}
		sum.ByBand[band.Classify(s.Frequency)]++
	}
	return sum
}
