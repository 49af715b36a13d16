package hunt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pota-logger/backend/internal/pota"
	"github.com/pota-logger/backend/internal/storage/models"
)

func testSpots() []pota.Spot {
	return []pota.Spot{
		pota.NewSpot("W1AW", "K-0001", "14074", "FT8"),
		pota.NewSpot("K3LR", "K-0002", "7074", "FT8"),
		pota.NewSpot("N5J", "K-0003", "21074", "CW"),
	}
}

func loggedW1AW() []models.QSO {
	return []models.QSO{{Callsign: "W1AW", ParkReference: "K-0001", Band: "20m"}}
}

func TestAnnotateMarksOnlyMatchingSpot(t *testing.T) {
	t.Parallel()

	got := Annotate(testSpots(), loggedW1AW())
	require.Len(t, got, 3)

	assert.True(t, got[0].Hunted)
	assert.False(t, got[1].Hunted)
	assert.False(t, got[2].Hunted)
}

func TestAnnotateIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	spots := []pota.Spot{pota.NewSpot("w1aw", "k-0001", "14250", "SSB")}
	qsos := []models.QSO{{Callsign: "W1aw", ParkReference: "K-0001", Band: "20M"}}

	assert.True(t, Annotate(spots, qsos)[0].Hunted)
}

func TestAnnotateRequiresSameBandAndPark(t *testing.T) {
	t.Parallel()

	spots := []pota.Spot{
		pota.NewSpot("W1AW", "K-0001", "7074", "FT8"),  // other band
		pota.NewSpot("W1AW", "K-0002", "14074", "FT8"), // other park
		pota.NewSpot("W1AX", "K-0001", "14074", "FT8"), // other call
	}
	for _, s := range Annotate(spots, loggedW1AW()) {
		assert.False(t, s.Hunted, "%s %s %s", s.Activator, s.Reference, s.Frequency)
	}
}

func TestAnnotateUnclassifiableNeverMatches(t *testing.T) {
	t.Parallel()

	spots := []pota.Spot{
		pota.NewSpot("W1AW", "K-0001", "", "FT8"),
		pota.NewSpot("W1AW", "K-0001", "abc", "FT8"),
		pota.NewSpot("W1AW", "K-0001", "31000", "FT8"),
	}
	qsos := []models.QSO{{Callsign: "W1AW", ParkReference: "K-0001", Band: ""}}

	for _, s := range Annotate(spots, qsos) {
		assert.False(t, s.Hunted)
	}
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	spots := testSpots()
	Annotate(spots, loggedW1AW())
	assert.False(t, spots[0].Hunted)
}

func TestAnnotateNoContacts(t *testing.T) {
	t.Parallel()

	for _, s := range Annotate(testSpots(), nil) {
		assert.False(t, s.Hunted)
	}
	assert.Empty(t, Annotate(nil, loggedW1AW()))
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		band  string
		mode  string
		calls []string
	}{
		{"no filter", "", "", []string{"W1AW", "K3LR", "N5J"}},
		{"all sentinel", FilterAll, FilterAll, []string{"W1AW", "K3LR", "N5J"}},
		{"band", "20m", "", []string{"W1AW"}},
		{"band is case sensitive", "20M", "", nil},
		{"mode", "", "CW", []string{"N5J"}},
		{"mode is case insensitive", "All", "ft8", []string{"W1AW", "K3LR"}},
		{"band and mode", "40m", "FT8", []string{"K3LR"}},
		{"no match", "6m", "", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls []string
			for _, s := range Filter(testSpots(), tt.band, tt.mode) {
				calls = append(calls, s.Activator)
			}
			assert.Equal(t, tt.calls, calls)
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	spots := append(testSpots(), pota.NewSpot("AA1A", "K-0004", "nope", "SSB"))
	sum := Summarize(Annotate(spots, loggedW1AW()))

	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 1, sum.Hunted)
	assert.Equal(t, 1, sum.ByBand["20m"])
	assert.Equal(t, 1, sum.ByBand["40m"])
	assert.Equal(t, 1, sum.ByBand["15m"])
	assert.Equal(t, 1, sum.ByBand[""])
}
