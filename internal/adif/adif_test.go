package adif

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pota-logger/backend/internal/storage/models"
)

func makeQSO(opts ...func(*models.QSO)) models.QSO {
	q := models.QSO{
		Callsign:      "W1AW",
		ParkReference: "K-0001",
		Timestamp:     time.Date(2025, 6, 15, 18, 30, 0, 0, time.UTC),
		Band:          "20m",
		Frequency:     14.074,
		Mode:          "SSB",
		RSTSent:       "59",
		RSTReceived:   "59",
	}
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

func TestField(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "<CALL:4>W1AW", Field("CALL", "W1AW"))
	assert.Equal(t, "<CALL:0>", Field("CALL", ""))
	assert.Equal(t, "<STATION_CALLSIGN:6>KD2ABC", Field("STATION_CALLSIGN", "KD2ABC"))
	assert.Equal(t, "<NAME:5>Jürgn", Field("NAME", "Jürgn"), "length counts characters")
}

func TestGenerateHeader(t *testing.T) {
	t.Parallel()

	for _, op := range []string{"", "W1AW", "kd2abc"} {
		out := Generate(op, nil)
		assert.Contains(t, out, "<ADIF_VER:5>3.1.4")
		assert.Contains(t, out, "<PROGRAMID:11>POTA Logger")
		assert.Contains(t, out, "<PROGRAMVERSION:3>1.0")
		assert.Contains(t, out, "<EOH>")
		assert.NotContains(t, out, "<EOR>")
	}

	assert.Equal(t,
		"<ADIF_VER:5>3.1.4\n<PROGRAMID:11>POTA Logger\n<PROGRAMVERSION:3>1.0\n<EOH>\n",
		Generate("W1AW", []models.QSO{}))
}

func TestGenerateSingleRecord(t *testing.T) {
	t.Parallel()

	out := Generate("KD2ABC", []models.QSO{makeQSO()})

	want := "<STATION_CALLSIGN:6>KD2ABC <CALL:4>W1AW <SIG:4>POTA <SIG_INFO:6>K-0001 " +
		"<QSO_DATE:8>20250615 <TIME_ON:6>183000 <BAND:3>20m <FREQ:7>14.0740 <MODE:3>SSB " +
		"<RST_SENT:2>59 <RST_RCVD:2>59 <EOR>"
	assert.True(t, strings.HasSuffix(out, "<EOH>\n\n"+want+"\n"), "got %q", out)
}

func TestGenerateCasing(t *testing.T) {
	t.Parallel()

	q := makeQSO(func(q *models.QSO) {
		q.Callsign = "w1aw"
		q.ParkReference = "k-0001"
		q.Band = "20M"
		q.Mode = "cw"
		q.RSTSent = "599x"
	})
	out := Generate("kd2abc", []models.QSO{q})

	assert.Contains(t, out, "<STATION_CALLSIGN:6>KD2ABC")
	assert.Contains(t, out, "<CALL:4>W1AW")
	assert.Contains(t, out, "<SIG_INFO:6>K-0001")
	assert.Contains(t, out, "<BAND:3>20m")
	assert.Contains(t, out, "<MODE:2>CW")
	assert.Contains(t, out, "<RST_SENT:4>599x", "signal reports are verbatim")
}

func TestFrequencyFormatting(t *testing.T) {
	t.Parallel()

	out := Generate("W1AW", []models.QSO{makeQSO(func(q *models.QSO) { q.Frequency = 7 })})
	assert.Contains(t, out, "<FREQ:6>7.0000")

	out = Generate("W1AW", []models.QSO{makeQSO(func(q *models.QSO) { q.Frequency = 14.074 })})
	assert.Contains(t, out, "<FREQ:7>14.0740")

	assert.Equal(t, "146.5200", FormatFrequency(146.52))
}

func TestTimestampUsesUTC(t *testing.T) {
	t.Parallel()

	est := time.FixedZone("EST", -5*60*60)
	q := makeQSO(func(q *models.QSO) {
		q.Timestamp = time.Date(2025, 6, 15, 21, 5, 9, 0, est)
	})
	out := Generate("W1AW", []models.QSO{q})

	assert.Contains(t, out, "<QSO_DATE:8>20250616")
	assert.Contains(t, out, "<TIME_ON:6>020509")
}

func TestMultipleRecordsKeepOrder(t *testing.T) {
	t.Parallel()

	qsos := []models.QSO{
		makeQSO(func(q *models.QSO) { q.Callsign = "W1AW" }),
		makeQSO(func(q *models.QSO) { q.Callsign = "K3LR" }),
	}
	out := Generate("N0CALL", qsos)

	assert.Equal(t, 2, strings.Count(out, "<EOR>"))
	first := strings.Index(out, "<CALL:4>W1AW")
	second := strings.Index(out, "<CALL:4>K3LR")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
	assert.Equal(t, Generate("N0CALL", qsos), out, "output is deterministic")
}

func TestFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hunt_20250615.adi", Filename(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))
}
