// Package adif encodes logged contacts in the Amateur Data Interchange Format.
package adif

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pota-logger/backend/internal/storage/models"
)

// Header values written at the top of every export.
const (
	Version        = "3.1.4"
	ProgramID      = "POTA Logger"
	ProgramVersion = "1.0"
)

const (
	endOfHeader = "<EOH>"
	endOfRecord = "<EOR>"
)

// Field renders one tag-length-value field. The length is the character count of value.
func Field(name, value string) string {
	return fmt.Sprintf("<%s:%d>%s", name, utf8.RuneCountInString(value), value)
}

// Generate returns the ADIF document for operator and qsos, in the given order.
func Generate(operator string, qsos []models.QSO) string {
	lines := make([]string, 0, 5+2*len(qsos))
	lines = append(lines,
		Field("ADIF_VER", Version),
		Field("PROGRAMID", ProgramID),
		Field("PROGRAMVERSION", ProgramVersion),
		endOfHeader,
		"",
	)

	station := strings.ToUpper(operator)
	for i := range qsos {
		lines = append(lines, Record(station, &qsos[i]), "")
	}

	return strings.Join(lines, "\n")
}

// Record renders a single contact as one line terminated by <EOR>.
// station is written as given.
func Record(station string, q *models.QSO) string {
	ts := q.Timestamp.UTC()
	fields := []string{
		Field("STATION_CALLSIGN", station),
		Field("CALL", strings.ToUpper(q.Callsign)),
		Field("SIG", "POTA"),
		Field("SIG_INFO", strings.ToUpper(q.ParkReference)),
		Field("QSO_DATE", ts.Format("20060102")),
		Field("TIME_ON", ts.Format("150405")),
		Field("BAND", strings.ToLower(q.Band)),
		Field("FREQ", FormatFrequency(q.Frequency)),
		Field("MODE", strings.ToUpper(q.Mode)),
		Field("RST_SENT", q.RSTSent),
		Field("RST_RCVD", q.RSTReceived),
		endOfRecord,
	}
	return strings.Join(fields, " ")
}

// FormatFrequency renders a frequency with exactly four fractional digits.
func FormatFrequency(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// Filename returns the suggested export filename for a session date.
func Filename(sessionDate time.Time) string {
	return "hunt_" + sessionDate.Format("20060102") + ".adi"
}
