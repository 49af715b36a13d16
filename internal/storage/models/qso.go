package models

import (
	"strings"
	"time"
)

// QSO is one logged two-way contact with a park activator.
type QSO struct {
	ID            string    `json:"id"`
	HuntSessionID string    `json:"hunt_session_id"`
	ParkReference string    `json:"park_reference"`
	Callsign      string    `json:"callsign"`
	Frequency     float64   `json:"frequency"`
	Band          string    `json:"band"`
	Mode          string    `json:"mode"`
	RSTSent       string    `json:"rst_sent"`
	RSTReceived   string    `json:"rst_received"`
	Timestamp     time.Time `json:"timestamp"`
	CreatedAt     time.Time `json:"created_at"`
}

// Normalize canonicalizes the fields that make up the duplicate key and the
// timestamp zone. Callsign, park and mode are uppercased, band is lowercased.
func (q *QSO) Normalize() {
	q.Callsign = strings.ToUpper(strings.TrimSpace(q.Callsign))
	q.ParkReference = strings.ToUpper(strings.TrimSpace(q.ParkReference))
	q.Band = strings.ToLower(strings.TrimSpace(q.Band))
	q.Mode = strings.ToUpper(strings.TrimSpace(q.Mode))
	q.RSTSent = strings.TrimSpace(q.RSTSent)
	q.RSTReceived = strings.TrimSpace(q.RSTReceived)
	q.Timestamp = q.Timestamp.UTC()
}

// HuntedKey is the (callsign, park, band) identity used to match contacts
// against spots. All parts are uppercased.
type HuntedKey struct {
	Callsign string
	Park     string
	Band     string
}

// NewHuntedKey builds a HuntedKey, uppercasing each part.
func NewHuntedKey(callsign, park, band string) HuntedKey {
	return HuntedKey{
		Callsign: strings.ToUpper(callsign),
		Park:     strings.ToUpper(park),
		Band:     strings.ToUpper(band),
	}
}

// Key returns the contact's HuntedKey.
func (q *QSO) Key() HuntedKey {
	return NewHuntedKey(q.Callsign, q.ParkReference, q.Band)
}
