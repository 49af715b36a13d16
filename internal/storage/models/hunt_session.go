// Package models contains the domain models for the application.
package models

import (
	"time"
)

// SessionDateLayout is the layout of HuntSession.SessionDate.
const SessionDateLayout = "2006-01-02"

// HuntSession groups the contacts logged on one UTC calendar day.
type HuntSession struct {
	ID          string    `json:"id"`
	SessionDate string    `json:"session_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Date parses SessionDate as a UTC calendar date.
func (s *HuntSession) Date() (time.Time, error) {
	return time.ParseInLocation(SessionDateLayout, s.SessionDate, time.UTC)
}

// HuntSessionWithQSOs combines a session with its contacts.
type HuntSessionWithQSOs struct {
	HuntSession
	QSOs []QSO `json:"qsos"`
}

// SessionDateFor returns the session date string for an instant, using its UTC day.
func SessionDateFor(t time.Time) string {
	return t.UTC().Format(SessionDateLayout)
}

// HuntSessionSummary is a session with the number of contacts logged in it.
type HuntSessionSummary struct {
	HuntSession
	QSOCount int `json:"qso_count"`
}
