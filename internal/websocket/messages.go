package websocket

import (
	"encoding/json"
	"time"

	"github.com/pota-logger/backend/internal/pota"
	"github.com/pota-logger/backend/internal/storage/models"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeQSOCreated        MessageType = "qso.created"
	TypeQSODeleted        MessageType = "qso.deleted"
	TypeSessionDeleted    MessageType = "session.deleted"
	TypeSettingsUpdated   MessageType = "settings.updated"
	TypeRadioFrequencySet MessageType = "radio.frequency_set"
	TypeSpotsUpdated      MessageType = "spots.updated"
	TypeSpotsError        MessageType = "spots.error"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// QSOPayload is the payload for qso.created events.
type QSOPayload struct {
	QSO models.QSO `json:"qso"`
}

// QSODeletedPayload is the payload for qso.deleted events.
type QSODeletedPayload struct {
	HuntSessionID string `json:"hunt_session_id"`
	QSOID         string `json:"qso_id"`
}

// SessionDeletedPayload is the payload for session.deleted events.
type SessionDeletedPayload struct {
	HuntSessionID string `json:"hunt_session_id"`
	SessionDate   string `json:"session_date"`
}

// FrequencyPayload is the payload for radio.frequency_set events.
type FrequencyPayload struct {
	FrequencyHz float64 `json:"frequency_hz"`
	Band        string  `json:"band"`
}

// SpotsPayload is the payload for spots.updated events.
type SpotsPayload struct {
	Total  int            `json:"total"`
	Hunted int            `json:"hunted"`
	ByBand map[string]int `json:"by_band"`
	Spots  []pota.Spot    `json:"spots"`
}

// ErrorPayload is the payload for error and spots.error messages.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
