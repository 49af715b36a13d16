package websocket

import (
	"log/slog"

	"github.com/pota-logger/backend/internal/pota"
	"github.com/pota-logger/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// HasClients reports whether anyone is listening.
func (b *EventBroadcaster) HasClients() bool {
	return b.hub.ClientCount() > 0
}

// BroadcastQSOCreated sends a qso.created event.
func (b *EventBroadcaster) BroadcastQSOCreated(q models.QSO) {
	b.broadcast(NewMessage(TypeQSOCreated, QSOPayload{QSO: q}))
}

// BroadcastQSODeleted sends a qso.deleted event.
func (b *EventBroadcaster) BroadcastQSODeleted(sessionID, qsoID string) {
	b.broadcast(NewMessage(TypeQSODeleted, QSODeletedPayload{
		HuntSessionID: sessionID,
		QSOID:         qsoID,
	}))
}

// BroadcastSessionDeleted sends a session.deleted event.
func (b *EventBroadcaster) BroadcastSessionDeleted(s models.HuntSession) {
	b.broadcast(NewMessage(TypeSessionDeleted, SessionDeletedPayload{
		HuntSessionID: s.ID,
		SessionDate:   s.SessionDate,
	}))
}

// BroadcastSettingsUpdated sends a settings.updated event.
func (b *EventBroadcaster) BroadcastSettingsUpdated(s models.Settings) {
	b.broadcast(NewMessage(TypeSettingsUpdated, s))
}

// BroadcastFrequencySet sends a radio.frequency_set event.
func (b *EventBroadcaster) BroadcastFrequencySet(hz float64, bandLabel string) {
	b.broadcast(NewMessage(TypeRadioFrequencySet, FrequencyPayload{FrequencyHz: hz, Band: bandLabel}))
}

// BroadcastSpotsUpdated sends the latest annotated spots with their counts.
func (b *EventBroadcaster) BroadcastSpotsUpdated(spots []pota.Spot, total, hunted int, byBand map[string]int) {
	b.broadcast(NewMessage(TypeSpotsUpdated, SpotsPayload{
		Total:  total,
		Hunted: hunted,
		ByBand: byBand,
		Spots:  spots,
	}))
}

// BroadcastSpotsError sends a spots.error event.
func (b *EventBroadcaster) BroadcastSpotsError(err error) {
	b.broadcast(NewMessage(TypeSpotsError, ErrorPayload{
		Code:    "spots_unavailable",
		Message: err.Error(),
	}))
}

// broadcast sends a message to all connected clients.
func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		slog.Error("encoding websocket message", "type", msg.Type, "error", err)
		return
	}

	b.hub.Broadcast(data)
}
