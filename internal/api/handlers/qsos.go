package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/storage/models"
	"github.com/pota-logger/backend/internal/websocket"
)

// CreateQSORequest is the body of a contact creation request.
type CreateQSORequest struct {
	ParkReference string     `json:"park_reference"`
	Callsign      string     `json:"callsign"`
	Frequency     float64    `json:"frequency"`
	Band          string     `json:"band"`
	Mode          string     `json:"mode"`
	RSTSent       string     `json:"rst_sent"`
	RSTReceived   string     `json:"rst_received"`
	Timestamp     *time.Time `json:"timestamp"`
}

// validate returns the names of missing or invalid fields.
func (req *CreateQSORequest) validate() []string {
	var invalid []string
	required := []struct{ name, value string }{
		{"park_reference", req.ParkReference},
		{"callsign", req.Callsign},
		{"band", req.Band},
		{"mode", req.Mode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			invalid = append(invalid, f.name)
		}
	}
	if req.Frequency <= 0 {
		invalid = append(invalid, "frequency")
	}
	return invalid
}

// ListQSOs returns a session's contacts ordered by timestamp.
func ListQSOs(db *storage.DB) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)
	qsos := storage.NewQSORepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := loadSession(w, r, sessions)
		if !ok {
			return
		}

		list, err := qsos.ListBySession(r.Context(), session.ID)
		if err != nil {
			slog.Error("listing qsos", "session_id", session.ID, "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query QSOs")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateQSO logs a contact in a session. A second contact with the same
// callsign, park and band in the session is rejected with 409.
func CreateQSO(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)
	qsos := storage.NewQSORepository(db)
	events := websocket.NewEventBroadcaster(hub)

	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := loadSession(w, r, sessions)
		if !ok {
			return
		}

		var req CreateQSORequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if invalid := req.validate(); len(invalid) > 0 {
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation,
				"Missing or invalid fields", map[string][]string{"fields": invalid})
			return
		}

		q := &models.QSO{
			HuntSessionID: session.ID,
			ParkReference: req.ParkReference,
			Callsign:      req.Callsign,
			Frequency:     req.Frequency,
			Band:          req.Band,
			Mode:          req.Mode,
			RSTSent:       req.RSTSent,
			RSTReceived:   req.RSTReceived,
		}
		if req.Timestamp != nil {
			q.Timestamp = *req.Timestamp
		}

		err := qsos.Create(r.Context(), q)
		var dup *storage.DuplicateQSOError
		if errors.As(err, &dup) {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, dup.Error())
			return
		}
		if err != nil {
			slog.Error("creating qso", "session_id", session.ID, "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create QSO")
			return
		}

		slog.Info("qso logged", "callsign", q.Callsign, "park", q.ParkReference, "band", q.Band, "mode", q.Mode)
		events.BroadcastQSOCreated(*q)
		middleware.WriteJSON(w, http.StatusCreated, q)
	}
}

// DeleteQSO removes a contact from a session.
func DeleteQSO(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	qsos := storage.NewQSORepository(db)
	events := websocket.NewEventBroadcaster(hub)

	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		sessionID, qsoID := vars["id"], vars["qsoID"]

		if !storage.IsValidID(sessionID) || !storage.IsValidID(qsoID) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "QSO not found")
			return
		}

		err := qsos.Delete(r.Context(), sessionID, qsoID)
		if errors.Is(err, storage.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "QSO not found")
			return
		}
		if err != nil {
			slog.Error("deleting qso", "id", qsoID, "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete QSO")
			return
		}

		events.BroadcastQSODeleted(sessionID, qsoID)
		w.WriteHeader(http.StatusNoContent)
	}
}
