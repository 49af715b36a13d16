package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/storage/models"
	"github.com/pota-logger/backend/internal/websocket"
)

// UpdateSettingsRequest is the body of a settings update. Omitted flrig
// fields keep their stored values.
type UpdateSettingsRequest struct {
	OperatorCallsign *string `json:"operator_callsign"`
	FlrigHost        *string `json:"flrig_host"`
	FlrigPort        *int    `json:"flrig_port"`
}

// GetSettings returns the settings, creating the defaults on first access.
func GetSettings(db *storage.DB) http.HandlerFunc {
	settings := storage.NewSettingsRepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		s, err := settings.Get(r.Context())
		if err != nil {
			slog.Error("loading settings", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, s)
	}
}

// UpdateSettings updates the operator callsign and flrig endpoint.
func UpdateSettings(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	settings := storage.NewSettingsRepository(db)
	events := websocket.NewEventBroadcaster(hub)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req UpdateSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.OperatorCallsign == nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "operator_callsign is required")
			return
		}
		if req.FlrigHost != nil && strings.TrimSpace(*req.FlrigHost) == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "flrig_host must not be empty")
			return
		}
		if req.FlrigPort != nil && (*req.FlrigPort < 1 || *req.FlrigPort > 65535) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "flrig_port must be between 1 and 65535")
			return
		}

		current, err := settings.Get(ctx)
		if err != nil {
			slog.Error("loading settings", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}

		updated := models.Settings{
			OperatorCallsign: strings.ToUpper(strings.TrimSpace(*req.OperatorCallsign)),
			FlrigHost:        current.FlrigHost,
			FlrigPort:        current.FlrigPort,
		}
		if req.FlrigHost != nil {
			updated.FlrigHost = strings.TrimSpace(*req.FlrigHost)
		}
		if req.FlrigPort != nil {
			updated.FlrigPort = *req.FlrigPort
		}

		if err := settings.Update(ctx, &updated); err != nil {
			slog.Error("updating settings", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update settings")
			return
		}

		events.BroadcastSettingsUpdated(updated)
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}
