package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/band"
	"github.com/pota-logger/backend/internal/radio"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/websocket"
)

// Tuner changes the rig frequency.
type Tuner interface {
	SetFrequency(ctx context.Context, ep radio.Endpoint, hz float64) error
}

// SetFrequencyRequest is the body of a tune request. frequency_khz may be a
// number or a numeric string.
type SetFrequencyRequest struct {
	FrequencyKHz radio.KHz `json:"frequency_khz"`
}

// SetFrequencyResponse is returned after the rig accepted the frequency.
type SetFrequencyResponse struct {
	Status      string  `json:"status"`
	FrequencyHz float64 `json:"frequency_hz"`
}

// SetFrequency tunes the rig through flrig at the endpoint stored in settings.
func SetFrequency(db *storage.DB, tuner Tuner, hub *websocket.Hub) http.HandlerFunc {
	settings := storage.NewSettingsRepository(db)
	events := websocket.NewEventBroadcaster(hub)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req SetFrequencyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "frequency_khz must be a number")
			return
		}
		if err := req.FrequencyKHz.Validate(); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "frequency_khz must be a positive number")
			return
		}

		s, err := settings.Get(ctx)
		if err != nil {
			slog.Error("loading settings", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}

		hz := req.FrequencyKHz.Hz()
		err = tuner.SetFrequency(ctx, radio.Endpoint{Host: s.FlrigHost, Port: s.FlrigPort}, hz)

		var fault *radio.FaultError
		var unreachable *radio.UnreachableError
		switch {
		case errors.As(err, &fault):
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrBadGateway, fault.Error())
			return
		case errors.As(err, &unreachable):
			middleware.WriteError(w, http.StatusServiceUnavailable, middleware.ErrServiceUnavailable, unreachable.Error())
			return
		case err != nil:
			slog.Error("setting frequency", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to set frequency")
			return
		}

		events.BroadcastFrequencySet(hz, band.ClassifyKHz(float64(req.FrequencyKHz)))
		middleware.WriteJSON(w, http.StatusOK, SetFrequencyResponse{Status: "ok", FrequencyHz: hz})
	}
}
