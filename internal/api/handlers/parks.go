package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/pota"
)

// ParkLookup resolves park references to metadata.
type ParkLookup interface {
	GetPark(ctx context.Context, reference string) (pota.Park, error)
}

// GetPark proxies park metadata from the POTA API.
func GetPark(parks ParkLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref := mux.Vars(r)["ref"]

		park, err := parks.GetPark(r.Context(), ref)
		if errors.Is(err, pota.ErrParkNotFound) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Park not found")
			return
		}
		if err != nil {
			slog.Warn("park lookup failed", "reference", ref, "error", err)
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrBadGateway, "Failed to fetch park from POTA API")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, park)
	}
}
