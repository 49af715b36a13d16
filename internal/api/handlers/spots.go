package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/pota"
)

// SpotFinder returns filtered spots annotated against today's log.
type SpotFinder interface {
	Spots(ctx context.Context, band, mode string) ([]pota.Spot, error)
}

// ListSpots returns the live activator spots. The optional band and mode
// query parameters narrow the list; "All" disables a filter.
func ListSpots(finder SpotFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		spots, err := finder.Spots(r.Context(), q.Get("band"), q.Get("mode"))
		var upErr *pota.UpstreamError
		if errors.As(err, &upErr) {
			slog.Warn("spot fetch failed", "error", err)
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrBadGateway, "Failed to fetch spots from POTA API")
			return
		}
		if err != nil {
			slog.Error("listing spots", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to list spots")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, spots)
	}
}
