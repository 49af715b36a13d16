package handlers

import (
	"net/http"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/band"
)

// ListBands returns the band table used to classify spot frequencies.
func ListBands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, band.Ranges())
	}
}
