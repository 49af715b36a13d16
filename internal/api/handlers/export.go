package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pota-logger/backend/internal/adif"
	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/storage"
)

// ExportSession returns a session's contacts as an ADIF file download.
func ExportSession(db *storage.DB) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)
	qsos := storage.NewQSORepository(db)
	settings := storage.NewSettingsRepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, ok := loadSession(w, r, sessions)
		if !ok {
			return
		}

		list, err := qsos.ListBySession(ctx, session.ID)
		if err != nil {
			slog.Error("listing qsos for export", "session_id", session.ID, "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load QSOs")
			return
		}

		s, err := settings.Get(ctx)
		if err != nil {
			slog.Error("loading settings for export", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load settings")
			return
		}

		date, err := session.Date()
		if err != nil {
			slog.Error("parsing session date", "session_id", session.ID, "date", session.SessionDate, "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Invalid session date")
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, adif.Filename(date)))
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, adif.Generate(s.OperatorCallsign, list))
	}
}
