package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/storage/models"
	"github.com/pota-logger/backend/internal/websocket"
)

// loadSession resolves the {id} route variable to a session. It writes the
// error response and returns false when the session cannot be served.
func loadSession(w http.ResponseWriter, r *http.Request, repo *storage.SessionRepository) (*models.HuntSession, bool) {
	id := mux.Vars(r)["id"]
	if !storage.IsValidID(id) {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Hunt session not found")
		return nil, false
	}

	session, err := repo.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("loading session", "id", id, "error", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load hunt session")
		return nil, false
	}
	if session == nil {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Hunt session not found")
		return nil, false
	}

	return session, true
}

// writeSessionDetail responds with a session and its contacts.
func writeSessionDetail(w http.ResponseWriter, r *http.Request, qsos *storage.QSORepository, session *models.HuntSession) {
	list, err := qsos.ListBySession(r.Context(), session.ID)
	if err != nil {
		slog.Error("listing session qsos", "session_id", session.ID, "error", err)
		middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load QSOs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, models.HuntSessionWithQSOs{
		HuntSession: *session,
		QSOs:        list,
	})
}

// ListSessions returns all hunt sessions, newest first.
func ListSessions(db *storage.DB) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := sessions.List(r.Context())
		if err != nil {
			slog.Error("listing sessions", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query hunt sessions")
			return
		}

		middleware.WriteJSON(w, http.StatusOK, list)
	}
}

// GetTodaySession returns today's session with its contacts, creating the
// session on first access.
func GetTodaySession(db *storage.DB) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)
	qsos := storage.NewQSORepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		session, err := sessions.GetToday(r.Context())
		if err != nil {
			slog.Error("creating today's session", "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to load today's hunt session")
			return
		}

		writeSessionDetail(w, r, qsos, session)
	}
}

// GetSession returns a session with its contacts.
func GetSession(db *storage.DB) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)
	qsos := storage.NewQSORepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := loadSession(w, r, sessions)
		if !ok {
			return
		}

		writeSessionDetail(w, r, qsos, session)
	}
}

// DeleteSession removes a session and every contact in it.
func DeleteSession(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)
	events := websocket.NewEventBroadcaster(hub)

	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := loadSession(w, r, sessions)
		if !ok {
			return
		}

		err := sessions.Delete(r.Context(), session.ID)
		if errors.Is(err, storage.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Hunt session not found")
			return
		}
		if err != nil {
			slog.Error("deleting session", "id", session.ID, "error", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete hunt session")
			return
		}

		slog.Info("hunt session deleted", "id", session.ID, "date", session.SessionDate)
		events.BroadcastSessionDeleted(*session)
		w.WriteHeader(http.StatusNoContent)
	}
}
