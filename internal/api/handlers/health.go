// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"net/http"
	"time"

	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/hunt"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/storage/models"
	"github.com/pota-logger/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
	Database    string `json:"database"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.PingContext(r.Context()) == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		middleware.WriteJSON(w, code, HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
			Database:    string(db.Dialect()),
		})
	}
}

// WatcherStatus reports the state of the background spot watcher.
type WatcherStatus interface {
	NextRun() *time.Time
	LastSummary() (*hunt.Summary, time.Time)
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	Version          string        `json:"version"`
	SessionsCount    int           `json:"sessions_count"`
	QSOsCount        int           `json:"qsos_count"`
	TodayQSOsCount   int           `json:"today_qsos_count"`
	TodaySessionDate string        `json:"today_session_date"`
	WebSocketClients int           `json:"websocket_clients"`
	NextSpotRefresh  *time.Time    `json:"next_spot_refresh,omitempty"`
	LastSpotRefresh  *time.Time    `json:"last_spot_refresh,omitempty"`
	LastSpotSummary  *hunt.Summary `json:"last_spot_summary,omitempty"`
}

// Status returns a handler that provides system status information.
// watcher may be nil when the spot watcher is not running.
func Status(db *storage.DB, hub *websocket.Hub, watcher WatcherStatus, version string) http.HandlerFunc {
	sessions := storage.NewSessionRepository(db)
	qsos := storage.NewQSORepository(db)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		sessionsCount, err := sessions.Count(ctx)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to count sessions")
			return
		}

		qsosCount, err := qsos.Count(ctx)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to count QSOs")
			return
		}

		today, err := qsos.ListToday(ctx)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query today's QSOs")
			return
		}

		response := StatusResponse{
			Version:          version,
			SessionsCount:    sessionsCount,
			QSOsCount:        qsosCount,
			TodayQSOsCount:   len(today),
			TodaySessionDate: models.SessionDateFor(time.Now()),
			WebSocketClients: hub.ClientCount(),
		}

		if watcher != nil {
			response.NextSpotRefresh = watcher.NextRun()
			if sum, at := watcher.LastSummary(); sum != nil {
				response.LastSpotSummary = sum
				response.LastSpotRefresh = &at
			}
		}

		middleware.WriteJSON(w, http.StatusOK, response)
	}
}
