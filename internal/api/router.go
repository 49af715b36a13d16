// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pota-logger/backend/internal/api/handlers"
	"github.com/pota-logger/backend/internal/api/middleware"
	"github.com/pota-logger/backend/internal/storage"
	"github.com/pota-logger/backend/internal/websocket"
)

// Services are the collaborators the handlers depend on.
type Services struct {
	DB      *storage.DB
	Hub     *websocket.Hub
	Parks   handlers.ParkLookup
	Spots   handlers.SpotFinder
	Tuner   handlers.Tuner
	Watcher handlers.WatcherStatus // optional

	StaticDir   string
	CORSOrigins []string
	Version     string
}

// NewRouter creates the HTTP handler with all API routes. CORS wraps the
// router so preflight requests are answered before route matching.
func NewRouter(s Services) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(s.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(s.DB, s.Hub, s.Watcher, s.Version)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub, s.CORSOrigins)).Methods("GET")

	api.HandleFunc("/bands", handlers.ListBands()).Methods("GET")

	// Hunt session endpoints
	api.HandleFunc("/hunt-sessions", handlers.ListSessions(s.DB)).Methods("GET")
	api.HandleFunc("/hunt-sessions/today", handlers.GetTodaySession(s.DB)).Methods("GET")
	api.HandleFunc("/hunt-sessions/{id}", handlers.GetSession(s.DB)).Methods("GET")
	api.HandleFunc("/hunt-sessions/{id}", handlers.DeleteSession(s.DB, s.Hub)).Methods("DELETE")
	api.HandleFunc("/hunt-sessions/{id}/export", handlers.ExportSession(s.DB)).Methods("GET")

	// QSO endpoints
	api.HandleFunc("/hunt-sessions/{id}/qsos", handlers.ListQSOs(s.DB)).Methods("GET")
	api.HandleFunc("/hunt-sessions/{id}/qsos", handlers.CreateQSO(s.DB, s.Hub)).Methods("POST")
	api.HandleFunc("/hunt-sessions/{id}/qsos/{qsoID}", handlers.DeleteQSO(s.DB, s.Hub)).Methods("DELETE")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(s.DB)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(s.DB, s.Hub)).Methods("PUT")

	// POTA API proxies
	api.HandleFunc("/parks/{ref}", handlers.GetPark(s.Parks)).Methods("GET")
	api.HandleFunc("/spots", handlers.ListSpots(s.Spots)).Methods("GET")

	// Radio control
	api.HandleFunc("/radio/set-frequency", handlers.SetFrequency(s.DB, s.Tuner, s.Hub)).Methods("POST")

	// Serve static frontend files
	if s.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.StaticDir)))
	}

	return middleware.CORS(s.CORSOrigins)(r)
}
