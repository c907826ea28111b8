// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/weekly-tracker/backend/internal/api/handlers"
	"github.com/weekly-tracker/backend/internal/api/middleware"
	"github.com/weekly-tracker/backend/internal/navigation"
	"github.com/weekly-tracker/backend/internal/settings"
	"github.com/weekly-tracker/backend/internal/storage"
	"github.com/weekly-tracker/backend/internal/websocket"
)

// Services bundles what the handlers need.
type Services struct {
	DB         *storage.DB
	Settings   *storage.SettingsRepository
	Timezone   *settings.Timezone
	Navigation *navigation.Service
	Hub        *websocket.Hub
	Rollover   *navigation.RolloverScheduler

	// StaticDir is served at / when set.
	StaticDir string
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// API subrouter
	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(s.DB, s.Timezone)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(s.Navigation, s.Hub, s.Rollover)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub, s.Navigation)).Methods("GET")

	// Week navigation endpoints
	api.HandleFunc("/week/current", handlers.GetCurrentWeek(s.Navigation)).Methods("GET")
	api.HandleFunc("/week/jump", handlers.JumpToWeek(s.Navigation)).Methods("POST")
	api.HandleFunc("/week/shift", handlers.ShiftWeek(s.Navigation)).Methods("POST")

	// Date operation endpoints
	api.HandleFunc("/date-operations", handlers.DateOperation(s.Navigation)).Methods("POST")
	api.HandleFunc("/analytics/range", handlers.AnalyticsRange(s.Navigation)).Methods("GET")

	// Settings endpoints
	api.HandleFunc("/settings", handlers.GetSettings(s.Settings)).Methods("GET")
	api.HandleFunc("/settings/timezone", handlers.GetTimezone(s.Timezone)).Methods("GET")
	api.HandleFunc("/settings/timezone", handlers.UpdateTimezone(s.Timezone)).Methods("PUT")
	api.HandleFunc("/settings/{key}/history", handlers.GetSettingHistory(s.Settings)).Methods("GET")

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Unknown API endpoint")
	})

	// Serve static frontend files
	if s.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.StaticDir)))
	}

	return r
}
