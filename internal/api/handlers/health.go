package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/weekly-tracker/backend/internal/navigation"
	"github.com/weekly-tracker/backend/internal/settings"
	"github.com/weekly-tracker/backend/internal/storage"
	"github.com/weekly-tracker/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
	TimezoneOK  bool   `json:"timezone_ok"`
	Timezone    string `json:"timezone"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB, zones *settings.Timezone) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.PingContext(r.Context()) == nil
		timezoneOK := zones.Err() == nil

		status := "healthy"
		if !dbConnected || !timezoneOK {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
			TimezoneOK:  timezoneOK,
			Timezone:    zones.Get(),
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	Timezone         string `json:"timezone"`
	CurrentWeek      string `json:"current_week,omitempty"`
	LastObservedWeek string `json:"last_observed_week,omitempty"`
	ConnectedClients int    `json:"connected_clients"`
	ServerTime       string `json:"server_time"`
}

// Status returns a handler that provides system status information.
func Status(svc *navigation.Service, hub *websocket.Hub, rollover *navigation.RolloverScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := StatusResponse{
			ConnectedClients: hub.ClientCount(),
			ServerTime:       svc.Now().Format(time.RFC3339),
		}

		if week, err := svc.CurrentWeek(""); err == nil {
			response.Timezone = week.Timezone
			response.CurrentWeek = week.WeekKey.String()
		}
		if rollover != nil {
			response.LastObservedWeek = rollover.LastWeek().String()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
