package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/weekly-tracker/backend/internal/api/middleware"
	"github.com/weekly-tracker/backend/internal/calendar"
	"github.com/weekly-tracker/backend/internal/settings"
	"github.com/weekly-tracker/backend/internal/storage"
	"github.com/weekly-tracker/backend/internal/storage/models"
)

// Settings request/response types

type TimezoneResponse struct {
	Timezone string `json:"timezone"`
	Valid    bool   `json:"valid"`
	Error    string `json:"error,omitempty"`
}

type UpdateTimezoneRequest struct {
	Timezone string `json:"timezone"`
}

type UpdateTimezoneResponse struct {
	Success  bool   `json:"success"`
	Timezone string `json:"timezone"`
}

// GetSettings returns all settings as a key/value map.
func GetSettings(repo *storage.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := repo.List(r.Context())
		if err != nil {
			log.Printf("Failed to list settings: %v", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query settings")
			return
		}

		response := make(map[string]string, len(rows))
		for _, s := range rows {
			response[s.Key] = s.Value
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// GetSettingHistory returns recent changes to one setting, newest first.
func GetSettingHistory(repo *storage.SettingsRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := mux.Vars(r)["key"]

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "limit must be a positive integer")
				return
			}
			limit = n
		}

		changes, err := repo.History(r.Context(), key, limit)
		if err != nil {
			log.Printf("Failed to query history for %s: %v", key, err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query setting history")
			return
		}

		if changes == nil {
			changes = []models.SettingChange{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(changes)
	}
}

// GetTimezone returns the configured timezone and whether it resolves.
func GetTimezone(zones *settings.Timezone) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := TimezoneResponse{
			Timezone: zones.Get(),
			Valid:    true,
		}
		if err := zones.Err(); err != nil {
			response.Valid = false
			response.Error = err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// UpdateTimezone validates and stores a new timezone identifier.
func UpdateTimezone(zones *settings.Timezone) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateTimezoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Timezone == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "timezone is required")
			return
		}

		name, err := zones.Set(r.Context(), req.Timezone)
		if err != nil {
			var tzErr *calendar.TimezoneError
			if errors.As(err, &tzErr) {
				middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrTimezone, err.Error(),
					map[string]string{"timezone": tzErr.Name})
				return
			}
			log.Printf("Failed to update timezone: %v", err)
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update timezone")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(UpdateTimezoneResponse{
			Success:  true,
			Timezone: name,
		})
	}
}
