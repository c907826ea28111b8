// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/weekly-tracker/backend/internal/api/middleware"
	"github.com/weekly-tracker/backend/internal/navigation"
)

// Week request types

type JumpToWeekRequest struct {
	Target string `json:"target"`
}

type ShiftWeekRequest struct {
	WeekKey   string `json:"week_key"`
	Direction int    `json:"direction"`
}

// GetCurrentWeek returns the week containing ?target=, or the current week.
func GetCurrentWeek(svc *navigation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.CurrentWeek(r.URL.Query().Get("target"))
		if err != nil {
			middleware.WriteServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}

// JumpToWeek returns the week containing the requested target.
func JumpToWeek(svc *navigation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req JumpToWeekRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		res, err := svc.JumpToWeek(req.Target)
		if err != nil {
			middleware.WriteServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}

// ShiftWeek moves one week forward or back from the given week.
func ShiftWeek(svc *navigation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ShiftWeekRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.WeekKey == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "week_key is required")
			return
		}

		res, err := svc.ShiftWeek(req.WeekKey, req.Direction)
		if err != nil {
			middleware.WriteServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}
