package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/weekly-tracker/backend/internal/api/middleware"
	"github.com/weekly-tracker/backend/internal/navigation"
)

// DateOperation runs one named date operation.
func DateOperation(svc *navigation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req navigation.OperationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Operation == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "operation is required")
			return
		}

		res, err := svc.Execute(req)
		if err != nil {
			middleware.WriteServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}
