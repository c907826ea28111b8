package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/weekly-tracker/backend/internal/api/middleware"
	"github.com/weekly-tracker/backend/internal/navigation"
)

// AnalyticsRange resolves ?preset= (or ?preset=custom&start=&end=) into the
// bounds and week keys an analytics query should cover.
func AnalyticsRange(svc *navigation.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		res, err := svc.ResolveAnalyticsRange(q.Get("preset"), q.Get("start"), q.Get("end"))
		if err != nil {
			middleware.WriteServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}
