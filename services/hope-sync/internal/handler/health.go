package handler

import (
	"net/http"
	"time"

	"github.com/vasapolrittideah/hope-sync-api/services/hope-sync/internal/payload"
	"github.com/vasapolrittideah/hope-sync-api/shared/utilities"
)

func healthHandler(now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		utilities.WriteJSON(w, http.StatusOK, payload.HealthResponse{
			Message:   "Server is running smoothly",
			Timestamp: now().UTC(),
		})
	}
}
