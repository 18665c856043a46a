package handler

import (
	"net/http"
	"time"

	"reqgen/internal/httputil"
)

type healthResponse struct {
	Status  string    `json:"status"`
	Storage string    `json:"storage"`
	Time    time.Time `json:"time"`
}

// HealthCheck reports liveness and the active storage driver
// GET /health
func HealthCheck(storage string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Storage: storage,
			Time:    time.Now().UTC(),
		})
	}
}
