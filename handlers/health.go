package handlers

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Alive     bool      `json:"alive"`
	Timestamp time.Time `json:"timestamp"`
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Alive: true, Timestamp: time.Now().UTC()})
}
