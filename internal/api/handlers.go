// Package api exposes HTTP handlers for the GetFit service.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"example.com/getfit/internal/auth"
	"example.com/getfit/internal/domain"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	tokens  auth.Config
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, tokens auth.Config) *Handler {
	return &Handler{service: service, tokens: tokens}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", healthCheck)
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/profile", h.profile)
	mux.HandleFunc("/api/activities", h.activities)
	mux.HandleFunc("/api/streak", h.streak)
	mux.HandleFunc("/api/friends/add", h.addFriend)
	mux.HandleFunc("/api/friends", h.listFriends)
}

// healthCheck reports a simple status for container health checks.
func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
