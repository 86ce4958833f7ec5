package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/umaimaes/AgroTrace-MS/internal/config"
	"github.com/umaimaes/AgroTrace-MS/internal/logger"
	"github.com/umaimaes/AgroTrace-MS/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth   service.AuthService
	cfg    *config.Config
	health Pinger
	ai     *http.Client
}

func New(auth service.AuthService, cfg *config.Config, health Pinger) *Handler {
	return &Handler{
		auth:   auth,
		cfg:    cfg,
		health: health,
		ai:     &http.Client{Timeout: 60 * time.Second},
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
