package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"telegram-trading-bot/logger"
)

// Health exposes the liveness endpoints hosting platforms poll to keep the
// bot process alive.
type Health struct {
	started time.Time
}

func NewHealth() *Health {
	return &Health{started: time.Now()}
}

func (h *Health) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.root)
	r.Get("/healthz", h.healthz)
	return r
}

func (h *Health) root(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "Bot is running")
}

func (h *Health) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// ListenAndServe blocks serving the health endpoints; run it in a goroutine.
func ListenAndServe(port int) {
	h := NewHealth()
	addr := fmt.Sprintf(":%d", port)
	logger.Info().Str("addr", addr).Msg("health server listening")
	if err := http.ListenAndServe(addr, h.Router()); err != nil {
		logger.Error().Err(err).Msg("health server stopped")
	}
}
