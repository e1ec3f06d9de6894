package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/middleware"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger     *slog.Logger
	GameSocket http.Handler
}

// NewRouter creates the router: the game websocket endpoint and the health
// check, both behind recovery and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Handle("/api/game", cfg.GameSocket).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
