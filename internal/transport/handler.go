package transport

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/clock"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/identity"
)

// Handler upgrades HTTP requests to websocket connections and runs their
// read/write pumps.
type Handler struct {
	frames   FrameHandler
	resolver identity.Resolver
	upgrader websocket.Upgrader
	clock    clock.Clock
	logger   *slog.Logger
}

// NewHandler creates a websocket upgrade handler.
func NewHandler(frames FrameHandler, resolver identity.Resolver, clk clock.Clock, logger *slog.Logger) *Handler {
	return &Handler{
		frames:   frames,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The frontend is served from the same origin in production;
				// cross-origin policy is enforced by the reverse proxy.
				return true
			},
		},
		clock:  clk,
		logger: logger.With(slog.String("component", "transport")),
	}
}

// ServeHTTP resolves the connection's identity, upgrades, and blocks on the
// read pump until the connection ends.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := h.resolver.Resolve(r)
	if err != nil {
		http.Error(w, "identity required", http.StatusUnauthorized)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := newWSConn(ws, id, h.clock.Now(), h.logger)
	h.logger.Info("connection established", slog.String("identity", id))

	go conn.writePump()
	conn.readPump(r.Context(), h.frames)
}
