package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/protocol"
)

// DefaultHeartbeatPeriod is how often liveness frames go out to every room.
const DefaultHeartbeatPeriod = 7 * time.Second

// Heartbeat periodically broadcasts a liveness frame to every member of
// every room. Delivery uses the non-blocking per-connection queues, so a
// stalled connection cannot delay anyone else's heartbeat.
type Heartbeat struct {
	registry *Registry
	period   time.Duration
	logger   *slog.Logger
}

// NewHeartbeat creates a Heartbeat. period <= 0 selects the default.
func NewHeartbeat(registry *Registry, period time.Duration, logger *slog.Logger) *Heartbeat {
	if period <= 0 {
		period = DefaultHeartbeatPeriod
	}
	return &Heartbeat{
		registry: registry,
		period:   period,
		logger:   logger.With(slog.String("component", "heartbeat")),
	}
}

// Run broadcasts until the context is cancelled.
func (h *Heartbeat) Run(ctx context.Context) {
	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	h.logger.Info("heartbeat started", slog.Duration("period", h.period))
	for {
		select {
		case <-ticker.C:
			h.pulse()
		case <-ctx.Done():
			h.logger.Info("heartbeat stopped")
			return
		}
	}
}

func (h *Heartbeat) pulse() {
	for _, conn := range h.registry.Connections() {
		conn.Send(protocol.TagHeartbeat)
	}
}
