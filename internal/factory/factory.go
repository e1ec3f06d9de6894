// Package factory wires the application's components together.
package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/clock"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/ident"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/dependencies/random"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/identity"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/deck"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/relay"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/services/setup"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/storage"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/storage/memory"
	redisstorage "github.com/Rustywolf/digimon-tcg-simulator/internal/storage/redis"
	"github.com/Rustywolf/digimon-tcg-simulator/internal/transport"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Ident  ident.Generator

	// Services
	Registry    *transport.Registry
	Encoder     *deck.Encoder
	Coordinator *setup.Coordinator
	Dispatcher  *relay.Dispatcher
	Heartbeat   *transport.Heartbeat

	// GameSocket is the HTTP handler for the game websocket endpoint
	GameSocket *transport.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// HeartbeatPeriod is how often liveness frames go out (optional)
	HeartbeatPeriod time.Duration
	// ChunkSize caps the character count of deck distribution chunks (optional)
	ChunkSize int
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()
	gen := ident.New()

	return newWithDependencies(store, clk, rnd, gen, cfg.HeartbeatPeriod, cfg.ChunkSize, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, gen ident.Generator, heartbeatPeriod time.Duration, chunkSize int, logger *slog.Logger) *App {
	encoder := deck.NewEncoder(rnd, gen, chunkSize)
	registry := transport.NewRegistry(rnd, clk, logger)
	coordinator := setup.NewCoordinator(registry, store, encoder, logger)
	dispatcher := relay.NewDispatcher(registry, coordinator, logger)
	heartbeat := transport.NewHeartbeat(registry, heartbeatPeriod, logger)
	gameSocket := transport.NewHandler(dispatcher, identity.NewRequestResolver(), clk, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Ident:       gen,
		Registry:    registry,
		Encoder:     encoder,
		Coordinator: coordinator,
		Dispatcher:  dispatcher,
		Heartbeat:   heartbeat,
		GameSocket:  gameSocket,
	}
}
