package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tgilmour/broadside/internal/dependencies/clock"
	"github.com/tgilmour/broadside/internal/push"
	"github.com/tgilmour/broadside/internal/services/registry"
	"github.com/tgilmour/broadside/internal/services/rooms"
	"github.com/tgilmour/broadside/internal/services/session"
	"github.com/tgilmour/broadside/internal/storage"
	"github.com/tgilmour/broadside/internal/storage/memory"
	redisstorage "github.com/tgilmour/broadside/internal/storage/redis"
	"github.com/tgilmour/broadside/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage
	Clock   clock.Clock

	Registry    *registry.Service
	Rooms       *rooms.Service
	Coordinator *session.Coordinator

	// Hub is the websocket client registry; it is also the Sender the
	// coordinator pushes events through
	Hub *ws.Hub
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
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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

	hub := ws.NewHub(logger)
	app := newWithDependencies(store, clock.New(), hub, logger)
	app.Hub = hub
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, sender push.Sender, logger *slog.Logger) *App {
	registryService := registry.New(store, clk, logger)
	roomsService := rooms.New(store, registryService, clk, logger)
	coordinator := session.NewCoordinator(registryService, roomsService, store, sender, logger)

	return &App{
		Storage:     store,
		Clock:       clk,
		Registry:    registryService,
		Rooms:       roomsService,
		Coordinator: coordinator,
	}
}
