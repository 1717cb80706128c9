package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/beatguessr/beatguessr-go/internal/dependencies/clock"
	"github.com/beatguessr/beatguessr-go/internal/dependencies/random"
	"github.com/beatguessr/beatguessr-go/internal/services/room"
	"github.com/beatguessr/beatguessr-go/internal/services/songs"
	"github.com/beatguessr/beatguessr-go/internal/services/view"
	"github.com/beatguessr/beatguessr-go/internal/storage"
	"github.com/beatguessr/beatguessr-go/internal/storage/memory"
	redisstorage "github.com/beatguessr/beatguessr-go/internal/storage/redis"
	"github.com/beatguessr/beatguessr-go/internal/ws"
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

	// Services
	SongService    *songs.Service
	ViewService    *view.Service
	RoomController *room.Controller
	Janitor        *room.Janitor
	Hub            *ws.Hub
	Dispatcher     *ws.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// SongsPath is the path to the song catalog file (optional)
	// If empty, the catalog must be loaded manually
	SongsPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// RoomTTL is how long an idle room survives before the janitor evicts
	// it. Zero disables eviction.
	RoomTTL time.Duration
	// SweepInterval is how often the janitor scans for idle rooms
	// If zero, defaults to room.DefaultSweepInterval
	SweepInterval time.Duration
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

	app := newWithDependencies(store, clk, rnd, logger, cfg.RoomTTL, cfg.SweepInterval)

	if cfg.SongsPath != "" {
		if err := app.SongService.LoadFromFile(context.Background(), cfg.SongsPath); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger, roomTTL, sweepInterval time.Duration) *App {
	songService := songs.New(store, rnd, logger)
	viewService := view.New()
	roomController := room.NewController(store, songService, clk, rnd, logger)
	janitor := room.NewJanitor(roomController, clk, roomTTL, sweepInterval, logger)
	hub := ws.NewHub(logger)
	dispatcher := ws.NewDispatcher(roomController, viewService, hub, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		SongService:    songService,
		ViewService:    viewService,
		RoomController: roomController,
		Janitor:        janitor,
		Hub:            hub,
		Dispatcher:     dispatcher,
	}
}
