package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/tallyhq/scorekeep/internal/dependencies/clock"
	"github.com/tallyhq/scorekeep/internal/dependencies/identity"
	"github.com/tallyhq/scorekeep/internal/services/tracker"
	"github.com/tallyhq/scorekeep/internal/storage"
	"github.com/tallyhq/scorekeep/internal/storage/bucket"
	"github.com/tallyhq/scorekeep/internal/storage/local"
	"github.com/tallyhq/scorekeep/internal/storage/memory"
	redisstorage "github.com/tallyhq/scorekeep/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeLocal  = "local"
	StorageTypeRedis  = "redis"
	StorageTypeBucket = "bucket"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   identity.Generator

	// Services
	Tracker *tracker.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// DataDir is the directory for local file storage (required if StorageType is "local")
	DataDir string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BucketConfig holds bucket storage settings (required if StorageType is "bucket")
	BucketConfig *bucket.Config
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
	case StorageTypeLocal:
		if cfg.DataDir == "" {
			return nil, errors.New("DataDir required when StorageType is local")
		}
		localStore, err := local.New(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		store = localStore
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeBucket:
		if cfg.BucketConfig == nil {
			return nil, errors.New("BucketConfig required when StorageType is bucket")
		}
		bucketStore, err := bucket.New(context.Background(), *cfg.BucketConfig)
		if err != nil {
			return nil, err
		}
		store = bucketStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'local', 'redis' or 'bucket'")
	}

	// Create external dependencies
	clk := clock.New()
	ids := identity.New()

	return newWithDependencies(store, clk, ids, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids identity.Generator, logger *slog.Logger) *App {
	trackerService := tracker.New(store, clk, ids, logger)

	return &App{
		Storage: store,
		Clock:   clk,
		IDs:     ids,
		Tracker: trackerService,
	}
}
