package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/mcoot/pinochle-score/internal/api/sse"
	"github.com/mcoot/pinochle-score/internal/dependencies/clock"
	"github.com/mcoot/pinochle-score/internal/dependencies/random"
	"github.com/mcoot/pinochle-score/internal/metrics"
	"github.com/mcoot/pinochle-score/internal/services/game"
	"github.com/mcoot/pinochle-score/internal/storage"
	"github.com/mcoot/pinochle-score/internal/storage/memory"
	redisstorage "github.com/mcoot/pinochle-score/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// TracerName is the instrumentation name for application spans
const TracerName = "github.com/mcoot/pinochle-score"

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Observability
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	// Services
	GameController *game.Controller
	HubManager     *sse.HubManager

	closers []io.Closer
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
	// Tracer creates operation spans (optional)
	// If nil, the global otel tracer provider is used
	Tracer trace.Tracer
	// Registry receives application metrics (optional)
	// If nil, a fresh registry is created
	Registry *prometheus.Registry
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	var closers []io.Closer
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
		closers = append(closers, redisStore)
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}

	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	app := newWithDependencies(store, clock.New(), random.New(), reg, tracer, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	reg *prometheus.Registry,
	tracer trace.Tracer,
	logger *slog.Logger,
) *App {
	m := metrics.New(reg)
	gameController := game.NewController(store, clk, rnd, m, tracer, logger)
	hubManager := sse.NewHubManager(logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Metrics:        m,
		Registry:       reg,
		GameController: gameController,
		HubManager:     hubManager,
	}
}

// Close disconnects event streams and releases storage connections
func (a *App) Close() error {
	a.HubManager.Close()

	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
