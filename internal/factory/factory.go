package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/ludorg/gamenight/internal/dependencies/clock"
	"github.com/ludorg/gamenight/internal/dependencies/random"
	"github.com/ludorg/gamenight/internal/services/admin"
	"github.com/ludorg/gamenight/internal/services/auth"
	"github.com/ludorg/gamenight/internal/services/catalog"
	"github.com/ludorg/gamenight/internal/services/events"
	"github.com/ludorg/gamenight/internal/services/roles"
	"github.com/ludorg/gamenight/internal/services/tables"
	"github.com/ludorg/gamenight/internal/services/visibility"
	"github.com/ludorg/gamenight/internal/storage"
	"github.com/ludorg/gamenight/internal/storage/memory"
	redisstorage "github.com/ludorg/gamenight/internal/storage/redis"
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

	// Policies
	RolePolicy       *roles.Service
	VisibilityPolicy *visibility.Service

	// Services
	EventController   *events.Controller
	TableController   *tables.Controller
	CatalogController *catalog.Controller
	AuthService       *auth.Service
	AdminService      *admin.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
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

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return NewWithDependencies(store, clk, rnd, authCfg, logger), nil
}

// NewWithDependencies creates an App with the given dependencies (useful for testing)
func NewWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	rolePolicy := roles.New()
	visibilityPolicy := visibility.New(rolePolicy)

	eventController := events.NewController(store, visibilityPolicy, rolePolicy, clk, rnd, logger)
	tableController := tables.NewController(store, rolePolicy, clk, rnd)
	catalogController := catalog.NewController(store, rolePolicy, clk, rnd)
	authService := auth.New(store, clk, authCfg)
	adminService := admin.New(store, rolePolicy, eventController, authService, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		RolePolicy:        rolePolicy,
		VisibilityPolicy:  visibilityPolicy,
		EventController:   eventController,
		TableController:   tableController,
		CatalogController: catalogController,
		AuthService:       authService,
		AdminService:      adminService,
	}
}
