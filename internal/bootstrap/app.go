package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/cafetec/cafetec-client/config"
	"github.com/cafetec/cafetec-client/internal/adapters/restapi"
	"github.com/cafetec/cafetec-client/internal/adapters/state/filestore"
	"github.com/cafetec/cafetec-client/internal/adapters/state/redisstore"
	"github.com/cafetec/cafetec-client/internal/ports"
	"github.com/cafetec/cafetec-client/internal/service/admin"
	"github.com/cafetec/cafetec-client/internal/service/cart"
	"github.com/cafetec/cafetec-client/internal/service/checkout"
	"github.com/cafetec/cafetec-client/internal/service/dashboard"
	"github.com/cafetec/cafetec-client/internal/service/favorites"
	"github.com/cafetec/cafetec-client/internal/service/guard"
	"github.com/cafetec/cafetec-client/internal/service/postlogin"
	"github.com/cafetec/cafetec-client/internal/service/report"
	"github.com/cafetec/cafetec-client/internal/service/session"
	"github.com/cafetec/cafetec-client/internal/service/tracker"
)

// AppDeps groups dependencies for NewApp.
type AppDeps struct {
	Config    *config.AppConfig
	Navigator ports.Navigator
	Logger    *slog.Logger
}

// App wires the backend client, the state store, and every service on top of
// them. It is the composition root shared by the CLI and by embedders.
type App struct {
	Config *config.AppConfig
	Logger *slog.Logger

	API       *restapi.Client
	Store     ports.StateStore
	Navigator ports.Navigator

	Sessions  *session.Manager
	Cart      *cart.Manager
	Favorites *favorites.Manager
	Checkout  *checkout.Service
	Tracker   *tracker.Tracker
	Dashboard *dashboard.Service
	Report    *report.Service
	Admin     *admin.Service

	redisClient redis.UniversalClient
}

// NewStateStore builds the configured state store backend. The returned
// client is non-nil only for the redis backend; the caller owns closing it.
func NewStateStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (ports.StateStore, redis.UniversalClient, error) {
	switch cfg.Backend {
	case config.StorageBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.InfoContext(ctx, "state store ready", "backend", "redis", "addr", cfg.Redis.Addr)
		return redisstore.New(client, cfg.Redis.Prefix), client, nil
	default:
		store, err := filestore.New(cfg.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file state store: %w", err)
		}
		logger.InfoContext(ctx, "state store ready", "backend", "file")
		return store, nil, nil
	}
}

// NewApp builds the full client application from configuration.
func NewApp(ctx context.Context, deps *AppDeps) (*App, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	store, redisClient, err := NewStateStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	api := restapi.NewClient(restapi.ClientOptions{
		Config: cfg.API,
		Logger: logger,
	})

	sessions := session.NewManager(session.ManagerOptions{
		API:            api,
		Store:          store,
		Logger:         logger,
		RestoreTimeout: cfg.API.RestoreTimeout,
	})
	cartMgr := cart.NewManager(ctx, cart.ManagerOptions{Store: store, Logger: logger})
	favMgr := favorites.NewManager(ctx, favorites.ManagerOptions{Store: store, Logger: logger})

	reportSvc, err := report.NewService(report.ServiceOptions{
		API:    api,
		Config: cfg.Report,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		API:       api,
		Store:     store,
		Navigator: deps.Navigator,
		Sessions:  sessions,
		Cart:      cartMgr,
		Favorites: favMgr,
		Checkout: checkout.NewService(checkout.ServiceOptions{
			API:    api,
			Cart:   cartMgr,
			Tokens: sessions,
			Logger: logger,
		}),
		Tracker: tracker.New(tracker.TrackerOptions{
			API:    api,
			Config: cfg.Tracker,
			Logger: logger,
		}),
		Dashboard: dashboard.NewService(dashboard.ServiceOptions{
			Catalog:   api,
			Orders:    api,
			Favorites: favMgr,
			Logger:    logger,
		}),
		Report: reportSvc,
		Admin: admin.NewService(admin.ServiceOptions{
			API:    api,
			Logger: logger,
		}),
		redisClient: redisClient,
	}, nil
}

// MountRouting attaches the post-login router and both route guards to the
// session. The returned teardown unsubscribes all three.
func (a *App) MountRouting() func() {
	router := postlogin.NewRouter(a.Sessions, a.Navigator, a.Logger)
	admin := guard.NewAdmin(a.Sessions, a.Navigator, a.Logger)
	student := guard.NewStudent(a.Sessions, a.Navigator, a.Logger)
	return func() {
		router.Close()
		admin.Close()
		student.Close()
	}
}

// AdminGuard mounts a fresh guard over the admin subtree.
func (a *App) AdminGuard() *guard.Guard {
	return guard.NewAdmin(a.Sessions, a.Navigator, a.Logger)
}

// StudentGuard mounts a fresh guard over the student subtree.
func (a *App) StudentGuard() *guard.Guard {
	return guard.NewStudent(a.Sessions, a.Navigator, a.Logger)
}

// Close releases infrastructure owned by the app.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			return fmt.Errorf("close redis: %w", err)
		}
	}
	return nil
}
