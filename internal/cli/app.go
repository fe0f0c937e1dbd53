// Package cli implements the fanfund command line client.
package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/config"
	"github.com/spec-kit/fanfund/internal/kv"
	"github.com/spec-kit/fanfund/internal/output"
	"github.com/spec-kit/fanfund/internal/platform"
	"github.com/spec-kit/fanfund/internal/querycache"
	"github.com/spec-kit/fanfund/internal/session"
)

const sessionHash = "fanfund:client:sessions"

// App is everything a command needs. Commands never build their own dependencies.
type App struct {
	Config  config.ClientConfig
	API     *platform.Client
	User    *session.Store
	Admin   *session.Store
	Cache   *querycache.Cache
	Printer *output.Printer
	Logger  *zap.Logger
}

// Storage holds the slots for both actor spaces.
type Storage struct {
	User  kv.Storage
	Admin kv.Storage
}

// NewApp wires the stores, the cache and the platform client over storage.
func NewApp(cfg config.ClientConfig, api *platform.Client, storage Storage, printer *output.Printer, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := querycache.New(cfg.CacheSize, cfg.CacheTTL)
	nav := &hintNavigator{printer: printer}

	return &App{
		Config: cfg,
		API:    api,
		User: session.NewStore(session.UserSpace, storage.User, api,
			session.WithLogger(logger), session.WithNavigator(nav), session.WithInvalidator(cache)),
		Admin: session.NewStore(session.AdminSpace, storage.Admin, api,
			session.WithLogger(logger), session.WithNavigator(nav), session.WithInvalidator(cache)),
		Cache:   cache,
		Printer: printer,
		Logger:  logger,
	}
}

// OpenStorage picks the configured backend for the user slot. The admin slot always
// lives in a file bound to the launching terminal session.
func OpenStorage(ctx context.Context, cfg config.ClientConfig, redisCfg config.RedisConfig) (Storage, func() error, error) {
	admin := kv.NewSessionFile("admin")
	switch cfg.StorageBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     redisCfg.Addr,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return Storage{}, nil, fmt.Errorf("connect redis %s: %w", redisCfg.Addr, err)
		}
		return Storage{User: kv.NewRedis(client, sessionHash), Admin: admin}, client.Close, nil
	default:
		return Storage{User: kv.NewFile(filepath.Join(cfg.StateDir, "session.json")), Admin: admin}, func() error { return nil }, nil
	}
}

// hintNavigator is the terminal's version of a redirect: it tells the user where to go.
type hintNavigator struct {
	printer *output.Printer
}

func (n *hintNavigator) Redirect(path string) {
	n.printer.Warning("Sign in with '%s'.", loginCommand(path))
}

func loginCommand(path string) string {
	if path == session.AdminSpace.LoginPath {
		return "fanfund admin login"
	}
	return "fanfund login"
}
