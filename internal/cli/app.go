package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/roomread"
	"github.com/aretw0/roomread/internal/config"
	"github.com/aretw0/roomread/pkg/adapters/file"
	"github.com/aretw0/roomread/pkg/adapters/memory"
	"github.com/aretw0/roomread/pkg/adapters/redis"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/observability"
	"github.com/aretw0/roomread/pkg/ports"
)

// Environment is an App built from configuration, plus the resources it holds open.
type Environment struct {
	App     *roomread.App
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.Metrics

	close func() error
}

// Close releases the session store connection, if any.
func (e *Environment) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}

// SessionBackend is a session store and its optional distributed locker.
type SessionBackend struct {
	Store  ports.SessionStore
	Locker ports.DistributedLocker
	Close  func() error
}

// OpenSessionStore creates the session store selected by cfg.Session.Store.
// A redis store is pinged before it is returned.
func OpenSessionStore(ctx context.Context, cfg *config.Config) (*SessionBackend, error) {
	nop := func() error { return nil }
	switch cfg.Session.Store {
	case config.StoreMemory:
		return &SessionBackend{Store: memory.NewStore(), Close: nop}, nil
	case config.StoreFile:
		return &SessionBackend{Store: file.NewStore(cfg.Session.Dir), Close: nop}, nil
	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.Session.TTL),
			redis.WithPrefix(cfg.Redis.Prefix),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		return &SessionBackend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), store.Prefix()),
			Close:  store.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

// NewEnvironment wires an App from cfg. Lifecycle events are logged at debug
// level and counted by a fresh metrics registry; extra hooks run after both.
func NewEnvironment(ctx context.Context, cfg *config.Config, logger *slog.Logger, extra ...domain.LifecycleHooks) (*Environment, error) {
	backend, err := OpenSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewMetrics()
	hooks := observability.Compose(append([]domain.LifecycleHooks{
		observability.LogHooks(logger),
		metrics.Hooks(),
	}, extra...)...)

	opts := []roomread.Option{
		roomread.WithLogger(logger),
		roomread.WithLifecycleHooks(hooks),
		roomread.WithSessionStore(backend.Store),
	}
	if cfg.Data.LessonsDir != "" {
		opts = append(opts, roomread.WithLessonsDir(cfg.Data.LessonsDir))
	}
	if backend.Locker != nil {
		opts = append(opts, roomread.WithLocker(backend.Locker, cfg.Session.LockTTL))
	}

	app, err := roomread.New(cfg.Data.QuestionsDir, opts...)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("error initializing roomread: %w", err)
	}

	logger.Debug("environment ready",
		"data", cfg.Data.QuestionsDir,
		"store", cfg.Session.Store,
		"lessons", app.Lessons() != nil,
	)
	return &Environment{
		App:     app,
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		close:   backend.Close,
	}, nil
}
