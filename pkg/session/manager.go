package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/roomread/internal/logging"
	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager runs learning sessions on top of a session store.
// Every operation on a session ID is serialized; content loads run in the
// background and are applied only if the session was not restarted meanwhile.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store   ports.SessionStore
	content ports.ContentStore
	engine  *runtime.Engine

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithEngine replaces the default engine, typically to attach lifecycle hooks.
func WithEngine(engine *runtime.Engine) Option {
	return func(m *Manager) {
		m.engine = engine
	}
}

// WithIDGenerator replaces the UUID generator used when Start gets no session ID.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a Manager.
func NewManager(store ports.SessionStore, content ports.ContentStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		content: content,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.engine == nil {
		m.engine = runtime.NewEngine(runtime.WithLogger(m.logger))
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// Start opens a session for key, replacing any session with the same ID.
// An empty sessionID gets a fresh UUID. The returned state is in the loading
// phase; the channel is closed once the background load has been applied or discarded.
func (m *Manager) Start(ctx context.Context, sessionID string, key domain.ContentKey, completed string) (*domain.RunnerState, <-chan struct{}, error) {
	if sessionID == "" {
		sessionID = m.newID()
	}
	if key.Mode == "" {
		key.Mode = domain.ModeQuiz
	}
	if key.Mode == domain.ModeLesson && key.Tier == "" {
		key.Tier = domain.DefaultTier
	}

	var state *domain.RunnerState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var generation uint64 = 1
		prev, err := m.store.Load(ctx, sessionID)
		switch {
		case err == nil:
			generation = prev.Generation + 1
		case !errors.Is(err, domain.ErrSessionNotFound):
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		state = m.engine.Start(ctx, sessionID, generation, key, completed)
		state.LoadToken = uuid.NewString()
		if err := m.store.Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	done := make(chan struct{})
	bg := context.WithoutCancel(ctx)
	results := runtime.Fetch(bg, m.content, runtime.TicketFor(state), key)
	go func() {
		defer close(done)
		m.apply(bg, <-results)
	}()

	return state.Snapshot(), done, nil
}

// apply installs a load result under the session lock.
func (m *Manager) apply(ctx context.Context, res runtime.LoadResult) {
	sessionID := res.Ticket.SessionID
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.logger.DebugContext(ctx, "session left before load finished", "session_id", sessionID)
			return nil
		}
		if err != nil {
			return err
		}

		next, applied, err := m.engine.Apply(ctx, state, res)
		if err != nil || !applied {
			return err
		}
		return m.store.Save(ctx, sessionID, next)
	})
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to apply content load", "session_id", sessionID, "err", err)
	}
}

// StartAndWait starts a session and blocks until its content load settles.
func (m *Manager) StartAndWait(ctx context.Context, sessionID string, key domain.ContentKey, completed string) (*domain.RunnerState, error) {
	state, done, err := m.Start(ctx, sessionID, key, completed)
	if err != nil {
		return nil, err
	}
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return m.Get(ctx, state.SessionID)
}

// Get returns the current state of a session.
func (m *Manager) Get(ctx context.Context, sessionID string) (*domain.RunnerState, error) {
	var state *domain.RunnerState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// Select answers the current question of a session.
// Rejected selections leave the stored session untouched.
func (m *Manager) Select(ctx context.Context, sessionID string, option int) (*domain.RunnerState, runtime.Outcome, error) {
	var (
		next    *domain.RunnerState
		outcome runtime.Outcome
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		next, outcome, err = m.engine.Select(ctx, state, option)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, sessionID, next)
	})
	if err != nil {
		return nil, runtime.Outcome{}, err
	}
	return next, outcome, nil
}

// Advance moves a session past its current block.
func (m *Manager) Advance(ctx context.Context, sessionID string) (*domain.RunnerState, error) {
	var next *domain.RunnerState
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		next, err = m.engine.Advance(ctx, state)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, sessionID, next)
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Delete drops a session. A load still in flight for it is discarded.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// Engine returns the runner engine.
func (m *Manager) Engine() *runtime.Engine {
	return m.engine
}
