package roomread

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/roomread/internal/logging"
	"github.com/aretw0/roomread/internal/runtime"
	"github.com/aretw0/roomread/pkg/adapters"
	"github.com/aretw0/roomread/pkg/adapters/file"
	loamAdapter "github.com/aretw0/roomread/pkg/adapters/loam"
	"github.com/aretw0/roomread/pkg/adapters/memory"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/aretw0/roomread/pkg/ports"
	"github.com/aretw0/roomread/pkg/session"
)

// LessonsDirName is the default lessons directory inside the data directory.
const LessonsDirName = "lessons"

// App is the high-level entry point: content stores, runner engine and
// session manager wired together.
type App struct {
	sessions *session.Manager
	content  ports.ContentStore
	quiz     *file.QuestionStore
	lessons  *loamAdapter.LessonStore

	lessonsDir string
	store      ports.SessionStore
	locker     ports.DistributedLocker
	lockTTL    time.Duration
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	Name       string
}

// Option defines a functional option for configuring the App.
type Option func(*App)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *App) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithContentStore injects a content store, bypassing the file and loam adapters.
func WithContentStore(store ports.ContentStore) Option {
	return func(a *App) {
		a.content = store
	}
}

// WithLessonsDir overrides where lesson documents are read from.
func WithLessonsDir(dir string) Option {
	return func(a *App) {
		a.lessonsDir = dir
	}
}

// WithSessionStore sets where runner sessions are kept. Defaults to memory.
func WithSessionStore(store ports.SessionStore) Option {
	return func(a *App) {
		a.store = store
	}
}

// WithLocker adds a distributed lock around session operations.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(a *App) {
		a.locker = locker
		a.lockTTL = ttl
	}
}

// New wires an App. Quiz questions are read from dataDir; lessons from
// dataDir/lessons unless WithLessonsDir says otherwise. A missing lessons
// directory leaves lesson mode without content.
func New(dataDir string, opts ...Option) (*App, error) {
	app := &App{}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = logging.NewNop()
	}
	if app.store == nil {
		app.store = memory.NewStore()
	}

	if app.content == nil {
		if dataDir == "" {
			return nil, fmt.Errorf("dataDir is required when no content store is provided")
		}
		absPath, err := filepath.Abs(dataDir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		app.Name = filepath.Base(absPath)
		app.quiz = file.NewQuestionStore(absPath)

		lessonsDir := app.lessonsDir
		if lessonsDir == "" {
			lessonsDir = filepath.Join(absPath, LessonsDirName)
		}
		var lessonStore ports.ContentStore
		if _, err := os.Stat(lessonsDir); err == nil {
			app.lessons, err = loamAdapter.Open(lessonsDir)
			if err != nil {
				return nil, err
			}
			lessonStore = app.lessons
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read lessons dir: %w", err)
		}
		app.content = adapters.NewRouter(app.quiz, lessonStore)
	} else if dataDir != "" {
		app.Name = filepath.Base(dataDir)
	}

	logger := app.logger
	if app.Name != "" {
		logger = logger.With("content", app.Name)
	}

	engine := runtime.NewEngine(
		runtime.WithLifecycleHooks(app.hooks),
		runtime.WithLogger(logger),
	)
	managerOpts := []session.Option{
		session.WithEngine(engine),
		session.WithLogger(logger),
	}
	if app.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(app.locker), session.WithLockTTL(app.lockTTL))
	}
	app.sessions = session.NewManager(app.store, app.content, managerOpts...)
	return app, nil
}

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager {
	return a.sessions
}

// Content returns the content store sessions load from.
func (a *App) Content() ports.ContentStore {
	return a.content
}

// Questions returns the quiz file store, or nil when content was injected.
func (a *App) Questions() *file.QuestionStore {
	return a.quiz
}

// Lessons returns the lesson store, or nil when no lessons are configured.
func (a *App) Lessons() *loamAdapter.LessonStore {
	return a.lessons
}

// Start opens a session and waits for its content. See session.Manager.StartAndWait.
func (a *App) Start(ctx context.Context, sessionID string, key domain.ContentKey, completed string) (*domain.RunnerState, error) {
	return a.sessions.StartAndWait(ctx, sessionID, key, completed)
}

// Select answers the current question.
func (a *App) Select(ctx context.Context, sessionID string, option int) (*domain.RunnerState, runtime.Outcome, error) {
	return a.sessions.Select(ctx, sessionID, option)
}

// Advance moves past the current block.
func (a *App) Advance(ctx context.Context, sessionID string) (*domain.RunnerState, error) {
	return a.sessions.Advance(ctx, sessionID)
}

// Leave drops a session, discarding any load still in flight.
func (a *App) Leave(ctx context.Context, sessionID string) error {
	return a.sessions.Delete(ctx, sessionID)
}

// View renders a session for display.
func (a *App) View(state *domain.RunnerState) runtime.View {
	return runtime.Render(state)
}
