package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/roomread/internal/cli"
	"github.com/aretw0/roomread/internal/config"
	"github.com/aretw0/roomread/internal/logging"
	"github.com/aretw0/roomread/internal/testutils"
	"github.com/aretw0/roomread/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		"france.json": testutils.FranceQuestions,
		"lessons/france/greetings-gestures/beginner.md": testutils.GreetingsLesson,
	})
	return &config.Config{
		HTTP: config.HTTP{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
		Data: config.Data{QuestionsDir: dir},
		Session: config.Session{
			Store:   store,
			Dir:     filepath.Join(t.TempDir(), "sessions"),
			TTL:     time.Hour,
			LockTTL: time.Second,
		},
		Redis: config.Redis{Prefix: "roomread:test:"},
		Auth:  config.Auth{UserHeader: "X-User", NameHeader: "X-Name"},
		Log:   config.Log{Level: "debug"},
		MCP:   config.MCP{Transport: "stdio"},
	}
}

func newEnv(t *testing.T, cfg *config.Config) *cli.Environment {
	t.Helper()
	env, err := cli.NewEnvironment(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

var diningQuiz = domain.ContentKey{Country: "france", Category: "dining-etiquette", Mode: domain.ModeQuiz}

func TestNewEnvironment_Stores(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, store := range []string{config.StoreMemory, config.StoreFile, config.StoreRedis} {
		t.Run(store, func(t *testing.T) {
			cfg := testConfig(t, store)
			cfg.Redis.Addr = mr.Addr()
			env := newEnv(t, cfg)
			require.NotNil(t, env.App.Lessons())

			ctx := context.Background()
			state, err := env.App.Start(ctx, "s1", diningQuiz, "")
			require.NoError(t, err)
			assert.Equal(t, domain.PhaseReady, state.Phase)

			ids, err := env.App.Sessions().List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"s1"}, ids)
		})
	}
}

func TestNewEnvironment_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, config.StoreRedis)
	cfg.Redis.Addr = mr.Addr()
	mr.Close()

	_, err := cli.NewEnvironment(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "redis unreachable")
}

func TestNewEnvironment_ExtraHooks(t *testing.T) {
	var loaded []domain.ContentKey
	env, err := cli.NewEnvironment(context.Background(), testConfig(t, config.StoreMemory), logging.NewNop(),
		domain.LifecycleHooks{OnLoad: func(_ context.Context, e *domain.StepEvent) { loaded = append(loaded, e.Key) }},
	)
	require.NoError(t, err)
	defer env.Close()

	_, err = env.App.Start(context.Background(), "", diningQuiz, "")
	require.NoError(t, err)
	assert.Equal(t, []domain.ContentKey{diningQuiz}, loaded)
}

func TestPlay_CompletesAndCleansUp(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreFile))
	var out bytes.Buffer

	err := cli.Play(context.Background(), env, cli.PlayOptions{Key: diningQuiz, SessionID: "play-1", Completed: "dress-codes"},
		strings.NewReader("b\n\na\n\n"), &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Category Complete!")
	assert.Contains(t, text, ">>> Progress: --completed dining-etiquette,dress-codes")

	ids, err := env.App.Sessions().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPlay_QuitKeepsSession(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreFile))
	var out bytes.Buffer

	err := cli.Play(context.Background(), env, cli.PlayOptions{Key: diningQuiz, SessionID: "play-2"}, strings.NewReader("q\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), ">>> Session 'play-2' left at step 1 of 2.")

	state, err := env.App.Sessions().Get(context.Background(), "play-2")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, state.Phase)
}

func TestPlay_Unavailable(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreMemory))
	var out bytes.Buffer

	key := domain.ContentKey{Country: "france", Category: "dress-codes", Mode: domain.ModeQuiz}
	err := cli.Play(context.Background(), env, cli.PlayOptions{Key: key, Quiet: true}, strings.NewReader(""), &out)
	assert.ErrorIs(t, err, domain.ErrContentNotFound)
}

func TestPlay_JSON(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreMemory))
	var out bytes.Buffer

	err := cli.Play(context.Background(), env, cli.PlayOptions{Key: diningQuiz, JSON: true}, strings.NewReader("\"q\"\n"), &out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &view))
	assert.Equal(t, "ready", view["phase"])
}

func TestOutline(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreMemory))
	ctx := context.Background()

	entries, err := cli.Outline(ctx, env.App, "france")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "dining-etiquette", entries[0].Key.Category)
	assert.Equal(t, 2, entries[0].Questions)
	assert.Equal(t, "greetings-gestures", entries[1].Key.Category)
	assert.Equal(t, domain.ModeQuiz, entries[1].Key.Mode)
	assert.Equal(t, domain.ModeLesson, entries[2].Key.Mode)
	assert.Equal(t, "Greetings in France", entries[2].Title)
	assert.Equal(t, 2, entries[2].Blocks)

	var buf bytes.Buffer
	require.NoError(t, cli.PrintOutline(&buf, entries))
	assert.Contains(t, buf.String(), "lesson")
	assert.Contains(t, buf.String(), "beginner")

	_, err = cli.Outline(ctx, env.App, "atlantis")
	assert.ErrorIs(t, err, domain.ErrUnknownCountry)
}

func TestOutlineGraph(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreMemory))
	ctx := context.Background()

	lesson := domain.ContentKey{Country: "france", Category: "greetings-gestures", Mode: domain.ModeLesson, Tier: domain.DefaultTier}
	chart, err := cli.OutlineGraph(ctx, env.App, lesson, nil)
	require.NoError(t, err)
	assert.Contains(t, chart, "title: Greetings in France")
	assert.NotContains(t, chart, "classDef")

	state, err := env.App.Start(ctx, "g", lesson, "")
	require.NoError(t, err)
	state, err = env.App.Advance(ctx, "g")
	require.NoError(t, err)

	chart, err = cli.OutlineGraph(ctx, env.App, lesson, state)
	require.NoError(t, err)
	assert.Contains(t, chart, "class b1 visited;")
	assert.Contains(t, chart, "class b2 current;")
}

func TestSessions_ListAndWrite(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreFile))
	ctx := context.Background()
	store := env.App.Sessions().Store()

	var buf bytes.Buffer
	require.NoError(t, cli.PrintSessions(&buf, nil))
	assert.Contains(t, buf.String(), "No active sessions found.")

	_, err := env.App.Start(ctx, "s1", diningQuiz, "")
	require.NoError(t, err)

	sessions, err := cli.ListSessions(ctx, store)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 2, sessions[0].Total)

	buf.Reset()
	require.NoError(t, cli.PrintSessions(&buf, sessions))
	assert.Contains(t, buf.String(), "france/dining-etiquette/quiz")
	assert.Contains(t, buf.String(), "1/2")

	state, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, cli.WriteState(&buf, state, false))
	assert.Contains(t, buf.String(), `"session_id": "s1"`)

	buf.Reset()
	require.NoError(t, cli.WriteState(&buf, state, true))
	assert.Contains(t, buf.String(), "session_id: s1")
	assert.Contains(t, buf.String(), "type: question")
}

func TestServeListener(t *testing.T) {
	env := newEnv(t, testConfig(t, config.StoreMemory))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cli.ServeListener(ctx, env, ln) }()

	base := "http://" + ln.Addr().String()
	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/api/countries")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "identity header configured as X-User")

	req, err := http.NewRequest(http.MethodGet, base+"/api/countries", nil)
	require.NoError(t, err)
	req.Header.Set("X-User", "ana")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
