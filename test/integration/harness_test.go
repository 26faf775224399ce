//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/adapters/clients/acl"
	apihttp "github.com/jsamuelsen/quote-sync/internal/adapters/http"
	"github.com/jsamuelsen/quote-sync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type post struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// postsServer stands in for the JSONPlaceholder /posts API.
// GET returns the configured posts; POST records the body and answers 201.
type postsServer struct {
	*httptest.Server

	mu        sync.Mutex
	posts     []post
	submitted []map[string]any
	headers   http.Header

	// failures is the number of upcoming requests answered with 503; negative means all.
	failures atomic.Int32
	delay    atomic.Int64
	gets     atomic.Int32
}

func newPostsServer(t *testing.T, posts ...post) *postsServer {
	t.Helper()

	s := &postsServer{posts: posts}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

func (s *postsServer) serve(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/posts" {
		http.NotFound(w, r)
		return
	}

	if n := s.failures.Load(); n != 0 {
		if n > 0 {
			s.failures.Add(-1)
		}

		w.WriteHeader(http.StatusServiceUnavailable)

		return
	}

	switch r.Method {
	case http.MethodGet:
		s.gets.Add(1)

		if d := time.Duration(s.delay.Load()); d > 0 {
			time.Sleep(d)
		}

		s.mu.Lock()
		s.headers = r.Header.Clone()
		posts := append([]post(nil), s.posts...)
		s.mu.Unlock()

		if limit, err := strconv.Atoi(r.URL.Query().Get("_limit")); err == nil && limit < len(posts) {
			posts = posts[:limit]
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(posts)

	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)

		var submitted map[string]any
		_ = json.Unmarshal(body, &submitted)

		s.mu.Lock()
		s.submitted = append(s.submitted, submitted)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":101}`))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *postsServer) setPosts(posts ...post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = posts
}

func (s *postsServer) submissions() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.submitted)
}

func (s *postsServer) lastHeaders() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.headers
}

// stack is the service wired the way cmd/service wires it, minus the listener.
type stack struct {
	store  storage.Store
	state  *app.State
	client *clients.Client
	posts  *acl.PostsSource
	quotes *app.QuoteService
	syncer *app.SyncService
	health *ports.DefaultHealthRegistry
	router *gin.Engine
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "posts",
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
		Logger: discardLogger(),
	}
}

func newStack(t *testing.T, remoteURL string, store storage.Store) *stack {
	t.Helper()

	logger := discardLogger()

	client, err := clients.New(testClientConfig(remoteURL))
	require.NoError(t, err)

	posts := acl.NewPostsSource(acl.PostsSourceConfig{Client: client, Logger: logger})

	health := ports.NewHealthRegistry()
	require.NoError(t, health.Register(store))
	require.NoError(t, health.RegisterOptional(posts))

	state := app.NewState(storage.NewRepository(store, logger))
	quotes := app.NewQuoteService(app.QuoteServiceConfig{State: state, Logger: logger})

	_, err = quotes.Load(context.Background())
	require.NoError(t, err)

	syncer := app.NewSyncService(app.SyncServiceConfig{
		State:    state,
		Remote:   posts,
		Interval: time.Minute,
		Logger:   logger,
	})

	router := gin.New()
	apihttp.SetupRouter(router, apihttp.NewDefaultRouterConfig(
		logger,
		&config.AppConfig{Name: "quote-sync-integration", Environment: "test", Version: "test"},
		handlers.NewHealthHandler(health, handlers.BuildInfo{Version: "test"}),
		handlers.NewQuoteHandler(quotes),
		handlers.NewSyncHandler(syncer),
	))

	return &stack{
		store:  store,
		state:  state,
		client: client,
		posts:  posts,
		quotes: quotes,
		syncer: syncer,
		health: health,
		router: router,
	}
}
