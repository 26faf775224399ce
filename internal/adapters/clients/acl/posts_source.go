package acl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

const (
	postsPath = "/posts"

	// DefaultFetchLimit is the number of posts requested per fetch.
	DefaultFetchLimit = 8

	// maxAgeSkew bounds how far in the past a fetched record's timestamp is placed.
	maxAgeSkew = 60 * time.Second
)

// PostsSourceConfig configures a PostsSource.
type PostsSourceConfig struct {
	// Client is the instrumented HTTP client pointed at the posts API.
	Client *clients.Client

	// Name identifies the source in errors and health output. Defaults to the client's service name.
	Name string

	// FetchLimit caps the number of posts requested. Defaults to DefaultFetchLimit.
	FetchLimit int

	Logger *slog.Logger
}

// post is the remote DTO. Only the fields the quote domain uses are decoded.
type post struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	UserID int    `json:"userId,omitempty"`
}

// PostsSource implements ports.RemoteQuoteSource over a JSONPlaceholder-style posts API.
type PostsSource struct {
	BaseAdapter
	client     *clients.Client
	fetchLimit int
	logger     *slog.Logger

	now  func() time.Time
	skew func() time.Duration
}

var (
	_ ports.RemoteQuoteSource = (*PostsSource)(nil)
	_ ports.HealthChecker     = (*PostsSource)(nil)
)

// NewPostsSource creates a posts source adapter.
// Panics if Client is nil.
func NewPostsSource(cfg PostsSourceConfig) *PostsSource {
	if cfg.Client == nil {
		panic("PostsSource: Client is required")
	}

	name := cfg.Name
	if name == "" {
		name = cfg.Client.ServiceName()
	}

	limit := cfg.FetchLimit
	if limit <= 0 {
		limit = DefaultFetchLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PostsSource{
		BaseAdapter: NewBaseAdapter(cfg.Client, name),
		client:      cfg.Client,
		fetchLimit:  limit,
		logger:      logger.With(slog.String("component", "posts_source")),
		now:         time.Now,
		skew: func() time.Duration {
			return time.Duration(rand.Int64N(int64(maxAgeSkew))) //nolint:gosec // simulated age, not security sensitive
		},
	}
}

// FetchRecent returns the most recent posts as server quotes.
func (s *PostsSource) FetchRecent(ctx context.Context) ([]domain.Quote, error) {
	path := postsPath + "?" + url.Values{"_limit": {strconv.Itoa(s.fetchLimit)}}.Encode()
	s.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	body, err := s.Get(ctx, path, "fetch posts")
	if err != nil {
		return nil, err
	}

	posts, err := DecodeResponseForService[[]post](body, s.ServiceName())
	if err != nil {
		return nil, err
	}

	now := s.now()
	quotes := TranslateSlice(*posts, func(p *post) (domain.Quote, bool) {
		return s.translate(p, now)
	})

	s.logger.DebugContext(ctx, "fetched posts",
		slog.Int("received", len(*posts)),
		slog.Int("quotes", len(quotes)),
	)

	return quotes, nil
}

func (s *PostsSource) translate(p *post, now time.Time) (domain.Quote, bool) {
	text := strings.Join(strings.Fields(p.Title), " ")
	if text == "" {
		return domain.Quote{}, false
	}

	return domain.Quote{
		ID:        "server-" + strconv.Itoa(p.ID),
		Text:      text,
		Category:  domain.ServerCategory,
		Source:    domain.SourceServer,
		UpdatedAt: domain.TruncateMillis(now.Add(-s.skew())),
	}, true
}

// Submit posts a quote. The remote acknowledges but does not persist it.
func (s *PostsSource) Submit(ctx context.Context, q domain.Quote) error {
	body, err := s.PostJSON(ctx, postsPath, q, "submit quote")
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()

	s.logger.Log(ctx, logging.LevelTrace, "submitted quote", slog.String("quote_id", q.ID))

	return nil
}

// Name implements ports.HealthChecker.
func (s *PostsSource) Name() string {
	return s.ServiceName()
}

// Check implements ports.HealthChecker. An open circuit fails without a request.
func (s *PostsSource) Check(ctx context.Context) error {
	if status := s.client.CircuitStatus(); status.State == clients.StateOpen {
		return fmt.Errorf("%s: %w", s.ServiceName(), clients.ErrCircuitOpen)
	}

	body, err := s.Get(ctx, postsPath+"?_limit=1", "health check")
	if err != nil {
		return err
	}

	_, _ = io.Copy(io.Discard, body)
	if err := body.Close(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing health response: %w", err)
	}

	return nil
}
