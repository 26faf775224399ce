package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/app"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// RemoteFactory builds the remote source a sync talks to.
type RemoteFactory func(cfg *config.Config, logger *slog.Logger) (ports.RemoteQuoteSource, error)

// cli holds the flags and the services one command invocation works with.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configDir   string
	storeDriver string
	storePath   string
	verbose     bool
	noColor     bool

	newRemote RemoteFactory

	cfg    *config.Config
	logger *slog.Logger
	store  storage.Store
	quotes *app.QuoteService
	syncer *app.SyncService
}

func newCLI(out, errOut io.Writer) *cli {
	return &cli{
		out:       out,
		errOut:    errOut,
		configDir: "configs",
		newRemote: postsRemote,
	}
}

// postsRemote builds the posts source over the instrumented HTTP client.
func postsRemote(cfg *config.Config, logger *slog.Logger) (ports.RemoteQuoteSource, error) {
	client, err := clients.New(&clients.Config{
		BaseURL:     cfg.Remote.BaseURL,
		ServiceName: cfg.Remote.Name,
		UserAgent:   "quotectl",
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	return acl.NewPostsSource(acl.PostsSourceConfig{
		Client:     client,
		FetchLimit: cfg.Remote.FetchLimit,
		Logger:     logger,
	}), nil
}

// open loads config, opens the store and loads state. Flags override the store settings.
func (c *cli) open(ctx context.Context) error {
	cfg, err := config.LoadValidated(c.configDir)
	if err != nil {
		return err
	}

	if c.storeDriver != "" {
		cfg.Store.Driver = c.storeDriver
	}

	if c.storePath != "" {
		cfg.Store.Path = c.storePath
	}

	level := "warn"
	if c.verbose {
		level = "debug"
	}

	c.cfg = cfg
	c.logger = logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  "pretty",
		Service: "quotectl",
		Version: cfg.App.Version,
	}, c.errOut)

	store, err := storage.Open(ctx, storage.Config{Driver: cfg.Store.Driver, Path: cfg.Store.Path}, c.logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	c.store = store

	state := app.NewState(storage.NewRepository(store, c.logger))
	c.quotes = app.NewQuoteService(app.QuoteServiceConfig{State: state, Logger: c.logger})

	seeded, err := c.quotes.Load(ctx)
	if err != nil {
		return err
	}

	if seeded {
		printInfo(c.out, "Created a new collection with the starter quotes.")
	}

	remote, err := c.newRemote(cfg, c.logger)
	if err != nil {
		return err
	}

	c.syncer = app.NewSyncService(app.SyncServiceConfig{
		State:           state,
		Remote:          remote,
		PushConcurrency: cfg.Sync.PushConcurrency,
		Interval:        cfg.Sync.Interval,
		Logger:          c.logger,
	})

	return nil
}

func (c *cli) close() error {
	if c.store == nil {
		return nil
	}

	err := c.store.Close()
	c.store = nil

	if err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	return nil
}
