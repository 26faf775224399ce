//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/adapters/clients"
	"github.com/jsamuelsen/quote-sync/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-sync/internal/adapters/storage"
	"github.com/jsamuelsen/quote-sync/internal/platform/config"
)

const configDir = "../../configs"

// TestConfig_ShippedProfiles loads every profile in configs/ and checks it validates.
func TestConfig_ShippedProfiles(t *testing.T) {
	tests := []struct {
		profile     string
		environment string
		driver      string
		format      string
		syncEnabled bool
		telemetry   bool
	}{
		{profile: "local", environment: "local", driver: storage.DriverSQLite, format: "pretty", syncEnabled: true},
		{profile: "test", environment: "test", driver: storage.DriverMemory, format: "text"},
		{profile: "prod", environment: "prod", driver: storage.DriverSQLite, format: "json", syncEnabled: true, telemetry: true},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			cfg, err := config.LoadFrom(configDir, tt.profile)
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())

			assert.Equal(t, tt.environment, cfg.App.Environment)
			assert.Equal(t, tt.driver, cfg.Store.Driver)
			assert.Equal(t, tt.format, cfg.Log.Format)
			assert.Equal(t, tt.syncEnabled, cfg.Sync.Enabled)
			assert.Equal(t, tt.telemetry, cfg.Telemetry.Enabled)
			assert.Equal(t, "https://jsonplaceholder.typicode.com", cfg.Remote.BaseURL)
			assert.Equal(t, 8, cfg.Remote.FetchLimit)
		})
	}
}

func TestConfig_EnvOverridesProfile(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "19090")
	t.Setenv("APP_REMOTE__BASE_URL", "http://posts.internal:8080")
	t.Setenv("APP_SYNC__PUSH_CONCURRENCY", "2")
	t.Setenv("APP_CLIENT__RETRY__MAX_ATTEMPTS", "5")

	cfg, err := config.LoadFrom(configDir, "test")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 19090, cfg.Server.Port)
	assert.Equal(t, "http://posts.internal:8080", cfg.Remote.BaseURL)
	assert.Equal(t, 2, cfg.Sync.PushConcurrency)
	assert.Equal(t, 5, cfg.Client.Retry.MaxAttempts)

	// Values the override does not touch still come from the profile.
	assert.Equal(t, storage.DriverMemory, cfg.Store.Driver)
}

func TestConfig_InvalidOverrideRejected(t *testing.T) {
	t.Setenv("APP_STORE__DRIVER", "postgres")

	cfg, err := config.LoadFrom(configDir, "test")
	require.NoError(t, err)

	assert.Error(t, cfg.Validate())
}

// TestConfig_DrivesRemoteSource wires the loaded client settings into a
// posts source and syncs against a local fake.
func TestConfig_DrivesRemoteSource(t *testing.T) {
	remote := newPostsServer(t,
		post{ID: 1, Title: "One"},
		post{ID: 2, Title: "Two"},
		post{ID: 3, Title: "Three"},
	)

	t.Setenv("APP_REMOTE__BASE_URL", remote.URL)
	t.Setenv("APP_REMOTE__FETCH_LIMIT", "2")

	cfg, err := config.LoadFrom(configDir, "test")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	client, err := clients.New(&clients.Config{
		BaseURL:     cfg.Remote.BaseURL,
		ServiceName: cfg.Remote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      discardLogger(),
	})
	require.NoError(t, err)

	posts := acl.NewPostsSource(acl.PostsSourceConfig{
		Client:     client,
		FetchLimit: cfg.Remote.FetchLimit,
		Logger:     discardLogger(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	quotes, err := posts.FetchRecent(ctx)
	require.NoError(t, err)

	require.Len(t, quotes, 2)
	assert.Equal(t, "server-1", quotes[0].ID)
	assert.Equal(t, "posts", posts.Name())
	require.NoError(t, posts.Check(ctx))
}
