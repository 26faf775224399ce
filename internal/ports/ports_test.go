package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	return m.err
}

// TestNewHealthRegistry verifies that a new registry is created with empty checkers.
func TestNewHealthRegistry(t *testing.T) {
	registry := NewHealthRegistry()

	require.NotNil(t, registry)
	assert.NotNil(t, registry.checkers)
	assert.Empty(t, registry.checkers)
}

// TestRegister_Success verifies that a checker can be registered successfully.
func TestRegister_Success(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &mockChecker{name: "store"}

	err := registry.Register(checker)

	require.NoError(t, err)
	assert.Len(t, registry.checkers, 1)
	assert.Equal(t, "store", registry.checkers[0].Name())
}

// TestRegister_DuplicateName verifies that registering duplicate checker names returns an error.
func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()
	storeChecker := &mockChecker{name: "store"}
	postsChecker := &mockChecker{name: "store"}

	err := registry.Register(storeChecker)
	require.NoError(t, err)

	err = registry.Register(postsChecker)

	require.Error(t, err)
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "store")
	assert.Len(t, registry.checkers, 1)
}

// TestCheckAll_NoCheckers verifies that an empty registry returns healthy status.
func TestCheckAll_NoCheckers(t *testing.T) {
	registry := NewHealthRegistry()
	ctx := context.Background()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.NotNil(t, result.Checks)
	assert.Empty(t, result.Checks)
	assert.False(t, result.Timestamp.IsZero())
}

// TestCheckAll_AllHealthy verifies that multiple healthy checkers result in healthy status.
func TestCheckAll_AllHealthy(t *testing.T) {
	registry := NewHealthRegistry()
	storeChecker := &mockChecker{name: "store", err: nil}
	postsChecker := &mockChecker{name: "posts", err: nil}
	diskChecker := &mockChecker{name: "disk", err: nil}

	require.NoError(t, registry.Register(storeChecker))
	require.NoError(t, registry.Register(postsChecker))
	require.NoError(t, registry.Register(diskChecker))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	// Verify all checks are healthy
	assert.Equal(t, HealthStatusHealthy, result.Checks["store"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["posts"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["disk"].Status)

	// Verify no error messages
	assert.Empty(t, result.Checks["store"].Message)
	assert.Empty(t, result.Checks["posts"].Message)
	assert.Empty(t, result.Checks["disk"].Message)
}

// TestCheckAll_OneUnhealthy verifies that one failing checker makes the overall result unhealthy.
func TestCheckAll_OneUnhealthy(t *testing.T) {
	registry := NewHealthRegistry()
	storeChecker := &mockChecker{name: "store", err: nil}
	postsChecker := &mockChecker{name: "posts", err: errors.New("connection timeout")}
	diskChecker := &mockChecker{name: "disk", err: nil}

	require.NoError(t, registry.Register(storeChecker))
	require.NoError(t, registry.Register(postsChecker))
	require.NoError(t, registry.Register(diskChecker))

	ctx := context.Background()
	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 3)

	// Verify individual statuses
	assert.Equal(t, HealthStatusHealthy, result.Checks["store"].Status)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["posts"].Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["disk"].Status)

	// Verify error message is captured
	assert.Empty(t, result.Checks["store"].Message)
	assert.Equal(t, "connection timeout", result.Checks["posts"].Message)
	assert.Empty(t, result.Checks["disk"].Message)
}

// contextAwareChecker implements HealthChecker that respects context cancellation.
type contextAwareChecker struct {
	name string
}

func (c *contextAwareChecker) Name() string {
	return c.name
}

func (c *contextAwareChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// TestCheckAll_ContextCancelled verifies that the health check respects context cancellation.
func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &contextAwareChecker{name: "slow-service"}

	require.NoError(t, registry.Register(checker))

	// Create a context that's already cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 1)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["slow-service"].Status)
	assert.Contains(t, result.Checks["slow-service"].Message, "context canceled")
}

// TestCheckAll_OptionalFailureDegrades verifies that an optional checker cannot make the result unhealthy.
func TestCheckAll_OptionalFailureDegrades(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&mockChecker{name: "store"}))
	require.NoError(t, registry.RegisterOptional(&mockChecker{name: "posts", err: errors.New("circuit open")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusDegraded, result.Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["store"].Status)
	assert.Equal(t, HealthStatusDegraded, result.Checks["posts"].Status)
	assert.Equal(t, "circuit open", result.Checks["posts"].Message)
}

// TestCheckAll_CriticalFailureWins verifies that unhealthy outranks degraded.
func TestCheckAll_CriticalFailureWins(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&mockChecker{name: "store", err: errors.New("disk full")}))
	require.NoError(t, registry.RegisterOptional(&mockChecker{name: "posts", err: errors.New("timeout")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
}

// TestRegisterOptional_DuplicateName verifies that names are unique across both kinds.
func TestRegisterOptional_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(&mockChecker{name: "posts"}))
	require.ErrorIs(t, registry.RegisterOptional(&mockChecker{name: "posts"}), ErrDuplicateChecker)
}
