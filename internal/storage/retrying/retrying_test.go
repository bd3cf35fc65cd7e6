package retrying

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
	"github.com/Hike-12/BharatAI/internal/storage/memory"
)

// flakyStorage fails the first N calls to GetUser with a transient error
type flakyStorage struct {
	storage.Storage
	failures int
	calls    int
}

func (f *flakyStorage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	return f.Storage.GetUser(ctx, id)
}

func testConfig() Config {
	return Config{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func TestRetriesTransientFailure(t *testing.T) {
	inner := memory.New()
	ctx := context.Background()

	user := &model.User{ID: "user-1", Email: "alice@example.com", Role: model.RoleStudent}
	require.NoError(t, inner.SaveUser(ctx, user))

	flaky := &flakyStorage{Storage: inner, failures: 2}
	wrapped := New(flaky, testConfig())

	retrieved, err := wrapped.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, user.Email, retrieved.Email)
	assert.Equal(t, 3, flaky.calls)
}

func TestExhaustedRetriesMapToUnavailable(t *testing.T) {
	inner := memory.New()
	flaky := &flakyStorage{Storage: inner, failures: 10}
	wrapped := New(flaky, testConfig())

	_, err := wrapped.GetUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, model.ErrUnavailable)
	assert.Equal(t, 3, flaky.calls)
}

func TestDomainErrorsAreNotRetried(t *testing.T) {
	inner := memory.New()
	flaky := &flakyStorage{Storage: inner, failures: 0}
	wrapped := New(flaky, testConfig())

	_, err := wrapped.GetUser(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
	assert.Equal(t, 1, flaky.calls)
}

func TestVersionConflictPassesThrough(t *testing.T) {
	inner := memory.New()
	ctx := context.Background()

	progress := model.NewProgress("user-1", "course-1", time.Now())
	require.NoError(t, inner.SaveProgress(ctx, progress, 0))

	wrapped := New(inner, testConfig())

	stale := model.NewProgress("user-1", "course-1", time.Now())
	err := wrapped.SaveProgress(ctx, stale, 0)
	assert.ErrorIs(t, err, model.ErrVersionConflict)
}

func TestCancelledContextStopsRetrying(t *testing.T) {
	inner := memory.New()
	flaky := &flakyStorage{Storage: inner, failures: 10}
	wrapped := New(flaky, Config{MaxAttempts: 5, BaseDelay: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wrapped.GetUser(ctx, "user-1")
	assert.ErrorIs(t, err, context.Canceled)
}
