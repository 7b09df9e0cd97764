package session

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spetersoncode/learnpath/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("guard admits one run per session", func(t *testing.T) {
		id := uuid.NewString()
		token, err := s.Acquire(ctx, id)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		_, err = s.Acquire(ctx, id)
		assert.ErrorIs(t, err, ErrBusy)

		require.NoError(t, s.Release(ctx, id, token))
		token, err = s.Acquire(ctx, id)
		require.NoError(t, err)
		require.NoError(t, s.Release(ctx, id, token))
	})

	t.Run("sessions do not block each other", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()
		ta, err := s.Acquire(ctx, a)
		require.NoError(t, err)
		tb, err := s.Acquire(ctx, b)
		require.NoError(t, err)
		require.NoError(t, s.Release(ctx, a, ta))
		require.NoError(t, s.Release(ctx, b, tb))
	})

	t.Run("release of free guard is not an error", func(t *testing.T) {
		assert.NoError(t, s.Release(ctx, uuid.NewString(), uuid.NewString()))
	})

	t.Run("release with another token keeps the guard", func(t *testing.T) {
		id := uuid.NewString()
		token, err := s.Acquire(ctx, id)
		require.NoError(t, err)

		require.NoError(t, s.Release(ctx, id, uuid.NewString()))
		_, err = s.Acquire(ctx, id)
		assert.ErrorIs(t, err, ErrBusy)
		require.NoError(t, s.Release(ctx, id, token))
	})

	t.Run("concurrent acquire has one winner", func(t *testing.T) {
		id := uuid.NewString()
		var wins atomic.Int32
		var winner atomic.Value
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if token, err := s.Acquire(ctx, id); err == nil {
					wins.Add(1)
					winner.Store(token)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
		require.NoError(t, s.Release(ctx, id, winner.Load().(string)))
	})

	t.Run("state round trip", func(t *testing.T) {
		id := uuid.NewString()
		_, ok, err := s.Load(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)

		state := State{Status: StatusRunning, Goal: "learn go", UpdatedAt: time.Now().UTC().Truncate(time.Second)}
		state.Apply(progress.Update{Message: "Generating your learning path...", Phase: progress.PhaseGeneration, Progress: 0.5})
		require.NoError(t, s.Save(ctx, id, state))

		got, ok, err := s.Load(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, progress.PhaseGeneration, got.Phase)
		assert.Equal(t, 0.5, got.Progress)
		assert.Equal(t, "learn go", got.Goal)
		assert.True(t, state.UpdatedAt.Equal(got.UpdatedAt))
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(0))
}

func TestMemoryStoreExpiredGuard(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Acquire(ctx, "a")
	require.NoError(t, err)
	_, err = s.Acquire(ctx, "a")
	assert.ErrorIs(t, err, ErrBusy)

	now = now.Add(2 * time.Minute)
	_, err = s.Acquire(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryStoreGuardOutlivesLongRun(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(LockTTL(30 * time.Minute))
	now := time.Now()
	s.now = func() time.Time { return now }

	_, err := s.Acquire(ctx, "a")
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = s.Acquire(ctx, "a")
	assert.ErrorIs(t, err, ErrBusy)

	now = now.Add(20 * time.Minute)
	_, err = s.Acquire(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryStoreStaleReleaseKeepsNewGuard(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	stale, err := s.Acquire(ctx, "a")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	current, err := s.Acquire(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, s.Release(ctx, "a", stale))
	_, err = s.Acquire(ctx, "a")
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, s.Release(ctx, "a", current))
	_, err = s.Acquire(ctx, "a")
	assert.NoError(t, err)
}

func TestLockTTL(t *testing.T) {
	assert.Equal(t, DefaultLockTTL, LockTTL(0))
	assert.Greater(t, LockTTL(30*time.Minute), 30*time.Minute)
	assert.Greater(t, LockTTL(time.Hour), time.Hour)
}

func TestMemoryStoreCopiesOutput(t *testing.T) {
	s := NewMemoryStore(0)
	out := []string{"day 1"}
	require.NoError(t, s.Save(context.Background(), "a", State{Output: out}))
	out[0] = "changed"

	got, _, _ := s.Load(context.Background(), "a")
	assert.Equal(t, []string{"day 1"}, got.Output)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	s, err := DialRedis(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0,
		WithPrefix("learnpath:test:"+uuid.NewString()+":"), WithLockTTL(time.Minute))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestDialRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := DialRedis(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}
