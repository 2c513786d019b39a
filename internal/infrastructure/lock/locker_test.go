package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-router/internal/utils/platformerrors"
)

func newTestLocker(t *testing.T) (*RedsyncLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedsyncLocker(client, 5*time.Second, zerolog.Nop()), mr
}

func TestWithLockReleasesOnError(t *testing.T) {
	locker, mr := newTestLocker(t)
	boom := errors.New("boom")

	err := locker.WithLock(context.Background(), "lock:conversation:c1:u1", func(context.Context) error {
		assert.True(t, mr.Exists("lock:conversation:c1:u1"))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("lock:conversation:c1:u1"))
}

func TestWithLockSerializes(t *testing.T) {
	locker, _ := newTestLocker(t)

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithLock(context.Background(), "lock:conversation:c1:u1", func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxSeen)
					if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen)
}

func TestWithLockContention(t *testing.T) {
	locker, mr := newTestLocker(t)
	locker.tries = 1

	require.NoError(t, mr.Set("lock:conversation:c1:u1", "someone-else"))

	called := false
	err := locker.WithLock(context.Background(), "lock:conversation:c1:u1", func(context.Context) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
}

func TestWithLockExtendsWhileHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	const key = "lock:conversation:c1:u1"
	locker := NewRedsyncLocker(client, 30*time.Second, zerolog.Nop())
	locker.extendEvery = 10 * time.Millisecond

	rival := NewRedsyncLocker(client, 30*time.Second, zerolog.Nop())
	rival.tries = 1

	err := locker.WithLock(context.Background(), key, func(context.Context) error {
		// 60s of lease time passes in 20s steps, twice the ttl
		for i := 0; i < 3; i++ {
			mr.FastForward(20 * time.Second)
			require.Eventually(t, func() bool {
				return mr.TTL(key) > 20*time.Second
			}, time.Second, 5*time.Millisecond)
		}

		entered := false
		rivalErr := rival.WithLock(context.Background(), key, func(context.Context) error {
			entered = true
			return nil
		})
		assert.False(t, entered)
		assert.True(t, platformerrors.IsErrorType(rivalErr, platformerrors.ErrorTypeConflict))
		return nil
	})

	require.NoError(t, err)
	assert.False(t, mr.Exists(key))
}
