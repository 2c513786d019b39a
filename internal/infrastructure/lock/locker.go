package lock

import (
	"context"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/domain/chat"
	"jan-server/services/chat-router/internal/utils/platformerrors"
)

const defaultTries = 32

// RedsyncLocker serializes work per key with a Redis lease. The lease
// expires after ttl if the holder dies and is extended every ttl/2 while
// the holder is alive.
type RedsyncLocker struct {
	rs          *redsync.Redsync
	ttl         time.Duration
	extendEvery time.Duration
	tries       int
	log         zerolog.Logger
}

var _ chat.Locker = (*RedsyncLocker)(nil)

// NewRedsyncLocker creates a locker on client.
func NewRedsyncLocker(client redis.UniversalClient, ttl time.Duration, log zerolog.Logger) *RedsyncLocker {
	return &RedsyncLocker{
		rs:          redsync.New(goredis.NewPool(client)),
		ttl:         ttl,
		extendEvery: ttl / 2,
		tries:       defaultTries,
		log:         log.With().Str("component", "conversation-lock").Logger(),
	}
}

// WithLock runs fn while holding the lease on key and releases it on every
// exit path. Failing to acquire the lease is reported as a conflict.
func (l *RedsyncLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	mutex := l.rs.NewMutex(key, redsync.WithExpiry(l.ttl), redsync.WithTries(l.tries))

	if err := mutex.LockContext(ctx); err != nil {
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeConflict,
			"conversation is busy, retry later", err, map[string]any{"lock": key})
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.keepAlive(ctx, mutex, key, stop)
	}()

	defer func() {
		close(stop)
		wg.Wait()
		// release even when ctx was cancelled during fn
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
			l.log.Error().Err(err).Str("lock", key).Msg("failed to release lock")
		}
	}()

	return fn(ctx)
}

// keepAlive extends the lease until stop is closed. It gives up after a
// failed extension; the lease then expires on its own.
func (l *RedsyncLocker) keepAlive(ctx context.Context, mutex *redsync.Mutex, key string, stop <-chan struct{}) {
	if l.extendEvery <= 0 {
		return
	}
	ticker := time.NewTicker(l.extendEvery)
	defer ticker.Stop()

	ctx = context.WithoutCancel(ctx)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if ok, err := mutex.ExtendContext(ctx); err != nil || !ok {
				l.log.Warn().Err(err).Str("lock", key).Msg("failed to extend lock")
				return
			}
		}
	}
}
