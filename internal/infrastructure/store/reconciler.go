package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jan-server/services/chat-router/internal/infrastructure/metrics"
)

const scanBatch = 200

// Reconciler periodically removes index members and labels whose
// conversation history no longer exists.
type Reconciler struct {
	client    redis.UniversalClient
	prefix    string
	interval  time.Duration
	tracer    trace.Tracer
	log       zerolog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// SweepResult counts what one sweep removed.
type SweepResult struct {
	IndexEntries int
	Labels       int
}

// NewReconciler creates a reconciler over the same key layout as RedisStore.
func NewReconciler(client redis.UniversalClient, keyPrefix string, interval time.Duration, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		client:   client,
		prefix:   keyPrefix,
		interval: interval,
		tracer:   otel.Tracer("jan-server/services/chat-router/reconciler"),
		log:      log.With().Str("component", "conversation-reconciler").Logger(),
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop in background. Only the first call has effect.
func (r *Reconciler) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		r.wg.Add(1)
		go r.run(ctx)
		r.log.Info().Dur("interval", r.interval).Msg("conversation reconciler started")
	})
}

// Stop shuts the loop down and waits for a running sweep to finish.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		r.log.Info().Msg("conversation reconciler stopped")
	})
}

func (r *Reconciler) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-ticker.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.log.Warn().Err(err).Msg("reconciliation sweep failed")
			}
		}
	}
}

// Sweep runs one pass over every user index and label hash.
func (r *Reconciler) Sweep(ctx context.Context) (result SweepResult, err error) {
	ctx, span := r.tracer.Start(ctx, "reconciler.Sweep")
	defer func() {
		span.SetAttributes(
			attribute.Int("reconciler.index_entries", result.IndexEntries),
			attribute.Int("reconciler.labels", result.Labels),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	indexPattern := r.prefix + userIndexPrefix + "*"
	err = r.scan(ctx, indexPattern, func(key string) error {
		userID := strings.TrimPrefix(key, r.prefix+userIndexPrefix)
		members, err := r.client.SMembers(ctx, key).Result()
		if err != nil {
			return err
		}
		for _, conversationID := range members {
			removed, err := r.removeIfOrphaned(ctx, r.historyKey(conversationID, userID), func(pipe redis.Pipeliner) {
				pipe.SRem(ctx, key, conversationID)
			})
			if err != nil {
				return err
			}
			if removed {
				result.IndexEntries++
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	labelsPattern := r.prefix + userLabelsPrefix + "*"
	err = r.scan(ctx, labelsPattern, func(key string) error {
		userID := strings.TrimPrefix(key, r.prefix+userLabelsPrefix)
		fields, err := r.client.HKeys(ctx, key).Result()
		if err != nil {
			return err
		}
		for _, conversationID := range fields {
			removed, err := r.removeIfOrphaned(ctx, r.historyKey(conversationID, userID), func(pipe redis.Pipeliner) {
				pipe.HDel(ctx, key, conversationID)
			})
			if err != nil {
				return err
			}
			if removed {
				result.Labels++
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	metrics.ReconciledEntriesTotal.WithLabelValues("index").Add(float64(result.IndexEntries))
	metrics.ReconciledEntriesTotal.WithLabelValues("label").Add(float64(result.Labels))

	if result.IndexEntries > 0 || result.Labels > 0 {
		r.log.Info().
			Int("index_entries", result.IndexEntries).
			Int("labels", result.Labels).
			Msg("reconciled orphaned conversation entries")
	}
	return result, nil
}

// removeIfOrphaned applies remove only when historyKey is absent. The
// history key is watched so an append racing the sweep aborts the removal.
func (r *Reconciler) removeIfOrphaned(ctx context.Context, historyKey string, remove func(redis.Pipeliner)) (bool, error) {
	removed := false
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, historyKey).Result()
		if err != nil || n > 0 {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			remove(pipe)
			return nil
		})
		if err == nil {
			removed = true
		}
		return err
	}, historyKey)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return removed, err
}

func (r *Reconciler) scan(ctx context.Context, pattern string, fn func(key string) error) error {
	if cluster, ok := r.client.(*redis.ClusterClient); ok {
		return cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
			return scanNode(ctx, node, pattern, fn)
		})
	}
	return scanNode(ctx, r.client, pattern, fn)
}

func scanNode(ctx context.Context, client redis.Cmdable, pattern string, fn func(key string) error) error {
	iter := client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	for iter.Next(ctx) {
		if err := fn(iter.Val()); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *Reconciler) historyKey(conversationID, userID string) string {
	return r.prefix + historyPrefix + conversationID + ":" + userID
}
