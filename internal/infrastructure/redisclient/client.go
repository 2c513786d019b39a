package redisclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"jan-server/services/chat-router/internal/config"
)

const connectTimeout = 5 * time.Second

// New connects to Redis described by cfg.RedisURL. A comma separated list
// of addresses or URLs yields a cluster client. The caller owns the client
// and must Close it on shutdown.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (redis.UniversalClient, error) {
	opts, err := BuildUniversalOptions(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if len(opts.Addrs) > 1 && opts.DB != 0 {
		log.Warn().Msg("ignoring non-zero DB when using Redis Cluster configuration")
		opts.DB = 0
	}

	client := redis.NewUniversalClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info().Strs("addrs", opts.Addrs).Msg("connected to Redis")
	return client, nil
}

// BuildUniversalOptions parses a comma separated list of redis:// URLs or
// host:port addresses. Credentials and timeouts come from the first URL
// that sets them.
func BuildUniversalOptions(raw string) (*redis.UniversalOptions, error) {
	opts := &redis.UniversalOptions{}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.Contains(part, "://") {
			opts.Addrs = append(opts.Addrs, part)
			continue
		}

		parsed, err := redis.ParseURL(part)
		if err != nil {
			return nil, err
		}

		opts.Addrs = append(opts.Addrs, parsed.Addr)
		if opts.Username == "" {
			opts.Username = parsed.Username
		}
		if opts.Password == "" {
			opts.Password = parsed.Password
		}
		if opts.DB == 0 {
			opts.DB = parsed.DB
		}
		if opts.TLSConfig == nil {
			opts.TLSConfig = parsed.TLSConfig
		}
		if opts.ReadTimeout == 0 {
			opts.ReadTimeout = parsed.ReadTimeout
		}
		if opts.WriteTimeout == 0 {
			opts.WriteTimeout = parsed.WriteTimeout
		}
		if opts.DialTimeout == 0 {
			opts.DialTimeout = parsed.DialTimeout
		}
		if opts.PoolSize == 0 {
			opts.PoolSize = parsed.PoolSize
		}
	}

	if len(opts.Addrs) == 0 {
		return nil, fmt.Errorf("no Redis addresses provided")
	}

	return opts, nil
}
