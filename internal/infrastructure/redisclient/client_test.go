package redisclient

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-router/internal/config"
)

func TestBuildUniversalOptions(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		addrs    []string
		db       int
		password string
		wantErr  bool
	}{
		{name: "single url", raw: "redis://:secret@localhost:6379/2", addrs: []string{"localhost:6379"}, db: 2, password: "secret"},
		{name: "cluster urls", raw: "redis://a:6379, redis://b:6379", addrs: []string{"a:6379", "b:6379"}},
		{name: "bare addresses", raw: "a:6379,b:6380", addrs: []string{"a:6379", "b:6380"}},
		{name: "empty", raw: " , ", wantErr: true},
		{name: "bad scheme", raw: "http://localhost:6379", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := BuildUniversalOptions(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addrs, opts.Addrs)
			assert.Equal(t, tt.db, opts.DB)
			assert.Equal(t, tt.password, opts.Password)
		})
	}
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), &config.Config{RedisURL: "redis://" + mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}

func TestNewFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := New(context.Background(), &config.Config{RedisURL: addr}, zerolog.Nop())
	assert.Error(t, err)
}
