package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewTurnID returns a lexically time-ordered id for a persisted conversation
// turn, prefixed with the sender ("user" or "agent").
func NewTurnID(sender string) (string, error) {
	entropyMu.Lock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to generate turn id: %w", err)
	}
	return sender + "_" + strings.ToLower(id.String()), nil
}

// ParseTurnID splits a turn id into its sender prefix and ULID.
func ParseTurnID(value string) (string, ulid.ULID, error) {
	sender, raw, ok := strings.Cut(strings.TrimSpace(value), "_")
	if !ok || sender == "" {
		return "", ulid.ULID{}, fmt.Errorf("turn id %q has no sender prefix", value)
	}
	id, err := ulid.ParseStrict(strings.ToUpper(raw))
	if err != nil {
		return "", ulid.ULID{}, err
	}
	return sender, id, nil
}
