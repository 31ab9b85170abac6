package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory keeps revocations in process. Entries are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

var _ Set = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) Revoke(ctx context.Context, jti string, until time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.entries[jti]; !ok || until.After(cur) {
		m.entries[jti] = until
	}
	return nil
}

func (m *Memory) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	until, ok := m.entries[jti]
	return ok && m.now().Before(until), nil
}

func (m *Memory) Prune(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for jti, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, jti)
			n++
		}
	}
	return n, nil
}

// Len is the number of entries currently held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
