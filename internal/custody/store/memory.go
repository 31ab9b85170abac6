package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryPersister keeps the encoded document in memory. It backs the
// "memory" driver and the tests.
type MemoryPersister struct {
	mu      sync.Mutex
	data    []byte
	flushes int
	failErr error
}

var _ Persister = (*MemoryPersister)(nil)

// NewMemoryPersister starts empty, or from doc when given.
func NewMemoryPersister(doc *Document) (*MemoryPersister, error) {
	p := &MemoryPersister{}
	if doc != nil {
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		p.data = raw
	}
	return p, nil
}

func (p *MemoryPersister) Load(ctx context.Context) (*Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.data == nil {
		return NewDocument(), nil
	}
	doc := &Document{}
	if err := json.Unmarshal(p.data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *MemoryPersister) Flush(ctx context.Context, doc *Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failErr != nil {
		return p.failErr
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	p.data = raw
	p.flushes++
	return nil
}

// FailFlushes makes every following Flush return err. Pass nil to recover.
func (p *MemoryPersister) FailFlushes(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failErr = err
}

// Flushes reports how many flushes have succeeded.
func (p *MemoryPersister) Flushes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushes
}

func (p *MemoryPersister) Ping(context.Context) error { return nil }
func (p *MemoryPersister) Close() error               { return nil }
