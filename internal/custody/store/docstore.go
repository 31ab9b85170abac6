package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// Persister loads and flushes the whole document. Drivers live under
// store/drivers.
type Persister interface {
	// Load returns the stored document, or an empty one if nothing has been
	// written yet.
	Load(ctx context.Context) (*Document, error)

	// Flush replaces the stored document. It must be all or nothing.
	Flush(ctx context.Context, doc *Document) error

	Ping(ctx context.Context) error
	Close() error
}

// DocStore keeps the document in memory and writes it through a Persister
// after every committed transaction.
//
// The live document is never modified in place: writers work on a clone and
// swap it in after a successful flush, so a reader holding the old pointer
// still sees a consistent snapshot.
type DocStore struct {
	persister Persister

	writeMu sync.Mutex // single writer

	mu  sync.RWMutex // guards doc pointer
	doc *Document
}

var _ Store = (*DocStore)(nil)

// Open loads the document through p.
func Open(ctx context.Context, p Persister) (*DocStore, error) {
	doc, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: load: %w", err)
	}
	if doc == nil {
		doc = NewDocument()
	}
	doc.Normalize()

	slogx.FromContext(ctx).Debug("document loaded",
		"users", len(doc.Users),
		"certificates", len(doc.Certificates),
		"requests", len(doc.Requests),
		"logs", len(doc.Logs),
	)

	return &DocStore{persister: p, doc: doc}, nil
}

func (s *DocStore) snapshot() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// apply is the one place the live document changes.
func (s *DocStore) apply(ctx context.Context, fn func(d *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Only writers replace s.doc and we hold the writer lock.
	work := s.doc.Clone()
	if err := fn(work); err != nil {
		return err
	}

	if err := s.persister.Flush(ctx, work); err != nil {
		return fmt.Errorf("%w: %w", ErrFlush, err)
	}

	s.mu.Lock()
	s.doc = work
	s.mu.Unlock()
	return nil
}

func (s *DocStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.apply(ctx, func(d *Document) error {
		return fn(repos{backend: pending{doc: d}})
	})
}

func (s *DocStore) Users() Users               { return repos{backend: live{s}}.Users() }
func (s *DocStore) Certificates() Certificates { return repos{backend: live{s}}.Certificates() }
func (s *DocStore) Catalog() Catalog           { return repos{backend: live{s}}.Catalog() }
func (s *DocStore) Requests() Requests         { return repos{backend: live{s}}.Requests() }
func (s *DocStore) Logs() Logs                 { return repos{backend: live{s}}.Logs() }

func (s *DocStore) Ping(ctx context.Context) error { return s.persister.Ping(ctx) }
func (s *DocStore) Close() error                   { return s.persister.Close() }

// Snapshot returns a copy of the committed document, for backups and tests.
func (s *DocStore) Snapshot() *Document {
	return s.snapshot().Clone()
}

// backend is what the repositories run against: the committed document
// (each write its own transaction) or a pending transaction's copy.
type backend interface {
	view(ctx context.Context, fn func(d *Document) error) error
	update(ctx context.Context, fn func(d *Document) error) error
}

type live struct{ s *DocStore }

func (l live) view(ctx context.Context, fn func(d *Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(l.s.snapshot())
}

func (l live) update(ctx context.Context, fn func(d *Document) error) error {
	return l.s.apply(ctx, fn)
}

type pending struct{ doc *Document }

func (p pending) view(ctx context.Context, fn func(d *Document) error) error {
	return fn(p.doc)
}

func (p pending) update(ctx context.Context, fn func(d *Document) error) error {
	return fn(p.doc)
}
