// Package jsonfile persists the custody document as a single JSON file,
// in the same layout older deployments wrote (db.json).
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aussiebroadwan/custody/internal/custody/store"
)

// Persister reads and writes one JSON file. Writes go to a temp file in the
// same directory which is then renamed over the target, so a crash never
// leaves a half written document behind.
type Persister struct {
	path string
}

var _ store.Persister = (*Persister)(nil)

// New returns a persister for path. The parent directory is created if needed.
func New(path string) (*Persister, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("jsonfile: create dir: %w", err)
	}
	return &Persister{path: path}, nil
}

// Open is a shortcut for New followed by store.Open.
func Open(ctx context.Context, path string) (*store.DocStore, error) {
	p, err := New(path)
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, p)
}

func (p *Persister) Path() string { return p.path }

// Load returns an empty document when the file is missing or empty. A file
// that does not parse is an error; it is never silently replaced.
func (p *Persister) Load(ctx context.Context) (*store.Document, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return store.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("jsonfile: read %s: %w", p.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return store.NewDocument(), nil
	}

	doc := &store.Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("jsonfile: decode %s: %w", p.path, err)
	}
	doc.Normalize()
	return doc, nil
}

func (p *Persister) Flush(ctx context.Context, doc *store.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonfile: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), "."+filepath.Base(p.path)+".*")
	if err != nil {
		return fmt.Errorf("jsonfile: temp file: %w", err)
	}
	// Removing after a successful rename is a harmless no-op.
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return fmt.Errorf("jsonfile: chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("jsonfile: rename: %w", err)
	}
	return nil
}

// Ping checks the directory is still there and writable.
func (p *Persister) Ping(ctx context.Context) error {
	dir := filepath.Dir(p.path)
	f, err := os.CreateTemp(dir, ".ping.*")
	if err != nil {
		return fmt.Errorf("jsonfile: ping: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func (p *Persister) Close() error { return nil }
