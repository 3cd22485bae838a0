// Package memory provides an in-process entity store for tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
)

type key struct {
	kind storage.Kind
	id   string
}

// Store keeps entity bodies in maps. Atomic units are serialized and applied
// on commit only.
type Store struct {
	mu          sync.RWMutex
	entities    map[key][]byte
	checkpoints map[string]storage.Checkpoint
	closed      bool
}

// New returns an empty store.
func New() *Store {
	return &Store{
		entities:    make(map[key][]byte),
		checkpoints: make(map[string]storage.Checkpoint),
	}
}

// Get returns a copy of the stored body.
func (s *Store) Get(ctx context.Context, kind storage.Kind, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("memory store is closed")
	}
	body, ok := s.entities[key{kind: kind, id: id}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(body), nil
}

// List returns entities of kind ordered by id.
func (s *Store) List(ctx context.Context, kind storage.Kind, afterID string, limit int) (storage.Page, error) {
	if err := ctx.Err(); err != nil {
		return storage.Page{}, err
	}
	limit = storage.ClampPageSize(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return storage.Page{}, fmt.Errorf("memory store is closed")
	}
	var ids []string
	for k := range s.entities {
		if k.kind == kind && k.id > afterID {
			ids = append(ids, k.id)
		}
	}
	sort.Strings(ids)

	page := storage.Page{}
	for i, id := range ids {
		if i == limit {
			page.NextAfterID = page.Documents[len(page.Documents)-1].ID
			break
		}
		page.Documents = append(page.Documents, storage.Document{ID: id, Body: clone(s.entities[key{kind: kind, id: id}])})
	}
	return page, nil
}

// Checkpoint returns the named checkpoint.
func (s *Store) Checkpoint(ctx context.Context, name string) (storage.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return storage.Checkpoint{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	checkpoint, ok := s.checkpoints[name]
	if !ok {
		return storage.Checkpoint{}, storage.ErrNotFound
	}
	return checkpoint, nil
}

// Atomic runs fn against a write buffer and applies it when fn succeeds.
func (s *Store) Atomic(ctx context.Context, fn func(tx storage.Tx) error) error {
	if fn == nil {
		return fmt.Errorf("atomic function is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("memory store is closed")
	}

	t := &tx{store: s, writes: make(map[key][]byte), deletes: make(map[key]bool)}
	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for k := range t.deletes {
		delete(s.entities, k)
	}
	for k, body := range t.writes {
		s.entities[k] = body
	}
	if t.checkpoint != nil {
		s.checkpoints[t.checkpoint.Name] = *t.checkpoint
	}
	return nil
}

// Close releases the store. Further calls fail.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Len returns the number of stored entities of kind.
func (s *Store) Len(kind storage.Kind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.entities {
		if k.kind == kind {
			n++
		}
	}
	return n
}

// Snapshot returns a copy of every entity body keyed by "kind/id".
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]string, len(s.entities))
	for k, body := range s.entities {
		snapshot[string(k.kind)+"/"+k.id] = string(body)
	}
	return snapshot
}

// tx is only used while Store.mu is held by Atomic.
type tx struct {
	store      *Store
	writes     map[key][]byte
	deletes    map[key]bool
	checkpoint *storage.Checkpoint
}

func (t *tx) Get(ctx context.Context, kind storage.Kind, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k := key{kind: kind, id: id}
	if body, ok := t.writes[k]; ok {
		return clone(body), nil
	}
	if t.deletes[k] {
		return nil, storage.ErrNotFound
	}
	body, ok := t.store.entities[k]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return clone(body), nil
}

func (t *tx) Put(ctx context.Context, kind storage.Kind, id string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%s id is required", kind)
	}
	k := key{kind: kind, id: id}
	delete(t.deletes, k)
	t.writes[k] = clone(body)
	return nil
}

func (t *tx) Delete(ctx context.Context, kind storage.Kind, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	k := key{kind: kind, id: id}
	delete(t.writes, k)
	t.deletes[k] = true
	return nil
}

func (t *tx) SaveCheckpoint(ctx context.Context, checkpoint storage.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if checkpoint.Name == "" {
		return fmt.Errorf("checkpoint name is required")
	}
	t.checkpoint = &checkpoint
	return nil
}

func clone(body []byte) []byte {
	if body == nil {
		return nil
	}
	out := make([]byte, len(body))
	copy(out, body)
	return out
}
