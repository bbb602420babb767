package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hammadpk/engine/internal/models"
)

// Sink receives a deep-copied snapshot of the full state document after
// every committed mutation.
type Sink interface {
	Save(ctx context.Context, st *models.State) error
}

// Store is the single logical owner of the engine state. All mutations go
// through Update, which serializes them under one lock so a balance write
// and its paired status write are observed together or not at all.
type Store struct {
	mu    sync.RWMutex
	state *models.State
	sink  Sink
	log   *slog.Logger
}

func New(st *models.State, sink Sink, log *slog.Logger) *Store {
	if st == nil {
		st = models.NewState()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{state: st, sink: sink, log: log}
}

// View runs fn with read access to the state. fn must not mutate or retain
// anything it reads.
func (s *Store) View(fn func(st *models.State)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// Update runs fn with exclusive access to the state. If fn returns an error
// the operation is treated as rejected before mutation: fn must validate
// fully before writing. On success the committed state is snapshotted to
// the sink.
func (s *Store) Update(ctx context.Context, fn func(st *models.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.state); err != nil {
		return err
	}
	if s.sink != nil {
		if err := s.sink.Save(ctx, s.state.Clone()); err != nil {
			s.log.Error("snapshot save failed", "error", err)
		}
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}
