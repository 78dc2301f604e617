package facts

import (
	"context"
	"drant/app/service/feature"
	"fmt"
	"maps"
)

const (
	// Unset marks a fact that is not known or was cleared.
	Unset = "X"

	DefaultLifespan = 100
)

// Snapshot is the wire form of a session's facts, keyed by storage key.
type Snapshot struct {
	Values   map[string]string `json:"values"`
	Lifespan int               `json:"lifespan"`
}

func (s Snapshot) expired() bool {
	return s.Lifespan <= 0
}

type Backend interface {
	Load(ctx context.Context, sessionID string) (Snapshot, error)
	Save(ctx context.Context, sessionID string, snap Snapshot) error
}

// Session accumulates the facts known about one conversation.
// Every write merges into the existing set and refreshes the lifespan.
type Session struct {
	id          string
	maxLifespan int

	values   map[feature.ID]string
	lifespan int
	dirty    bool
}

func Open(ctx context.Context, backend Backend, id string, maxLifespan int) (*Session, error) {
	snap, err := backend.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session facts: %w", err)
	}

	return fromSnapshot(id, snap, maxLifespan), nil
}

func NewSession(id string, maxLifespan int) *Session {
	return fromSnapshot(id, Snapshot{}, maxLifespan)
}

func fromSnapshot(id string, snap Snapshot, maxLifespan int) *Session {
	if maxLifespan <= 0 {
		maxLifespan = DefaultLifespan
	}

	s := &Session{
		id:          id,
		maxLifespan: maxLifespan,
		values:      make(map[feature.ID]string),
	}

	if snap.expired() {
		return s
	}

	s.lifespan = snap.Lifespan
	for key, value := range snap.Values {
		f, ok := feature.ByKey(key)
		if !ok {
			continue
		}
		s.values[f.ID] = value
	}

	return s
}

func (s *Session) ID() string {
	return s.id
}

// Get returns the stored value or Unset.
func (s *Session) Get(id feature.ID) string {
	value, ok := s.values[id]
	if !ok || value == "" {
		return Unset
	}

	return value
}

func (s *Session) Known(id feature.ID) bool {
	return s.Get(id) != Unset
}

func (s *Session) GetKey(key string) string {
	f, ok := feature.ByKey(key)
	if !ok {
		return Unset
	}

	return s.Get(f.ID)
}

func (s *Session) SetOne(id feature.ID, value string) {
	s.values[id] = value
	s.touch()
}

func (s *Session) SetMany(values map[feature.ID]string) {
	if len(values) == 0 {
		return
	}

	maps.Copy(s.values, values)
	s.touch()
}

// SetKey writes by storage key and reports whether the key is known.
func (s *Session) SetKey(key, value string) bool {
	f, ok := feature.ByKey(key)
	if !ok {
		return false
	}

	s.SetOne(f.ID, value)
	return true
}

func (s *Session) Clear(id feature.ID) {
	s.SetOne(id, Unset)
}

// Reset expires the whole fact set. A later write in the same turn starts a fresh set.
func (s *Session) Reset() {
	clear(s.values)
	s.lifespan = 0
	s.dirty = true
}

func (s *Session) Lifespan() int {
	return s.lifespan
}

func (s *Session) Dirty() bool {
	return s.dirty
}

func (s *Session) Snapshot() Snapshot {
	values := make(map[string]string, len(s.values))
	for id, value := range s.values {
		values[feature.Get(id).Key] = value
	}

	return Snapshot{
		Values:   values,
		Lifespan: s.lifespan,
	}
}

// Commit saves the session if it changed during the turn.
func (s *Session) Commit(ctx context.Context, backend Backend) error {
	if !s.dirty {
		return nil
	}

	if err := backend.Save(ctx, s.id, s.Snapshot()); err != nil {
		return fmt.Errorf("failed to save session facts: %w", err)
	}

	s.dirty = false
	return nil
}

func (s *Session) touch() {
	s.lifespan = s.maxLifespan
	s.dirty = true
}
