package content

import "sync/atomic"

// Store holds the live snapshot. Reads never block; Publish swaps the
// snapshot in a single atomic store, and snapshots already handed out stay
// valid.
type Store struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
}

// NewStore returns a Store publishing initial. A nil initial is replaced by
// an empty snapshot.
func NewStore(initial *Snapshot) *Store {
	s := &Store{}
	if initial == nil {
		initial = Empty()
	}
	s.current.Store(initial)
	return s
}

// Current returns the live snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Publish makes snap the live snapshot. snap must not be nil.
func (s *Store) Publish(snap *Snapshot) {
	s.current.Store(snap)
	s.generation.Add(1)
}

// Generation counts the snapshots published since the store was created.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}
