package lint

import (
	"sync"

	"github.com/leapstack-labs/einlint/pkg/label"
)

// LabelStore records the first-seen label sequence of every tensor.
// Entries are never overwritten; only Reset removes them.
type LabelStore struct {
	mu      sync.Mutex
	entries map[string]label.Sequence
}

// NewLabelStore creates an empty store.
func NewLabelStore() *LabelStore {
	return &LabelStore{entries: make(map[string]label.Sequence)}
}

// Claim records seq for tensor unless a sequence is already stored.
// It returns the stored sequence and whether this call inserted it.
// The lookup and the insert happen in one critical section.
func (s *LabelStore) Claim(tensor string, seq label.Sequence) (label.Sequence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.entries[tensor]; ok {
		return stored.Clone(), false
	}
	s.entries[tensor] = seq.Clone()
	return seq, true
}

// Lookup returns the stored sequence for tensor.
func (s *LabelStore) Lookup(tensor string) (label.Sequence, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.entries[tensor]
	return stored.Clone(), ok
}

// Len returns the number of tensors recorded.
func (s *LabelStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Reset removes every entry.
func (s *LabelStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]label.Sequence)
}

// Snapshot returns a deep copy of the store.
func (s *LabelStore) Snapshot() map[string]label.Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]label.Sequence, len(s.entries))
	for k, v := range s.entries {
		out[k] = v.Clone()
	}
	return out
}

// SizeStore records the first-seen extent of every label.
// A recorded extent binds every later claim of the same label.
type SizeStore struct {
	mu      sync.Mutex
	extents map[label.Label]int
}

// NewSizeStore creates an empty store.
func NewSizeStore() *SizeStore {
	return &SizeStore{extents: make(map[label.Label]int)}
}

// Claim records extent for l unless an extent is already stored.
// It returns the stored extent and whether this call inserted it.
func (s *SizeStore) Claim(l label.Label, extent int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.extents[l]; ok {
		return stored, false
	}
	s.extents[l] = extent
	return extent, true
}

// Lookup returns the stored extent for l.
func (s *SizeStore) Lookup(l label.Label) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	extent, ok := s.extents[l]
	return extent, ok
}

// Len returns the number of labels recorded.
func (s *SizeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.extents)
}

// Reset removes every entry.
func (s *SizeStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extents = make(map[label.Label]int)
}

// Snapshot returns a copy of the store.
func (s *SizeStore) Snapshot() map[label.Label]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[label.Label]int, len(s.extents))
	for k, v := range s.extents {
		out[k] = v
	}
	return out
}
