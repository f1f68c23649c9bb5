package id

import "github.com/google/uuid"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

// Sequence hands out a fixed list of ids, for tests.
type Sequence struct {
	IDs  []string
	next int
}

func (s *Sequence) New() string {
	if s.next >= len(s.IDs) {
		return ""
	}
	id := s.IDs[s.next]
	s.next++
	return id
}
