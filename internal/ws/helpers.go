package ws

import "github.com/google/uuid"

func newConnID() string {
	return uuid.NewString()
}

const seenCapacity = 256

// seenSet remembers the last seenCapacity message ids delivered to a room.
type seenSet struct {
	ids  map[string]struct{}
	ring []string
	next int
}

func newSeenSet() *seenSet {
	return &seenSet{ids: make(map[string]struct{}, seenCapacity), ring: make([]string, seenCapacity)}
}

// add records id and reports whether it was new.
func (s *seenSet) add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	if old := s.ring[s.next]; old != "" {
		delete(s.ids, old)
	}
	s.ring[s.next] = id
	s.ids[id] = struct{}{}
	s.next = (s.next + 1) % len(s.ring)
	return true
}
