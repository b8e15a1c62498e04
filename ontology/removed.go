package ontology

// RemovedSet records the class identifiers deleted during a run. It grows
// during branch removal and is frozen before reference fixing reads it.
type RemovedSet struct {
	order   []IRI
	members map[IRI]struct{}
	frozen  bool
}

// NewRemovedSet creates an empty set.
func NewRemovedSet() *RemovedSet {
	return &RemovedSet{members: make(map[IRI]struct{})}
}

// Add inserts id and reports whether it was new. Adding to a frozen set
// panics.
func (s *RemovedSet) Add(id IRI) bool {
	if s.frozen {
		panic("ontology: add to frozen RemovedSet")
	}
	if _, ok := s.members[id]; ok {
		return false
	}
	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Contains reports whether id was removed.
func (s *RemovedSet) Contains(id IRI) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of removed identifiers.
func (s *RemovedSet) Len() int {
	return len(s.order)
}

// List returns the identifiers in the order they were added.
func (s *RemovedSet) List() []IRI {
	out := make([]IRI, len(s.order))
	copy(out, s.order)
	return out
}

// Freeze makes the set read-only.
func (s *RemovedSet) Freeze() {
	s.frozen = true
}

// Frozen reports whether Freeze has been called.
func (s *RemovedSet) Frozen() bool {
	return s.frozen
}
