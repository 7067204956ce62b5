package workflow

import "slices"

// Selection is the set of order ids the admin picked for a bulk action.
// Ids keep the order in which they were first added.
//
// Selection has no lock: there is one admin session and the caller serializes
// access to it.
type Selection struct {
	ids   []string
	index map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{index: make(map[string]struct{})}
}

// Add inserts id and returns the resulting size. Adding an id twice is a no-op.
func (s *Selection) Add(id string) int {
	if _, ok := s.index[id]; !ok {
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return len(s.ids)
}

// IDs returns a copy of the selected ids.
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = nil
	clear(s.index)
}
