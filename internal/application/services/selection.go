package services

import (
	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
)

// MaxSelection bounds the comparison set.
const MaxSelection = 3

// SelectionSet is an ordered, bounded set of listing ids chosen for
// side-by-side comparison. It is independent of the filter state:
// membership survives filter changes, and resolution runs against the
// full snapshot so a filtered-out listing never silently drops out of a
// comparison. Not safe for concurrent use; the session serializes access.
type SelectionSet struct {
	ids []string
}

// NewSelectionSet creates an empty selection set.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

// Toggle flips membership of id and reports whether it is now selected.
// Adding beyond MaxSelection is a no-op, not an error.
func (s *SelectionSet) Toggle(id string) bool {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false
		}
	}
	if len(s.ids) >= MaxSelection {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Contains reports whether id is selected.
func (s *SelectionSet) Contains(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Size returns the number of selected ids.
func (s *SelectionSet) Size() int {
	return len(s.ids)
}

// IDs returns the selected ids in insertion order.
func (s *SelectionSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Clear empties the set.
func (s *SelectionSet) Clear() {
	s.ids = nil
}

// Resolve looks up the selected listings in the full collection,
// preserving selection order. Ids with no matching listing are skipped.
func (s *SelectionSet) Resolve(listings []*entities.Listing) []*entities.Listing {
	if len(s.ids) == 0 {
		return nil
	}
	byID := make(map[string]*entities.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}
	out := make([]*entities.Listing, 0, len(s.ids))
	for _, id := range s.ids {
		if l, ok := byID[id]; ok {
			out = append(out, l)
		}
	}
	return out
}
