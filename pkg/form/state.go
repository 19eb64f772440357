package form

import (
	"sort"
	"strings"
)

// UnitSuffix marks companion keys that hold the unit of a prepopulated value.
const UnitSuffix = "_unit"

// UnitKey returns the companion unit key for id.
func UnitKey(id string) string { return id + UnitSuffix }

// IsUnitKey reports whether key is a companion unit key.
func IsUnitKey(key string) bool { return strings.HasSuffix(key, UnitSuffix) }

// Store tracks answers keyed by field identifier and the set of collapsed
// sections. Sections start expanded. Keys outside the current tree are kept
// but never validated or prompted.
type Store struct {
	values    map[string]Value
	collapsed map[string]struct{}
}

var _ Lookup = (*Store)(nil)

// NewStore seeds the store with prefilled values.
func NewStore(prefill map[string]Value) *Store {
	return &Store{
		values:    cloneValues(prefill),
		collapsed: make(map[string]struct{}),
	}
}

// Set overwrites a single answer.
func (s *Store) Set(id string, value Value) {
	if s.values == nil {
		s.values = make(map[string]Value)
	}
	s.values[id] = value
}

// MergeDefaults writes every pair without clearing existing keys. The last
// write to a key wins, whether it came from prepopulation or the operator.
func (s *Store) MergeDefaults(values map[string]Value) {
	if len(values) == 0 {
		return
	}
	if s.values == nil {
		s.values = make(map[string]Value, len(values))
	}
	for id, v := range values {
		s.values[id] = v
	}
}

// Value returns the stored answer for id.
func (s *Store) Value(id string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s.values[id]
	return v, ok
}

// Snapshot returns a copy of every stored pair, unit keys included.
func (s *Store) Snapshot() map[string]Value {
	if s == nil {
		return map[string]Value{}
	}
	return cloneValues(s.values)
}

// Len reports how many keys are stored.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Collapse hides a section's children in presentation.
func (s *Store) Collapse(sectionID string) {
	if s.collapsed == nil {
		s.collapsed = make(map[string]struct{})
	}
	s.collapsed[sectionID] = struct{}{}
}

// Expand shows a section's children again.
func (s *Store) Expand(sectionID string) {
	delete(s.collapsed, sectionID)
}

// ToggleSection flips a section and reports whether it is now collapsed.
func (s *Store) ToggleSection(sectionID string) bool {
	if s.Collapsed(sectionID) {
		s.Expand(sectionID)
		return false
	}
	s.Collapse(sectionID)
	return true
}

// Collapsed reports whether a section is collapsed.
func (s *Store) Collapsed(sectionID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.collapsed[sectionID]
	return ok
}

// CollapsedSections lists collapsed section identifiers in sorted order.
func (s *Store) CollapsedSections() []string {
	if s == nil || len(s.collapsed) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.collapsed))
	for id := range s.collapsed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func cloneValues(src map[string]Value) map[string]Value {
	out := make(map[string]Value, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
