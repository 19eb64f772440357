package form

import "github.com/goliatone/go-ontoform/pkg/model"

// Lookup resolves the current answer for an identifier.
type Lookup interface {
	Value(id string) (Value, bool)
}

// Tracker derives missing required answers for one tree. The required list is
// computed once since trees are immutable; answers are read on every call so
// the tracker never holds stale state.
type Tracker struct {
	required []string
}

// NewTracker collects the required identifiers for tree.
func NewTracker(tree model.Tree) *Tracker {
	return &Tracker{required: RequiredFields(tree)}
}

// Required returns a copy of the required identifiers in display order.
func (t *Tracker) Required() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.required...)
}

// Missing returns the required identifiers whose answer is absent, null or
// empty text, in display order.
func (t *Tracker) Missing(values Lookup) []string {
	if t == nil {
		return nil
	}
	var missing []string
	for _, id := range t.required {
		if !answered(values, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// MissingCount is len(Missing(values)) without the allocation.
func (t *Tracker) MissingCount(values Lookup) int {
	if t == nil {
		return 0
	}
	count := 0
	for _, id := range t.required {
		if !answered(values, id) {
			count++
		}
	}
	return count
}

// Ready reports whether submission is allowed.
func (t *Tracker) Ready(values Lookup) bool {
	return t.MissingCount(values) == 0
}

func answered(values Lookup, id string) bool {
	if values == nil {
		return false
	}
	v, ok := values.Value(id)
	return ok && !v.IsBlank()
}
