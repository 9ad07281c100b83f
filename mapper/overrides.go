package mapper

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Override supplies a value for a destination field that has no same-named
// source field. The value is assigned through the regular coercion rules, so
// an already-assignable reference keeps its identity on the destination.
type Override struct {
	Field string
	Value any
}

type overrideSet struct {
	entries *orderedmap.OrderedMap[string, any]
}

func newOverrideSet(overrides []Override) *overrideSet {
	if len(overrides) == 0 {
		return nil
	}
	entries := orderedmap.New[string, any]()
	for _, override := range overrides {
		if _, exists := entries.Get(override.Field); exists {
			continue // first entry per name wins
		}
		entries.Set(override.Field, override.Value)
	}
	return &overrideSet{entries: entries}
}

func (s *overrideSet) lookup(fieldName string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return s.entries.Get(fieldName)
}
