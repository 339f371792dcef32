package model

import (
	"sort"
)

// ActivitySet is a merged collection unique by (kind, id). Iteration order is
// the order in which keys first appeared.
type ActivitySet struct {
	order []ActivityKey
	items map[ActivityKey]*Activity
}

// MergeActivities combines lists into one set. On key collision a later list
// overwrites the earlier entry but keeps its position. Inputs are not modified.
func MergeActivities(lists ...[]*Activity) *ActivitySet {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	set := &ActivitySet{
		order: make([]ActivityKey, 0, total),
		items: make(map[ActivityKey]*Activity, total),
	}

	for _, list := range lists {
		for _, a := range list {
			if a == nil {
				continue
			}
			key := a.Key()
			if _, ok := set.items[key]; !ok {
				set.order = append(set.order, key)
			}
			set.items[key] = a
		}
	}

	return set
}

// Len returns the number of distinct activities
func (s *ActivitySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get looks up an activity by key
func (s *ActivitySet) Get(key ActivityKey) (*Activity, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.items[key]
	return a, ok
}

// List returns activities in first-appearance order
func (s *ActivitySet) List() []*Activity {
	if s == nil {
		return nil
	}
	out := make([]*Activity, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.items[key])
	}
	return out
}

// Sorted returns activities ordered by time ascending, then kind and id
func (s *ActivitySet) Sorted() []*Activity {
	out := s.List()
	SortByWhen(out, false)
	return out
}

// SortByWhen sorts activities in place by time. Ties break on kind then id so
// the order is total.
func SortByWhen(items []*Activity, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		ta, tb := a.When.Time(), b.When.Time()
		if !ta.Equal(tb) {
			if desc {
				return ta.After(tb)
			}
			return ta.Before(tb)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
}
