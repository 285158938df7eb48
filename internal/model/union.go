package model

import (
	"sort"
	"strings"
)

// Delimiter separates the members of a multi-valued field.
const Delimiter = ";"

// OrderedSet collects multi-valued field members and renders them as a
// sorted, de-duplicated, Delimiter-joined string. Members that are already
// joined strings are split first, so merging a merged value is a no-op.
type OrderedSet struct {
	items map[string]struct{}
	skip  func(string) bool
}

// NewOrderedSet returns an empty set. skip, when non-nil, rejects members
// after trimming (blank members are always rejected).
func NewOrderedSet(skip func(string) bool) *OrderedSet {
	return &OrderedSet{items: make(map[string]struct{}), skip: skip}
}

// Add inserts values into the set.
func (s *OrderedSet) Add(values ...string) {
	for _, v := range values {
		for _, part := range strings.Split(v, Delimiter) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if s.skip != nil && s.skip(part) {
				continue
			}
			s.items[part] = struct{}{}
		}
	}
}

// Len returns the number of distinct members.
func (s *OrderedSet) Len() int {
	return len(s.items)
}

// Members returns the sorted members.
func (s *OrderedSet) Members() []string {
	out := make([]string, 0, len(s.items))
	for k := range s.items {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// String joins the sorted members with Delimiter.
func (s *OrderedSet) String() string {
	return strings.Join(s.Members(), Delimiter)
}

// UnionJoin merges values into a sorted, de-duplicated, Delimiter-joined string.
func UnionJoin(values ...string) string {
	s := NewOrderedSet(nil)
	s.Add(values...)
	return s.String()
}

// IsNullToken reports whether v is a textual null marker ("na", "nan", "none").
func IsNullToken(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "na", "nan", "none":
		return true
	}
	return false
}
