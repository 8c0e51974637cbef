package model

import (
	"sort"
	"strings"
)

// TagSet is an unordered set of labels compared case-insensitively.
// Labels are trimmed and lowercased on insert; blank labels are dropped.
type TagSet map[string]struct{}

// NormalizeLabel returns the canonical form used for set membership.
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// NewTagSet builds a TagSet from raw labels.
func NewTagSet(labels ...string) TagSet {
	t := make(TagSet, len(labels))
	for _, l := range labels {
		t.Add(l)
	}
	return t
}

// Add inserts a label. Blank labels are ignored. A nil set is allocated on
// first insert, so zero-value Provider and Seeker sets can be filled.
func (t *TagSet) Add(label string) {
	n := NormalizeLabel(label)
	if n == "" {
		return
	}
	if *t == nil {
		*t = make(TagSet)
	}
	(*t)[n] = struct{}{}
}

// Has reports whether label is in the set.
func (t TagSet) Has(label string) bool {
	_, ok := t[NormalizeLabel(label)]
	return ok
}

// Len returns the number of distinct labels. Safe on a nil set.
func (t TagSet) Len() int { return len(t) }

// Values returns the labels in sorted order.
func (t TagSet) Values() []string {
	out := make([]string, 0, len(t))
	for l := range t {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the labels present in both sets, sorted.
func (t TagSet) Intersect(other TagSet) []string {
	small, large := t, other
	if len(large) < len(small) {
		small, large = large, small
	}
	var out []string
	for l := range small {
		if _, ok := large[l]; ok {
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// UnionLen returns |t ∪ other|.
func (t TagSet) UnionLen(other TagSet) int {
	return len(t) + len(other) - len(t.Intersect(other))
}
