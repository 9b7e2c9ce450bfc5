package gff

import (
	"slices"
	"sort"
)

// Attributes maps tag names to ordered value lists. Tags are unique and
// remember the order in which they were first added; that order is used
// when writing GFF3 and for the trailing tags of a GTF line.
//
// A nil *Attributes reads as empty.
type Attributes struct {
	keys   []string
	values map[string][]string
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string][]string)}
}

// AttributesFromMap builds an attribute set from m. Map iteration order is
// random, so tags are added in sorted order.
func AttributesFromMap(m map[string][]string) *Attributes {
	a := NewAttributes()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		a.Set(k, m[k]...)
	}
	return a
}

func (a *Attributes) init() {
	if a.values == nil {
		a.values = make(map[string][]string)
	}
}

// Set replaces the values of tag. A tag that already exists keeps its position.
func (a *Attributes) Set(tag string, values ...string) {
	a.init()
	if _, ok := a.values[tag]; !ok {
		a.keys = append(a.keys, tag)
	}
	a.values[tag] = append(make([]string, 0, len(values)), values...)
}

// Add appends values to tag, creating it if needed.
func (a *Attributes) Add(tag string, values ...string) {
	a.init()
	cur, ok := a.values[tag]
	if !ok {
		a.keys = append(a.keys, tag)
		cur = make([]string, 0, len(values))
	}
	a.values[tag] = append(cur, values...)
}

// Get returns the values of tag, or nil if it is absent. The returned slice
// must not be modified.
func (a *Attributes) Get(tag string) []string {
	if a == nil {
		return nil
	}
	return a.values[tag]
}

// First returns the first value of tag.
func (a *Attributes) First(tag string) (string, bool) {
	vals := a.Get(tag)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Has reports whether tag is present, even with no values.
func (a *Attributes) Has(tag string) bool {
	if a == nil {
		return false
	}
	_, ok := a.values[tag]
	return ok
}

// Delete removes tag.
func (a *Attributes) Delete(tag string) {
	if !a.Has(tag) {
		return
	}
	delete(a.values, tag)
	a.keys = slices.DeleteFunc(a.keys, func(k string) bool { return k == tag })
}

// Len returns the number of tags.
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Keys returns the tags in insertion order.
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	return slices.Clone(a.keys)
}

// SortedKeys returns the tags in lexicographic order.
func (a *Attributes) SortedKeys() []string {
	keys := a.Keys()
	sort.Strings(keys)
	return keys
}

// Copy returns a deep copy: the map and every value slice are duplicated.
func (a *Attributes) Copy() *Attributes {
	c := NewAttributes()
	if a == nil {
		return c
	}
	for _, k := range a.keys {
		c.Set(k, a.values[k]...)
	}
	return c
}

// Map returns a copy of the attributes as a plain map.
func (a *Attributes) Map() map[string][]string {
	m := make(map[string][]string, a.Len())
	if a == nil {
		return m
	}
	for _, k := range a.keys {
		m[k] = slices.Clone(a.values[k])
	}
	return m
}

// Equal reports whether a and b hold the same tags with the same ordered
// values. Tag order is ignored.
func (a *Attributes) Equal(b *Attributes) bool {
	if a.Len() != b.Len() {
		return false
	}
	for _, k := range a.Keys() {
		if !b.Has(k) || !slices.Equal(a.Get(k), b.Get(k)) {
			return false
		}
	}
	return true
}
