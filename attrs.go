package htmlmeta

import (
	"slices"
	"sort"
)

// AttributeFilter projects attribute lists onto an allow-list.
type AttributeFilter struct {
	keep map[string]struct{}
	all  bool
}

// NewAttributeFilter returns a filter keeping the named attributes.
// A nil slice keeps every attribute.
func NewAttributeFilter(keep []string) *AttributeFilter {
	f := &AttributeFilter{all: keep == nil, keep: make(map[string]struct{}, len(keep))}
	for _, name := range keep {
		f.keep[name] = struct{}{}
	}
	return f
}

// Filter returns the allowed attributes in their original order. When a
// name occurs more than once only the first occurrence is kept.
func (f *AttributeFilter) Filter(attrs []Attr) Attrs {
	out := Attrs{Names: []string{}, Values: []string{}}
	for _, a := range attrs {
		if !f.Allowed(a.Key) || slices.Contains(out.Names, a.Key) {
			continue
		}
		out.Names = append(out.Names, a.Key)
		out.Values = append(out.Values, a.Val)
	}
	return out
}

// FilterMap is Filter for attributes held in a map. Names are ordered
// lexically since maps carry no order.
func (f *AttributeFilter) FilterMap(attrs map[string]string) Attrs {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]Attr, 0, len(names))
	for _, name := range names {
		list = append(list, Attr{Key: name, Val: attrs[name]})
	}
	return f.Filter(list)
}

// Allowed reports whether the named attribute passes the filter.
func (f *AttributeFilter) Allowed(name string) bool {
	if f.all {
		return true
	}
	_, ok := f.keep[name]
	return ok
}
