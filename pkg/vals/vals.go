// Package vals defines the dynamic value model shared by the expression
// evaluator and the node tree.
//
// Values are typed any, and may be one of the following:
//
//   - nil
//   - bool
//   - string
//   - int or float64
//   - List, an immutable list
//   - Map, an immutable map
//   - Any other type, treated as opaque by this package.
//
// Lisp expressions themselves are ordinary Go slices ([]any); they only
// become Lists when a component chooses to store them in props.
package vals

import (
	"github.com/xiaq/persistent/hashmap"
	"github.com/xiaq/persistent/vector"
)

// List is the underlying type used for immutable lists.
type List = vector.Vector

// EmptyList is an empty list.
var EmptyList = vector.Empty

// Map is the underlying type used for immutable maps.
type Map = hashmap.Map

// EmptyMap is an empty map.
var EmptyMap = hashmap.New(Equal, Hash)

// MakeList creates a new List from values.
func MakeList(vs ...any) List {
	l := EmptyList
	for _, v := range vs {
		l = l.Cons(v)
	}
	return l
}

// MakeMap creates a map from arguments that are alternately keys and values.
// It panics if the number of arguments is odd.
func MakeMap(a ...any) Map {
	if len(a)%2 == 1 {
		panic("odd number of arguments to MakeMap")
	}
	m := EmptyMap
	for i := 0; i < len(a); i += 2 {
		m = m.Assoc(a[i], a[i+1])
	}
	return m
}

// Index returns the value associated with k in m, or nil if there is none.
// A nil m has no values.
func Index(m Map, k any) any {
	if m == nil {
		return nil
	}
	v, _ := m.Index(k)
	return v
}

// HasKey reports whether m has a value associated with k.
func HasKey(m Map, k any) bool {
	if m == nil {
		return false
	}
	_, ok := m.Index(k)
	return ok
}

// IndexString is like Index, but also converts the result to a string. It
// returns "" if the key is absent or the value is not a string.
func IndexString(m Map, k any) string {
	if s, ok := Index(m, k).(string); ok {
		return s
	}
	return ""
}
