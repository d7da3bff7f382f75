package render

import (
	"github.com/saplingui/sapling/pkg/vals"
	"github.com/saplingui/sapling/pkg/vtree"
)

// Component is a component function: it receives the canonical props of its
// invocation and returns a further value to be evaluated: another
// expression, a collection, a primitive, or nil.
//
// Components do not receive their arguments evaluated; positional arguments
// are available, raw, under the "children" prop.
type Component func(c *Ctx, props vals.Map) any

// LeafCtor is a leaf constructor wrapped with identity metadata. It
// produces a composite node directly; the evaluator recognizes the wrapper
// and eagerly evaluates its arguments first.
type LeafCtor struct {
	Tag  string
	make vtree.Ctor
}

// Leaf wraps one constructor from a catalog.
func Leaf(tag string, fn vtree.Ctor) *LeafCtor {
	return &LeafCtor{Tag: tag, make: fn}
}

// Make invokes the wrapped constructor.
func (lc *LeafCtor) Make(props vals.Map, children []any) *vtree.Element {
	return lc.make(props, children)
}

// Catalog maps tag names to wrapped leaf constructors.
type Catalog map[string]*LeafCtor

// NewCatalog wraps every constructor of an external catalog.
func NewCatalog(tags map[string]vtree.Ctor) Catalog {
	c := make(Catalog, len(tags))
	for tag, fn := range tags {
		c[tag] = Leaf(tag, fn)
	}
	return c
}

// Builtin wraps the built-in tag catalog.
var Builtin = NewCatalog(vtree.Tags)

// class is the closed classification of a value position, computed once per
// node instead of probing types throughout the evaluator.
type class int

const (
	classPrimitive class = iota
	classIgnored
	classPreBuilt
	classCollection
	classLeafCall
	classComponentCall
	classOpaque
)

// asComponent recognizes component functions both as the named Component
// type and as the equivalent unnamed func type, which is what a plain
// function ends up as when stored in a []any expression.
func asComponent(v any) (Component, bool) {
	switch f := v.(type) {
	case Component:
		return f, true
	case func(*Ctx, vals.Map) any:
		return f, true
	}
	return nil, false
}

func isCallable(v any) bool {
	if _, ok := v.(*LeafCtor); ok {
		return true
	}
	_, ok := asComponent(v)
	return ok
}

// classify determines how the evaluator treats one value. A sequence is an
// expression iff its first element is callable; otherwise it is a plain
// collection mapped element-wise.
func classify(v any) class {
	switch v := v.(type) {
	case nil:
		return classIgnored
	case bool:
		if v {
			return classPrimitive
		}
		return classIgnored
	case string, int, float64:
		return classPrimitive
	case vtree.Node:
		return classPreBuilt
	case []any:
		if len(v) > 0 && isCallable(v[0]) {
			if _, ok := v[0].(*LeafCtor); ok {
				return classLeafCall
			}
			return classComponentCall
		}
		return classCollection
	case vals.List:
		return classCollection
	default:
		return classOpaque
	}
}
