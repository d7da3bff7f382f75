// Package vtree defines the node tree produced by the expression evaluator
// and consumed by the patch engine.
//
// A tree position holds one of three concrete node types: *Element for
// composite nodes, *Text for primitive values, and *Comment for explicitly
// ignored values (nil and false render as comment placeholders so that the
// position keeps a stable slot on the surface).
package vtree

import (
	"sort"
	"strings"

	"github.com/saplingui/sapling/pkg/vals"
)

// Node is implemented by *Element, *Text and *Comment.
type Node interface {
	node()
}

// Element is a composite node: a tag from the leaf-constructor catalog,
// canonical props, and ordered children.
//
// Children entries are either Nodes or nested []any fragments produced by
// components that returned a sequence of nodes. Fragment nesting is
// preserved so a fragment can later be substituted as a unit; use Flatten to
// obtain the flat child sequence.
type Element struct {
	Tag      string
	Props    vals.Map
	Children []any
	Key      string

	// Binding is a placeholder for whatever the patch engine attaches to the
	// element (the surface element it committed to). It is nil on freshly
	// evaluated elements.
	Binding any
}

// Text is a leaf node holding a primitive value's text content.
type Text struct {
	Content string
}

// Comment is the placeholder left behind by an ignored value.
type Comment struct {
	Content string
}

func (*Element) node() {}
func (*Text) node()    {}
func (*Comment) node() {}

// RefID returns the identity path recorded in the element's props, or "".
func (el *Element) RefID() string {
	return vals.IndexString(el.Props, "refId")
}

// Attrs returns the element's props as a plain attribute map, skipping the
// engine's bookkeeping keys and non-primitive values.
func (el *Element) Attrs() map[string]string {
	attrs := make(map[string]string)
	if el.Props == nil {
		return attrs
	}
	for it := el.Props.Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		name, ok := k.(string)
		if !ok || reservedAttr(name) {
			continue
		}
		switch v.(type) {
		case string, int, float64, bool:
			attrs[name] = vals.ToString(v)
		}
	}
	return attrs
}

func reservedAttr(name string) bool {
	switch name {
	case "children", "key", "shouldUpdate", "refId", "previousRefId":
		return true
	}
	return false
}

// Flatten resolves one children sequence into a flat node list, splicing
// nested fragments in order.
func Flatten(children []any) []Node {
	var out []Node
	var walk func(vs []any)
	walk = func(vs []any) {
		for _, v := range vs {
			switch v := v.(type) {
			case nil:
			case []any:
				walk(v)
			case Node:
				out = append(out, v)
			}
		}
	}
	walk(children)
	return out
}

// Sketch renders the subtree as an indented outline, useful in tests and
// error messages.
func Sketch(n Node) string {
	var sb strings.Builder
	sketch(&sb, n, "")
	return sb.String()
}

func sketch(sb *strings.Builder, n Node, indent string) {
	switch n := n.(type) {
	case *Text:
		sb.WriteString(indent + "text " + quoteIfNeeded(n.Content) + "\n")
	case *Comment:
		sb.WriteString(indent + "comment\n")
	case *Element:
		sb.WriteString(indent + n.Tag)
		if n.Key != "" {
			sb.WriteString(" key=" + n.Key)
		}
		attrs := n.Attrs()
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(" " + name + "=" + quoteIfNeeded(attrs[name]))
		}
		sb.WriteString("\n")
		for _, child := range Flatten(n.Children) {
			sketch(sb, child, indent+"  ")
		}
	}
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t\n") || s == "" {
		return "\"" + s + "\""
	}
	return s
}
