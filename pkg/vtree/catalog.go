package vtree

import "github.com/saplingui/sapling/pkg/vals"

// Ctor constructs an Element for one tag. The children passed in are already
// evaluated; they are stored on the element as-is.
type Ctor func(props vals.Map, children []any) *Element

// Tags is the catalog of built-in leaf constructors, keyed by tag name. The
// render package wraps each entry with identity metadata so the evaluator
// can tell a leaf constructor apart from an opaque component function.
var Tags = map[string]Ctor{}

func init() {
	for _, tag := range []string{
		"div", "span", "p", "a", "img",
		"h1", "h2", "h3",
		"ul", "ol", "li",
		"table", "tr", "td",
		"form", "input", "button", "label", "textarea",
		"header", "footer", "main", "section", "nav",
	} {
		Tags[tag] = makeCtor(tag)
	}
}

func makeCtor(tag string) Ctor {
	return func(props vals.Map, children []any) *Element {
		return &Element{
			Tag:      tag,
			Props:    props,
			Children: children,
			Key:      vals.IndexString(props, "key"),
		}
	}
}
