// Package scene loads declarative scene files: yaml documents describing an
// element tree, decoded into lisp expressions over a leaf-constructor
// catalog.
//
// A scene node is a mapping with a "tag" (required), optional "props" (a
// string-keyed mapping) and optional "children" (a sequence of nodes or
// plain scalars):
//
//	tag: div
//	props: {class: app}
//	children:
//	  - tag: h1
//	    children: ["hello"]
//	  - plain text
package scene

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saplingui/sapling/pkg/errutil"
	"github.com/saplingui/sapling/pkg/render"
	"github.com/saplingui/sapling/pkg/vals"
)

// Node is one decoded scene node.
type Node struct {
	Tag      string         `yaml:"tag"`
	Props    map[string]any `yaml:"props"`
	Children []childNode    `yaml:"children"`
}

// childNode accepts either a nested node or a plain scalar.
type childNode struct {
	node   *Node
	scalar any
}

func (c *childNode) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.MappingNode {
		var n Node
		if err := value.Decode(&n); err != nil {
			return err
		}
		c.node = &n
		return nil
	}
	return value.Decode(&c.scalar)
}

// Load reads and decodes a scene file.
func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode decodes scene yaml.
func Decode(data []byte) (*Node, error) {
	var n Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if n.Tag == "" {
		return nil, fmt.Errorf("decode scene: root node has no tag")
	}
	return &n, nil
}

// Expr converts the node into a lisp expression over the given catalog.
// Unknown tags anywhere in the tree are reported together.
func (n *Node) Expr(catalog render.Catalog) (any, error) {
	ctor, ok := catalog[n.Tag]
	if !ok {
		return nil, fmt.Errorf("scene: unknown tag %q", n.Tag)
	}
	expr := []any{ctor}
	if len(n.Props) > 0 {
		props := vals.EmptyMap
		for k, v := range n.Props {
			props = props.Assoc(k, normalize(v))
		}
		expr = append(expr, props)
	}
	var errs error
	for _, child := range n.Children {
		if child.node != nil {
			sub, err := child.node.Expr(catalog)
			if err != nil {
				errs = errutil.Join(errs, err)
				continue
			}
			expr = append(expr, sub)
		} else {
			expr = append(expr, normalize(child.scalar))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return expr, nil
}

// normalize maps yaml's scalar types onto the evaluator's value model.
func normalize(v any) any {
	switch v := v.(type) {
	case nil, bool, int, float64, string:
		return v
	case int64:
		return int(v)
	default:
		return fmt.Sprint(v)
	}
}
