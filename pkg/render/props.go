package render

import (
	"strconv"

	"github.com/saplingui/sapling/pkg/vals"
)

// parsed is the outcome of parsing one expression's arguments: the
// canonical props, the resolved identity, and the pieces recorded in the
// memoization store.
type parsed struct {
	props    vals.Map
	refID    string
	key      string // resolved key; "" when only a structural default applies
	children []any
	update   func(old, new vals.Map) bool
}

// parseProps separates an optional leading configuration map from the
// positional arguments of expr, resolves the key and identity path, and
// merges everything into a canonical props map.
//
// inheritedKey is the structural default segment supplied by the caller (a
// collection index, the body marker, or the render seed); an explicit "key"
// in the configuration wins over it.
//
// When evalChildren is set (leaf-constructor calls), positional arguments
// are evaluated recursively under the resolved identity; otherwise
// (component calls) they are passed through raw.
func (c *Ctx) parseProps(expr []any, path, inheritedKey string, evalChildren bool) (*parsed, error) {
	var config vals.Map
	args := expr[1:]
	if len(args) > 0 {
		if m, ok := args[0].(vals.Map); ok {
			config = m
			args = args[1:]
		}
	}

	p := &parsed{}
	segment := inheritedKey
	if config != nil {
		if k, ok := config.Index("key"); ok {
			if err := c.checkKey(k); err != nil {
				return nil, err
			}
			// Outside dev mode a non-string key still needs converting; a
			// truly malformed one becomes a malformed path downstream.
			if s, ok := keyString(k); ok {
				p.key = s
				segment = s
			}
		}
		if u, ok := config.Index("shouldUpdate"); ok {
			if f, ok := u.(func(old, new vals.Map) bool); ok {
				p.update = f
			}
		}
	}

	// A previousRefId override bypasses path computation entirely: the
	// invocation must resolve to the same identity as the node it replaces.
	if prev := vals.IndexString(config, "previousRefId"); prev != "" {
		p.refID = prev
	} else {
		p.refID = joinPath(path, segment)
	}

	// Children: either the reserved prop or positional arguments, never
	// both.
	explicitChildren, hasChildrenProp := any(nil), false
	if config != nil {
		explicitChildren, hasChildrenProp = config.Index("children")
	}
	if hasChildrenProp && len(args) > 0 {
		return nil, ErrChildrenConflict
	}
	rawChildren := args
	if hasChildrenProp {
		rawChildren = childSlice(explicitChildren)
	}
	if evalChildren {
		p.children = make([]any, len(rawChildren))
		for i, arg := range rawChildren {
			v, err := c.eval(arg, p.refID, strconv.Itoa(i), "")
			if err != nil {
				return nil, err
			}
			p.children[i] = v
		}
	} else {
		p.children = rawChildren
	}

	// Merge. User props are copied with the reserved keys filtered out;
	// children and refId are injected last so user input cannot shadow
	// them.
	props := vals.EmptyMap
	if config != nil {
		for it := config.Iterator(); it.HasElem(); it.Next() {
			k, v := it.Elem()
			if name, ok := k.(string); ok && reservedProp(name) {
				continue
			}
			props = props.Assoc(k, v)
		}
	}
	if p.key != "" {
		props = props.Assoc("key", p.key)
	}
	props = props.Assoc("children", p.children)
	props = props.Assoc("refId", p.refID)
	p.props = props
	return p, nil
}

func reservedProp(name string) bool {
	switch name {
	case "children", "key", "shouldUpdate", "previousRefId", "refId":
		return true
	}
	return false
}

// childSlice normalizes an explicit "children" prop to a slice.
func childSlice(v any) []any {
	switch v := v.(type) {
	case nil:
		return nil
	case []any:
		return v
	case vals.List:
		out := make([]any, 0, v.Len())
		for it := v.Iterator(); it.HasElem(); it.Next() {
			out = append(out, it.Elem())
		}
		return out
	default:
		return []any{v}
	}
}
