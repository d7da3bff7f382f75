package render

import (
	"strconv"

	"github.com/saplingui/sapling/pkg/vals"
	"github.com/saplingui/sapling/pkg/vtree"
)

// eval is the recursive expression evaluator. path and key form the
// identity context: key is the structural default segment for this
// position, overridden by an explicit key in the expression's config.
//
// carry implements key propagation: when a component call carries a key but
// its result is not itself a leaf node, the key is threaded down so that
// whichever descendant eventually becomes a leaf node inherits it.
func (c *Ctx) eval(v any, path, key, carry string) (any, error) {
	switch classify(v) {
	case classPrimitive:
		return &vtree.Text{Content: vals.ToString(v)}, nil

	case classIgnored:
		return &vtree.Comment{}, nil

	case classPreBuilt:
		return carryOnto(v.(vtree.Node), carry), nil

	case classCollection:
		elems := collectionSlice(v)
		out := make([]any, len(elems))
		base := joinPath(path, itemMarker)
		for i, elem := range elems {
			res, err := c.eval(elem, base, strconv.Itoa(i), "")
			if err != nil {
				return nil, err
			}
			out[i] = res
		}
		return out, nil

	case classLeafCall:
		return c.evalLeafCall(v.([]any), path, key, carry)

	case classComponentCall:
		return c.evalComponentCall(v.([]any), path, key, carry)

	default: // classOpaque
		if c.cfg.DevMode {
			return nil, BadLeafError{Value: v}
		}
		// Pass through; the patch engine will reject it if it is truly
		// unusable.
		return v, nil
	}
}

// evalLeafCall invokes a leaf constructor. Its arguments are evaluated
// eagerly, so the constructed element's children are fully resolved nodes.
func (c *Ctx) evalLeafCall(expr []any, path, key, carry string) (any, error) {
	ctor := expr[0].(*LeafCtor)
	p, err := c.parseProps(expr, path, key, true)
	if err != nil {
		return nil, err
	}
	if old, ok := c.memoized(p); ok {
		return old, nil
	}
	c.cfgs[p.refID] = &renderConfig{
		props: p.props, key: p.key, ctor: ctor, shouldUpdate: p.update,
	}
	el := ctor.Make(p.props, p.children)
	n := carryOnto(el, carry)
	c.complete(p.refID, n)
	return n, nil
}

// evalComponentCall invokes a component function with its raw arguments and
// evaluates whatever it returns one identity level below the call site.
func (c *Ctx) evalComponentCall(expr []any, path, key, carry string) (any, error) {
	comp, _ := asComponent(expr[0])
	p, err := c.parseProps(expr, path, key, false)
	if err != nil {
		return nil, err
	}
	if old, ok := c.memoized(p); ok {
		return old, nil
	}
	// The config must be current before the function runs, so that hook
	// access during the invocation observes a consistent view.
	c.cfgs[p.refID] = &renderConfig{
		props: p.props, key: p.key, ctor: comp, shouldUpdate: p.update,
	}
	ret := comp(c, p.props)
	carryOut := carry
	if p.key != "" {
		carryOut = p.key
	}
	res, err := c.eval(ret, p.refID, bodyMarker, carryOut)
	if err != nil {
		return nil, err
	}
	c.complete(p.refID, res)
	return res, nil
}

// memoized consults the memoization store. The invocation is skipped only
// when a previous config and result exist at the refId and the
// caller-supplied predicate judges the props unchanged; an absent predicate
// means always re-invoke.
func (c *Ctx) memoized(p *parsed) (any, bool) {
	if p.update == nil {
		return nil, false
	}
	prev, ok := c.cfgs[p.refID]
	if !ok {
		return nil, false
	}
	old, ok := c.refs[p.refID]
	if !ok {
		return nil, false
	}
	if p.update(prev.props, p.props) {
		return nil, false
	}
	return old, true
}

// carryOnto attaches an inherited key to a node that has none. The node is
// copied rather than mutated, since pre-built nodes may be shared.
func carryOnto(n vtree.Node, carry string) vtree.Node {
	if carry == "" {
		return n
	}
	el, ok := n.(*vtree.Element)
	if !ok || el.Key != "" {
		return n
	}
	keyed := *el
	keyed.Key = carry
	props := el.Props
	if props == nil {
		props = vals.EmptyMap
	}
	keyed.Props = props.Assoc("key", carry)
	return &keyed
}

// collectionSlice converts a plain collection to a slice.
func collectionSlice(v any) []any {
	switch v := v.(type) {
	case []any:
		return v
	case vals.List:
		out := make([]any, 0, v.Len())
		for it := v.Iterator(); it.HasElem(); it.Next() {
			out = append(out, it.Elem())
		}
		return out
	}
	return nil
}
