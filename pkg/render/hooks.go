package render

import (
	"strings"

	"github.com/saplingui/sapling/pkg/model"
	"github.com/saplingui/sapling/pkg/vals"
	"github.com/saplingui/sapling/pkg/vtree"
)

// ModelOpts configures UseModelOpts.
type ModelOpts struct {
	// Cleanup decides, at teardown time, whether the cell is deleted from
	// its registry when the owning node is destroyed. Nil means always
	// delete.
	Cleanup func() bool
}

// UseModel returns the reactive state cell named name, scoped to the
// calling component's subtree root. The cell is created lazily with init,
// which may be a plain value or a func() any producer.
//
// A watcher bound to the calling component is attached every render pass:
// any mutation of the cell forces a re-render of that component. When the
// component's node is torn down, the watcher is removed and the cell
// deleted from the registry.
//
// props must be the props the component was invoked with; UseModel panics
// if they carry no refId, which means they did not come from the evaluator.
func (c *Ctx) UseModel(props vals.Map, name string, init any) *model.Cell {
	return c.UseModelOpts(props, name, init, ModelOpts{})
}

// UseModelOpts is UseModel with explicit options.
func (c *Ctx) UseModelOpts(props vals.Map, name string, init any, opts ModelOpts) *model.Cell {
	refID := vals.IndexString(props, "refId")
	if refID == "" {
		panic("render: UseModel needs props with a refId; pass the props the component was invoked with")
	}
	root := rootOf(refID)
	reg := c.models[root]
	if reg == nil {
		reg = model.NewRegistry()
		c.models[root] = reg
	}
	cell := reg.Cell(name, init)

	watcherID := refID + "#" + name
	c.gen++
	gen := c.gen
	c.watchGen[watcherID] = gen
	cell.AddWatch(watcherID, func(_, _ any) {
		if err := c.ForceUpdate(refID); err != nil {
			c.logger.Println("forced update of", refID, "failed:", err)
		}
	})
	c.onTeardown(refID, watcherID, func() {
		// Stale-watcher guard: if a later pass re-attached this watcher, a
		// node at this identity is still alive and the hook stays.
		if c.watchGen[watcherID] != gen {
			return
		}
		cell.RemoveWatch(watcherID)
		delete(c.watchGen, watcherID)
		if opts.Cleanup == nil || opts.Cleanup() {
			reg.Delete(name)
		}
	})
	return cell
}

// ForceUpdate re-runs the component at refID with its last-known props,
// bypassing memoization, and re-binds the tree-value store to the new
// result. When called while a render pass is active (a model mutation
// during render), the request is queued and drained once the pass has
// completed, keeping recursion bounded and ordering deterministic.
func (c *Ctx) ForceUpdate(refID string) error {
	if c.rendering {
		c.queue = append(c.queue, refID)
		return nil
	}
	c.rendering = true
	err := c.forceUpdate1(refID)
	c.rendering = false
	if err != nil {
		c.queue = nil
		return err
	}
	return c.drain()
}

// drain runs queued re-renders until none are left or the depth limit is
// hit.
func (c *Ctx) drain() error {
	for drained := 0; len(c.queue) > 0; drained++ {
		if drained >= c.cfg.MaxDepth {
			c.queue = nil
			return ErrTooManyUpdates
		}
		id := c.queue[0]
		c.queue = c.queue[1:]
		c.rendering = true
		err := c.forceUpdate1(id)
		c.rendering = false
		if err != nil {
			c.queue = nil
			return err
		}
	}
	return nil
}

func (c *Ctx) forceUpdate1(refID string) error {
	cfg, ok := c.cfgs[refID]
	if !ok {
		return UnknownRefError{RefID: refID}
	}
	old, ok := c.refs[refID]
	if !ok {
		return UnknownRefError{RefID: refID}
	}

	var newVal any
	switch ctor := cfg.ctor.(type) {
	case *LeafCtor:
		el := ctor.Make(cfg.props, childrenOf(cfg.props))
		newVal = carryOnto(el, cfg.key)
	case Component:
		// previousRefId marks this as a forced re-render resolving to the
		// same identity as the node being replaced.
		ret := ctor(c, cfg.props.Assoc("previousRefId", refID))
		v, err := c.eval(ret, refID, bodyMarker, cfg.key)
		if err != nil {
			return err
		}
		newVal = v
	default:
		return UnknownRefError{RefID: refID}
	}

	if isFragment(old) || isFragment(newVal) {
		return c.commitFragment(refID, old, newVal)
	}
	return c.commitSingle(refID, old, newVal)
}

// commitSingle handles a forced update whose previous result was a single
// node: the node is patched against its own committed self, and every
// holder of the old value is re-bound through the store.
func (c *Ctx) commitSingle(refID string, old, newVal any) error {
	committed := newVal
	if c.cfg.Patch != nil {
		if oldN, ok := old.(vtree.Node); ok {
			if newN, ok := newVal.(vtree.Node); ok {
				n, err := c.cfg.Patch(oldN, newN)
				if err != nil {
					return err
				}
				committed = n
			}
		}
	}
	c.refs[refID] = committed
	c.rebind(refID, old, committed)
	return nil
}

// commitFragment handles a forced update involving a fragment. A fragment
// has no owning node of its own to patch, so the nearest ancestor composite
// node is located by walking the identity path upward, rebuilt with the old
// fragment's slots substituted, and patched against its previous self.
func (c *Ctx) commitFragment(refID string, old, newVal any) error {
	ancID, oldAnc := c.nearestElementAncestor(refID)
	c.refs[refID] = newVal
	c.rebind(refID, old, newVal)
	if oldAnc == nil || c.cfg.Patch == nil {
		return nil
	}
	newAnc, ok := c.refs[ancID].(*vtree.Element)
	if !ok || newAnc == oldAnc {
		return nil
	}
	committed, err := c.cfg.Patch(oldAnc, newAnc)
	if err != nil {
		return err
	}
	c.refs[ancID] = committed
	return nil
}

// nearestElementAncestor walks the identity path upward through the
// tree-value store until it finds a committed composite node.
func (c *Ctx) nearestElementAncestor(refID string) (string, *vtree.Element) {
	for p := parentPath(refID); p != ""; p = parentPath(p) {
		if el, ok := c.refs[p].(*vtree.Element); ok {
			return p, el
		}
	}
	return "", nil
}

// rebind replaces old with new in every committed ancestor value. Holders
// reference nodes through the store by refId, so "update in place" is a
// matter of re-binding each ancestor entry; ancestor elements containing
// the old value get a rebuilt child sequence, recursing through nested
// fragments.
func (c *Ctx) rebind(refID string, oldV, newV any) {
	for cur := parentPath(refID); cur != ""; cur = parentPath(cur) {
		pv, ok := c.refs[cur]
		if !ok {
			continue
		}
		switch {
		case sameValue(pv, oldV):
			c.refs[cur] = newV
		default:
			if el, ok := pv.(*vtree.Element); ok {
				if nc, changed := substitute(el.Children, oldV, newV); changed {
					rebuilt := *el
					rebuilt.Children = nc
					c.refs[cur] = &rebuilt
					oldV, newV = any(el), any(&rebuilt)
				}
			} else if frag, ok := pv.([]any); ok {
				if nf, changed := substitute(frag, oldV, newV); changed {
					c.refs[cur] = nf
					oldV, newV = any(frag), any(nf)
				}
			}
		}
	}
}

// substitute returns children with the entry matching oldV replaced by
// newV, descending into nested fragments. The original slice is returned
// unchanged if nothing matched.
func substitute(children []any, oldV, newV any) ([]any, bool) {
	out := make([]any, len(children))
	changed := false
	for i, ch := range children {
		switch {
		case sameValue(ch, oldV):
			out[i] = newV
			changed = true
		default:
			if frag, ok := ch.([]any); ok {
				if nf, ok := substitute(frag, oldV, newV); ok {
					out[i] = nf
					changed = true
					continue
				}
			}
			out[i] = ch
		}
	}
	if !changed {
		return children, false
	}
	return out, true
}

// sameValue reports identity: pointer equality for nodes, backing-array
// identity for fragments.
func sameValue(a, b any) bool {
	if an, ok := a.(vtree.Node); ok {
		bn, ok := b.(vtree.Node)
		return ok && an == bn
	}
	if as, ok := a.([]any); ok {
		bs, ok := b.([]any)
		if !ok || len(as) != len(bs) {
			return false
		}
		return len(as) == 0 || &as[0] == &bs[0]
	}
	return false
}

func isFragment(v any) bool {
	_, ok := v.([]any)
	return ok
}

func childrenOf(props vals.Map) []any {
	if cs, ok := vals.Index(props, "children").([]any); ok {
		return cs
	}
	return nil
}

// onTeardown registers a teardown callback for the given identity under a
// named slot; re-registering the same slot replaces the callback instead of
// accumulating one per render pass.
func (c *Ctx) onTeardown(refID, slot string, f func()) {
	m := c.teardowns[refID]
	if m == nil {
		m = make(map[string]func())
		c.teardowns[refID] = m
	}
	m[slot] = f
}

// TeardownNode runs teardown for every identity found in a removed
// subtree. The patch engine calls this for nodes it removes from the
// surface.
func (c *Ctx) TeardownNode(n vtree.Node) {
	el, ok := n.(*vtree.Element)
	if !ok {
		return
	}
	if id := el.RefID(); id != "" {
		c.Teardown(id)
	}
	for _, child := range vtree.Flatten(el.Children) {
		c.TeardownNode(child)
	}
}

// Teardown runs the teardown callbacks registered at refID and every
// descendant identity, and evicts their memoization entries. The component
// call that produced the node at refID is included: its identity is the
// path with trailing body markers stripped.
func (c *Ctx) Teardown(refID string) {
	id := refID
	for strings.HasSuffix(id, pathSep+bodyMarker) {
		id = strings.TrimSuffix(id, pathSep+bodyMarker)
	}
	for owner, slots := range c.teardowns {
		if underPath(owner, id) {
			for _, f := range slots {
				f()
			}
			delete(c.teardowns, owner)
		}
	}
	for cfgID := range c.cfgs {
		if underPath(cfgID, id) {
			delete(c.cfgs, cfgID)
		}
	}
}
