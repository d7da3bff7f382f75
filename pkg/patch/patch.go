// Package patch implements the structural diff/patch collaborator: it
// reconciles a newly evaluated node tree against the previously committed
// one, mutating an in-memory surface as a side effect, and returns the
// committed tree with surface bindings attached.
//
// Reconciliation is positional with keyed overrides: element children with
// keys match same-keyed elements of the previous pass regardless of
// position; unkeyed children match by index if the tag agrees. Unmatched
// previous children are removed (reported through OnRemove), unmatched new
// children are freshly built. No cross-tree move detection happens beyond
// keyed children.
package patch

import (
	"fmt"

	"github.com/saplingui/sapling/pkg/logutil"
	"github.com/saplingui/sapling/pkg/surface"
	"github.com/saplingui/sapling/pkg/vtree"
)

var logger = logutil.GetLogger("[patch] ")

// Engine reconciles node trees against one surface.
type Engine struct {
	root *surface.Elem

	// OnRemove, if non-nil, is called for every node removed from the
	// surface, before removal. The render context's TeardownNode is the
	// usual target.
	OnRemove func(vtree.Node)
}

// New creates an engine mounting into the given surface element.
func New(root *surface.Elem) *Engine {
	return &Engine{root: root}
}

// Patch reconciles new against old. A nil old mounts new into the engine's
// root. The returned committed tree is new with surface bindings filled in.
func (e *Engine) Patch(old, new vtree.Node) (vtree.Node, error) {
	newEl, ok := new.(*vtree.Element)
	if !ok {
		return nil, fmt.Errorf("patch: root must be an element, got %T", new)
	}
	if old == nil {
		e.root.AppendChild(e.build(newEl))
		return newEl, nil
	}
	oldEl, ok := old.(*vtree.Element)
	if !ok {
		return nil, fmt.Errorf("patch: previous root must be an element, got %T", old)
	}
	se, ok := oldEl.Binding.(*surface.Elem)
	if !ok {
		return nil, fmt.Errorf("patch: previous root %q has no surface binding", oldEl.Tag)
	}
	if !sameElem(oldEl, newEl) {
		e.remove(oldEl)
		parent := se.Parent()
		fresh := e.build(newEl)
		if parent != nil {
			parent.ReplaceChild(se, fresh)
		}
		return newEl, nil
	}
	e.patchElem(oldEl, newEl, se)
	return newEl, nil
}

// sameElem reports whether two elements occupy the same conceptual slot:
// same tag and same key.
func sameElem(a, b *vtree.Element) bool {
	return a.Tag == b.Tag && a.Key == b.Key
}

// patchElem updates se in place from oldEl to newEl and binds newEl to it.
func (e *Engine) patchElem(oldEl, newEl *vtree.Element, se *surface.Elem) {
	newEl.Binding = se

	oldAttrs, newAttrs := oldEl.Attrs(), newEl.Attrs()
	for name, value := range newAttrs {
		if oldAttrs[name] != value {
			se.SetAttr(name, value)
		}
	}
	for name := range oldAttrs {
		if _, ok := newAttrs[name]; !ok {
			se.DelAttr(name)
		}
	}

	e.patchChildren(oldEl, newEl, se)
}

func (e *Engine) patchChildren(oldEl, newEl *vtree.Element, se *surface.Elem) {
	oldKids := vtree.Flatten(oldEl.Children)
	newKids := vtree.Flatten(newEl.Children)
	oldSurf := se.Children()
	if len(oldSurf) != len(oldKids) {
		// The surface was mutated behind the engine's back; rebuild rather
		// than corrupt it further.
		logger.Printf("surface desync under <%s>: %d committed vs %d surface children",
			oldEl.Tag, len(oldKids), len(oldSurf))
		oldKids = nil
		oldSurf = nil
	}

	// Keyed old children are matched by key; everything else by position.
	byKey := make(map[string]int)
	for i, kid := range oldKids {
		if el, ok := kid.(*vtree.Element); ok && el.Key != "" {
			byKey[el.Key] = i
		}
	}

	used := make([]bool, len(oldKids))
	out := make([]*surface.Elem, 0, len(newKids))
	for i, kid := range newKids {
		j := -1
		if el, ok := kid.(*vtree.Element); ok && el.Key != "" {
			if k, ok := byKey[el.Key]; ok {
				j = k
			}
		} else if i < len(oldKids) && !used[i] {
			if matchable(oldKids[i], kid) {
				j = i
			}
		}
		if j >= 0 && !used[j] {
			used[j] = true
			out = append(out, e.patchChild(oldKids[j], kid, oldSurf[j]))
		} else {
			out = append(out, e.build(kid))
		}
	}
	for j, kid := range oldKids {
		if !used[j] {
			e.remove(kid)
		}
	}
	se.SetChildren(out)
}

// matchable reports whether an unkeyed new child can reuse the old child at
// the same position.
func matchable(old, new vtree.Node) bool {
	switch old := old.(type) {
	case *vtree.Element:
		if newEl, ok := new.(*vtree.Element); ok {
			return sameElem(old, newEl)
		}
	case *vtree.Text:
		_, ok := new.(*vtree.Text)
		return ok
	case *vtree.Comment:
		_, ok := new.(*vtree.Comment)
		return ok
	}
	return false
}

// patchChild reuses the old child's surface node for the matching new
// child.
func (e *Engine) patchChild(old, new vtree.Node, se *surface.Elem) *surface.Elem {
	switch new := new.(type) {
	case *vtree.Element:
		e.patchElem(old.(*vtree.Element), new, se)
		return se
	case *vtree.Text:
		se.Text = new.Content
		return se
	default: // *vtree.Comment
		return se
	}
}

// build creates a fresh surface subtree for a node and binds elements as it
// goes.
func (e *Engine) build(n vtree.Node) *surface.Elem {
	switch n := n.(type) {
	case *vtree.Text:
		return surface.NewText(n.Content)
	case *vtree.Comment:
		return surface.NewComment()
	case *vtree.Element:
		se := surface.NewElem(n.Tag)
		for name, value := range n.Attrs() {
			se.SetAttr(name, value)
		}
		for _, child := range vtree.Flatten(n.Children) {
			se.AppendChild(e.build(child))
		}
		n.Binding = se
		return se
	}
	panic(fmt.Sprintf("patch: unknown node type %T", n))
}

func (e *Engine) remove(n vtree.Node) {
	if e.OnRemove != nil {
		e.OnRemove(n)
	}
}
