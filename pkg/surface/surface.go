// Package surface implements the in-memory UI surface the patch engine
// mutates: a headless element tree with tags, attributes and text content.
package surface

import (
	"sort"
	"strings"
)

// Elem is one surface element. Three shapes exist: tag elements (Tag set),
// text nodes (Text set, Tag empty) and comment placeholders (Comment set).
type Elem struct {
	Tag     string
	Attrs   map[string]string
	Text    string
	Comment bool

	children []*Elem
	parent   *Elem
}

// NewRoot creates an empty container element for mounting into.
func NewRoot() *Elem {
	return &Elem{Tag: "root", Attrs: map[string]string{}}
}

// NewElem creates a tag element.
func NewElem(tag string) *Elem {
	return &Elem{Tag: tag, Attrs: map[string]string{}}
}

// NewText creates a text node.
func NewText(content string) *Elem {
	return &Elem{Text: content}
}

// NewComment creates a comment placeholder.
func NewComment() *Elem {
	return &Elem{Comment: true}
}

// Children returns the child list. The returned slice must not be mutated.
func (e *Elem) Children() []*Elem { return e.children }

// Parent returns the parent element, or nil for a detached element.
func (e *Elem) Parent() *Elem { return e.parent }

// AppendChild adds a child at the end, detaching it from any previous
// parent.
func (e *Elem) AppendChild(child *Elem) {
	child.Detach()
	child.parent = e
	e.children = append(e.children, child)
}

// SetChildren replaces the whole child list. Children are detached from
// previous parents; previous children of e that do not reappear become
// detached.
func (e *Elem) SetChildren(children []*Elem) {
	for _, old := range e.children {
		old.parent = nil
	}
	for _, child := range children {
		if child.parent != nil && child.parent != e {
			child.Detach()
		}
		child.parent = e
	}
	e.children = children
}

// ReplaceChild replaces old with new in e's child list. It is a no-op if
// old is not a child of e.
func (e *Elem) ReplaceChild(old, new *Elem) {
	for i, child := range e.children {
		if child == old {
			new.Detach()
			new.parent = e
			old.parent = nil
			e.children[i] = new
			return
		}
	}
}

// Detach removes e from its parent, if any.
func (e *Elem) Detach() {
	p := e.parent
	if p == nil {
		return
	}
	for i, child := range p.children {
		if child == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// SetAttr sets one attribute.
func (e *Elem) SetAttr(name, value string) {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[name] = value
}

// DelAttr removes one attribute.
func (e *Elem) DelAttr(name string) {
	delete(e.Attrs, name)
}

// Dump renders the subtree as indented text, one element per line. Text
// nodes render their content quoted; comments render as <!-->.
func (e *Elem) Dump() string {
	var sb strings.Builder
	e.dump(&sb, "")
	return sb.String()
}

func (e *Elem) dump(sb *strings.Builder, indent string) {
	switch {
	case e.Comment:
		sb.WriteString(indent + "<!-->\n")
	case e.Tag == "":
		sb.WriteString(indent + "\"" + e.Text + "\"\n")
	default:
		sb.WriteString(indent + "<" + e.Tag)
		names := make([]string, 0, len(e.Attrs))
		for name := range e.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(" " + name + "=\"" + e.Attrs[name] + "\"")
		}
		sb.WriteString(">\n")
		for _, child := range e.children {
			child.dump(sb, indent+"  ")
		}
	}
}

// InnerText concatenates the text content of the subtree in order.
func (e *Elem) InnerText() string {
	var sb strings.Builder
	e.innerText(&sb)
	return sb.String()
}

func (e *Elem) innerText(sb *strings.Builder) {
	if e.Tag == "" && !e.Comment {
		sb.WriteString(e.Text)
	}
	for _, child := range e.children {
		child.innerText(sb)
	}
}
