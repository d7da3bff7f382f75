package render

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/saplingui/sapling/pkg/vals"
	"github.com/saplingui/sapling/pkg/vtree"
)

var (
	div  = Builtin["div"]
	span = Builtin["span"]
)

func element(t *testing.T, v any) *vtree.Element {
	t.Helper()
	el, ok := v.(*vtree.Element)
	if !ok {
		t.Fatalf("got %T, want *vtree.Element", v)
	}
	return el
}

func textContent(t *testing.T, v any) string {
	t.Helper()
	txt, ok := v.(*vtree.Text)
	if !ok {
		t.Fatalf("got %T, want *vtree.Text", v)
	}
	return txt.Content
}

func TestCreateElement_Leaf(t *testing.T) {
	c := New(Config{})
	got, err := c.CreateElement([]any{div, vals.MakeMap("id", "top"), "hello"}, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if el.Tag != "div" {
		t.Errorf("Tag = %q, want div", el.Tag)
	}
	if el.RefID() != "root" {
		t.Errorf("RefID = %q, want root", el.RefID())
	}
	if n := len(el.Children); n != 1 {
		t.Fatalf("len(Children) = %d, want 1", n)
	}
	if s := textContent(t, el.Children[0]); s != "hello" {
		t.Errorf("child text = %q, want hello", s)
	}
	if c.Value("root") != got {
		t.Error("committed value at root is not the returned node")
	}
}

func TestCreateElement_NoConfig(t *testing.T) {
	c := New(Config{})
	got, err := c.CreateElement([]any{div, "hello"}, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if el.RefID() != "root" {
		t.Errorf("RefID = %q, want root", el.RefID())
	}
	if s := textContent(t, el.Children[0]); s != "hello" {
		t.Errorf("child text = %q, want hello", s)
	}
}

func TestCreateElement_CollectionIndexIdentity(t *testing.T) {
	c := New(Config{})
	expr := []any{div, []any{
		[]any{span, "a"},
		[]any{span, "b"},
	}}
	if _, err := c.CreateElement(expr, "root"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"root/@item/0", "root/@item/1"} {
		if !c.HasValue(id) {
			t.Errorf("no committed value at %q", id)
		}
	}
}

func TestCreateElement_ExplicitKeyIdentity(t *testing.T) {
	c := New(Config{})
	expr := []any{div, []any{
		[]any{span, vals.MakeMap("key", "x"), "a"},
	}}
	if _, err := c.CreateElement(expr, "root"); err != nil {
		t.Fatal(err)
	}
	el := element(t, c.Value("root/@item/x"))
	if el.Key != "x" {
		t.Errorf("Key = %q, want x", el.Key)
	}
	if c.HasValue("root/@item/0") {
		t.Error("index identity recorded despite explicit key")
	}
}

func TestCreateElement_ComponentBodyIdentity(t *testing.T) {
	c := New(Config{})
	comp := func(c *Ctx, props vals.Map) any {
		return []any{div, "body"}
	}
	got, err := c.CreateElement([]any{comp}, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if el.RefID() != "root/@body" {
		t.Errorf("body RefID = %q, want root/@body", el.RefID())
	}
	if c.Value("root") != got {
		t.Error("component identity does not hold its body's value")
	}
}

func TestCreateElement_ComponentGetsRawChildren(t *testing.T) {
	c := New(Config{})
	var rawChild any
	comp := func(c *Ctx, props vals.Map) any {
		rawChild = vals.Index(props, "children").([]any)[0]
		return nil
	}
	inner := []any{span, "x"}
	if _, err := c.CreateElement([]any{comp, inner}, "root"); err != nil {
		t.Fatal(err)
	}
	got, ok := rawChild.([]any)
	if !ok || len(got) != 2 || got[0] != any(span) {
		t.Errorf("component child = %#v, want the unevaluated expression", rawChild)
	}
}

func TestCreateElement_PropsFilterReserved(t *testing.T) {
	c := New(Config{})
	expr := []any{div, vals.MakeMap(
		"id", "top",
		"shouldUpdate", func(old, new vals.Map) bool { return true },
	)}
	got, err := c.CreateElement(expr, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if vals.HasKey(el.Props, "shouldUpdate") {
		t.Error("shouldUpdate leaked into props")
	}
	if vals.IndexString(el.Props, "id") != "top" {
		t.Error("user prop missing from props")
	}
	if vals.IndexString(el.Props, "refId") != "root" {
		t.Error("refId missing from props")
	}
}

func TestCreateElement_ChildrenConflict(t *testing.T) {
	c := New(Config{})
	expr := []any{div, vals.MakeMap("children", []any{"a"}), "b"}
	_, err := c.CreateElement(expr, "root")
	if !errors.Is(err, ErrChildrenConflict) {
		t.Errorf("err = %v, want ErrChildrenConflict", err)
	}
}

func TestCreateElement_ChildrenProp(t *testing.T) {
	c := New(Config{})
	expr := []any{div, vals.MakeMap("children", vals.MakeList("a", "b"))}
	got, err := c.CreateElement(expr, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if n := len(el.Children); n != 2 {
		t.Fatalf("len(Children) = %d, want 2", n)
	}
	if s := textContent(t, el.Children[1]); s != "b" {
		t.Errorf("child text = %q, want b", s)
	}
}

func TestCreateElement_PreBuiltPassThrough(t *testing.T) {
	c := New(Config{})
	pre := &vtree.Text{Content: "x"}
	got, err := c.CreateElement([]any{div, pre}, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if el.Children[0] != any(pre) {
		t.Error("pre-built node was not passed through unchanged")
	}
}

func TestCreateElement_IgnoredValues(t *testing.T) {
	c := New(Config{})
	got, err := c.CreateElement([]any{div, nil, false, true}, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if _, ok := el.Children[0].(*vtree.Comment); !ok {
		t.Errorf("nil child = %T, want *vtree.Comment", el.Children[0])
	}
	if _, ok := el.Children[1].(*vtree.Comment); !ok {
		t.Errorf("false child = %T, want *vtree.Comment", el.Children[1])
	}
	if s := textContent(t, el.Children[2]); s != "true" {
		t.Errorf("true child = %q, want true", s)
	}
}

func TestKeyPropagation_ToEventualLeaf(t *testing.T) {
	c := New(Config{})
	inner := func(c *Ctx, props vals.Map) any {
		return []any{div}
	}
	wrapper := func(c *Ctx, props vals.Map) any {
		return []any{inner}
	}
	expr := []any{div, []any{
		[]any{wrapper, vals.MakeMap("key", "k")},
	}}
	got, err := c.CreateElement(expr, "root")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	kids := vtree.Flatten(el.Children)
	if len(kids) != 1 {
		t.Fatalf("flattened children = %d, want 1", len(kids))
	}
	leaf := element(t, kids[0])
	if leaf.Key != "k" {
		t.Errorf("leaf Key = %q, want k", leaf.Key)
	}
	if vals.IndexString(leaf.Props, "key") != "k" {
		t.Error("leaf props carry no inherited key")
	}
}

func TestKeyPropagation_ExplicitWins(t *testing.T) {
	c := New(Config{})
	inner := func(c *Ctx, props vals.Map) any {
		return []any{div, vals.MakeMap("key", "own")}
	}
	expr := []any{div, []any{
		[]any{inner, vals.MakeMap("key", "k")},
	}}
	got, err := c.CreateElement(expr, "root")
	if err != nil {
		t.Fatal(err)
	}
	kids := vtree.Flatten(element(t, got).Children)
	if len(kids) != 1 {
		t.Fatalf("flattened children = %d, want 1", len(kids))
	}
	leaf := element(t, kids[0])
	if leaf.Key != "own" {
		t.Errorf("leaf Key = %q, want own", leaf.Key)
	}
}

func TestMemoization_SkipsWhenPredicateFalse(t *testing.T) {
	c := New(Config{})
	calls := 0
	comp := func(c *Ctx, props vals.Map) any {
		calls++
		return []any{div, vals.Index(props, "label")}
	}
	su := func(old, new vals.Map) bool {
		return !vals.Equal(vals.Index(old, "label"), vals.Index(new, "label"))
	}

	render := func(label string) any {
		t.Helper()
		v, err := c.CreateElement(
			[]any{comp, vals.MakeMap("label", label, "shouldUpdate", su)}, "root")
		if err != nil {
			t.Fatal(err)
		}
		return v
	}

	first := render("a")
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	second := render("a")
	if calls != 1 {
		t.Errorf("calls = %d after unchanged props, want 1", calls)
	}
	if second != first {
		t.Error("memoized render did not return the previous value")
	}
	render("b")
	if calls != 2 {
		t.Errorf("calls = %d after changed props, want 2", calls)
	}
}

func TestMemoization_AlwaysInvokesWithoutPredicate(t *testing.T) {
	c := New(Config{})
	calls := 0
	comp := func(c *Ctx, props vals.Map) any {
		calls++
		return []any{div}
	}
	for i := 0; i < 2; i++ {
		if _, err := c.CreateElement([]any{comp}, "root"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestPreviousRefIDOverride(t *testing.T) {
	c := New(Config{})
	if _, err := c.CreateElement([]any{div, "old"}, "root"); err != nil {
		t.Fatal(err)
	}
	got, err := c.CreateElement(
		[]any{div, vals.MakeMap("previousRefId", "root"), "new"}, "other")
	if err != nil {
		t.Fatal(err)
	}
	el := element(t, got)
	if el.RefID() != "root" {
		t.Errorf("RefID = %q, want the overridden identity root", el.RefID())
	}
	if c.Value("root") != got {
		t.Error("override did not commit at the previous identity")
	}
}

func TestDevMode_InvalidKey(t *testing.T) {
	c := New(Config{DevMode: true})
	expr := []any{div, []any{
		[]any{span, vals.MakeMap("key", "bad key!")},
	}}
	_, err := c.CreateElement(expr, "root")
	var keyErr InvalidKeyError
	if !errors.As(err, &keyErr) {
		t.Errorf("err = %v, want InvalidKeyError", err)
	}
}

func TestDevMode_KeyNotValidatedOtherwise(t *testing.T) {
	c := New(Config{})
	expr := []any{div, []any{
		[]any{span, vals.MakeMap("key", "bad key!")},
	}}
	if _, err := c.CreateElement(expr, "root"); err != nil {
		t.Errorf("err = %v, want nil outside dev mode", err)
	}
}

func TestDevMode_InvalidSeed(t *testing.T) {
	c := New(Config{DevMode: true})
	var seedErr InvalidSeedError
	if _, err := c.CreateElement([]any{div}, "bad seed!"); !errors.As(err, &seedErr) {
		t.Errorf("err = %v, want InvalidSeedError", err)
	}
	if _, err := c.CreateElement([]any{div}, vals.EmptyMap); !errors.As(err, &seedErr) {
		t.Errorf("err = %v, want InvalidSeedError for non-key seed", err)
	}
}

func TestDevMode_KnownSeedAccepted(t *testing.T) {
	c := New(Config{DevMode: true})
	if _, err := c.CreateElement([]any{div}, "root"); err != nil {
		t.Fatal(err)
	}
	// Re-render at an existing identity is fine even though the stored
	// path would be rejected as a fresh seed.
	if _, err := c.CreateElement([]any{div}, "root"); err != nil {
		t.Errorf("re-render at known seed: %v", err)
	}
}

func TestDevMode_BadLeaf(t *testing.T) {
	c := New(Config{DevMode: true})
	_, err := c.CreateElement([]any{div, struct{ X int }{1}}, "root")
	var leafErr BadLeafError
	if !errors.As(err, &leafErr) {
		t.Errorf("err = %v, want BadLeafError", err)
	}
}

func TestPathStability_AcrossRenders(t *testing.T) {
	var ids []string
	c := New(Config{OnComplete: func(refID string, _ any) {
		ids = append(ids, refID)
	}})
	expr := []any{div, []any{
		[]any{span, vals.MakeMap("key", "x"), "a"},
		[]any{span, vals.MakeMap("key", "y"), "b"},
	}}

	pass := func() []string {
		t.Helper()
		ids = nil
		if _, err := c.CreateElement(expr, "root"); err != nil {
			t.Fatal(err)
		}
		out := append([]string(nil), ids...)
		sort.Strings(out)
		return out
	}

	first := pass()
	second := pass()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identity paths changed across renders (-first +second):\n%s", diff)
	}
}

func TestPathStability_KeyedPositionChange(t *testing.T) {
	c := New(Config{})
	keyed := func(key string) []any {
		return []any{span, vals.MakeMap("key", key), key}
	}
	if _, err := c.CreateElement([]any{div, []any{keyed("x"), keyed("y")}}, "root"); err != nil {
		t.Fatal(err)
	}
	// Reordering keyed siblings must resolve to the same identities.
	if _, err := c.CreateElement([]any{div, []any{keyed("y"), keyed("x")}}, "root"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"root/@item/x", "root/@item/y"} {
		if !c.HasValue(id) {
			t.Errorf("no committed value at %q", id)
		}
	}
	if c.HasValue("root/@item/0") {
		t.Error("index identity recorded for keyed children")
	}
}

func TestCreateElement_NodeRoundTrip(t *testing.T) {
	c := New(Config{})
	prev, err := c.CreateElement([]any{div, "hello"}, "root")
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.CreateElement(prev, "root")
	if err != nil {
		t.Fatal(err)
	}
	if got != prev {
		t.Error("re-rendering an already-realized node did not pass it through unchanged")
	}
}

func TestOnComplete_BottomUpOrder(t *testing.T) {
	var order []string
	c := New(Config{OnComplete: func(refID string, _ any) {
		order = append(order, refID)
	}})
	expr := []any{div, []any{span, "a"}}
	if _, err := c.CreateElement(expr, "root"); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "root/0" || order[1] != "root" {
		t.Errorf("completion order = %v, want [root/0 root]", order)
	}
}
