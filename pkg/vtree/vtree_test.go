package vtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/saplingui/sapling/pkg/vals"
)

func TestAttrs(t *testing.T) {
	el := Tags["div"](vals.MakeMap(
		"id", "top",
		"width", 80,
		"hidden", false,
		"refId", "root",
		"key", "k",
		"children", []any{},
		"payload", vals.MakeList(),
	), nil)

	want := map[string]string{"id": "top", "width": "80", "hidden": "false"}
	if diff := cmp.Diff(want, el.Attrs()); diff != "" {
		t.Errorf("Attrs() mismatch (-want +got):\n%s", diff)
	}
}

func TestAttrs_NilProps(t *testing.T) {
	el := &Element{Tag: "div"}
	if got := el.Attrs(); len(got) != 0 {
		t.Errorf("Attrs() = %v, want empty", got)
	}
}

func TestRefID(t *testing.T) {
	el := Tags["span"](vals.MakeMap("refId", "root/0"), nil)
	if got := el.RefID(); got != "root/0" {
		t.Errorf("RefID() = %q, want root/0", got)
	}
	if got := (&Element{Tag: "span"}).RefID(); got != "" {
		t.Errorf("RefID() = %q, want empty", got)
	}
}

func TestFlatten(t *testing.T) {
	a, b, c := &Text{Content: "a"}, &Text{Content: "b"}, &Comment{}
	children := []any{a, []any{b, []any{c}}, nil}
	got := Flatten(children)
	want := []Node{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSketch(t *testing.T) {
	el := Tags["ul"](vals.MakeMap("id", "list"), []any{
		[]any{
			Tags["li"](vals.MakeMap("key", "a"), []any{&Text{Content: "first item"}}),
		},
		&Comment{},
	})
	want := "ul id=list\n" +
		"  li key=a\n" +
		"    text \"first item\"\n" +
		"  comment\n"
	if got := Sketch(el); got != want {
		t.Errorf("Sketch() = %q, want %q", got, want)
	}
}

func TestCatalogKeys(t *testing.T) {
	for _, tag := range []string{"div", "span", "input", "table"} {
		if Tags[tag] == nil {
			t.Errorf("no constructor for %q", tag)
		}
	}
	el := Tags["div"](vals.MakeMap("key", "x"), nil)
	if el.Key != "x" {
		t.Errorf("Key = %q, want x", el.Key)
	}
}
