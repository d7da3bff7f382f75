package store

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/saplingui/sapling/pkg/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	testutil.InTempDir(t)
	s, err := Open("snapshot.db")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	saved := map[string]any{
		"count": 7,
		"name":  "x",
		"items": []any{"a", "b"},
	}
	if err := s.SaveModels("root", saved); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadModels("root")
	if err != nil {
		t.Fatal(err)
	}
	// JSON turns all numbers into float64.
	want := map[string]any{
		"count": float64(7),
		"name":  "x",
		"items": []any{"a", "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadModels_NoSnapshot(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.LoadModels("nowhere"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("err = %v, want ErrNoSnapshot", err)
	}
}

func TestSaveModels_ReplacesSnapshot(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveModels("root", map[string]any{"old": 1, "both": 1}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveModels("root", map[string]any{"both": 2}); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadModels("root")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"both": float64(2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot not replaced (-want +got):\n%s", diff)
	}
}

func TestSaveModels_SkipsUnencodable(t *testing.T) {
	s := openTestStore(t)
	err := s.SaveModels("root", map[string]any{
		"ok":  1,
		"bad": func() {},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadModels("root")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["bad"]; ok {
		t.Error("unencodable value survived")
	}
	if got["ok"] != float64(1) {
		t.Error("encodable value lost")
	}
}

func TestRoots(t *testing.T) {
	s := openTestStore(t)
	for _, root := range []string{"b", "a"} {
		if err := s.SaveModels(root, map[string]any{"x": 1}); err != nil {
			t.Fatal(err)
		}
	}
	roots, err := s.Roots()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(roots)
	if diff := cmp.Diff([]string{"a", "b"}, roots); diff != "" {
		t.Errorf("Roots() mismatch (-want +got):\n%s", diff)
	}
}
