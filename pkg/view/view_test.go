package view

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saplingui/sapling/pkg/prog/progtest"
)

const testScene = `
tag: div
props: {class: app}
children:
  - tag: h1
    children: ["hello"]
`

func writeScene(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_DumpsScene(t *testing.T) {
	out := progtest.Run(t, Program, writeScene(t))
	if out.Exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", out.Exit, out.Stderr)
	}
	for _, want := range []string{`<div class="app">`, "<h1>", `"hello"`} {
		if !strings.Contains(out.Stdout, want) {
			t.Errorf("stdout = %q, want it to contain %q", out.Stdout, want)
		}
	}
}

func TestRun_NoArgs(t *testing.T) {
	out := progtest.Run(t, Program)
	if out.Exit != 2 {
		t.Errorf("exit = %d, want 2", out.Exit)
	}
	progtest.TestError(t, out, "no scene file")
}

func TestRun_TooManyArgs(t *testing.T) {
	out := progtest.Run(t, Program, "a.yaml", "b.yaml")
	if out.Exit != 2 {
		t.Errorf("exit = %d, want 2", out.Exit)
	}
	progtest.TestError(t, out, "too many")
}

func TestRun_MissingScene(t *testing.T) {
	out := progtest.Run(t, Program, filepath.Join(t.TempDir(), "no.yaml"))
	if out.Exit != 2 {
		t.Errorf("exit = %d, want 2", out.Exit)
	}
	progtest.TestError(t, out, "load scene")
}

func TestRun_DevModeValidatesScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	src := "tag: div\nchildren:\n  - tag: span\n    props: {key: 'bad key!'}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	out := progtest.Run(t, Program, "-dev", path)
	if out.Exit != 2 {
		t.Errorf("exit = %d, want 2", out.Exit)
	}
	progtest.TestError(t, out, "invalid key")
}

func TestRun_SavesModelSnapshot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "models.db")
	out := progtest.Run(t, Program, "-db", db, writeScene(t))
	if out.Exit != 0 {
		t.Fatalf("exit = %d, stderr: %s", out.Exit, out.Stderr)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("no database created: %v", err)
	}
}
