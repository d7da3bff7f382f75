package buildinfo

import (
	"strings"
	"testing"

	"github.com/saplingui/sapling/pkg/prog/progtest"
)

func TestVersion(t *testing.T) {
	out := progtest.Run(t, Program, "-version")
	if out.Exit != 0 {
		t.Fatalf("exit = %d, want 0", out.Exit)
	}
	if want := Version + VersionSuffix + "\n"; out.Stdout != want {
		t.Errorf("stdout = %q, want %q", out.Stdout, want)
	}
}

func TestVersion_JSON(t *testing.T) {
	out := progtest.Run(t, Program, "-version", "-json")
	if !strings.Contains(out.Stdout, `"version":"`+Version) {
		t.Errorf("stdout = %q, want json with version", out.Stdout)
	}
}

func TestNotSuitableWithoutVersionFlag(t *testing.T) {
	out := progtest.Run(t, Program)
	if out.Exit == 0 {
		t.Error("ran without -version")
	}
}
