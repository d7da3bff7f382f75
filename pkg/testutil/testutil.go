// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"testing"
)

// InTempDir creates a temporary directory, changes into it, and restores
// the original working directory on cleanup. It returns the directory path.
func InTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(old) })
	return dir
}
