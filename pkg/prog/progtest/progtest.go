// Package progtest provides utilities for testing subprograms.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/saplingui/sapling/pkg/must"
	"github.com/saplingui/sapling/pkg/prog"
)

// Output captures the result of running a program.
type Output struct {
	Exit   int
	Stdout string
	Stderr string
}

// Run runs a program with the given arguments (not including the program
// name) and captures its exit status and output.
func Run(t *testing.T, p prog.Program, args ...string) Output {
	t.Helper()
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	w0.Close()

	args = append([]string{"sapling"}, args...)
	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()

	out := Output{
		Exit:   exit,
		Stdout: string(must.OK1(io.ReadAll(r1))),
		Stderr: string(must.OK1(io.ReadAll(r2))),
	}
	r1.Close()
	r2.Close()
	return out
}

// TestError fails the test if the output's stderr does not contain want.
func TestError(t *testing.T, out Output, want string) {
	t.Helper()
	if !strings.Contains(out.Stderr, want) {
		t.Errorf("stderr = %q, want string containing %q", out.Stderr, want)
	}
}
