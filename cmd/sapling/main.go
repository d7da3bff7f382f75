// Sapling renders component scenes to a document surface. It evaluates a
// scene file into a node tree, reconciles it against the surface, and can
// expose the live tree over an inspection protocol.
package main

import (
	"os"

	"github.com/saplingui/sapling/pkg/buildinfo"
	"github.com/saplingui/sapling/pkg/demo"
	"github.com/saplingui/sapling/pkg/prog"
	"github.com/saplingui/sapling/pkg/view"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, demo.Program, view.Program)))
}
