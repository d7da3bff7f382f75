// Package demo implements the built-in demo subprogram: a counter
// application wired through the model layer, driven for a few steps so the
// forced-update path is visible in the dumped surface.
package demo

import (
	"fmt"
	"os"

	"github.com/saplingui/sapling/pkg/patch"
	"github.com/saplingui/sapling/pkg/prog"
	"github.com/saplingui/sapling/pkg/render"
	"github.com/saplingui/sapling/pkg/surface"
	"github.com/saplingui/sapling/pkg/vals"
)

// Program is the demo subprogram. It runs for the single argument "demo".
var Program prog.Program = program{}

type program struct{}

var (
	div    = render.Builtin["div"]
	h1     = render.Builtin["h1"]
	button = render.Builtin["button"]
	span   = render.Builtin["span"]
)

func counterApp(c *render.Ctx, props vals.Map) any {
	count := c.UseModel(props, "count", 0)
	return []any{div, vals.MakeMap("class", "counter"),
		[]any{h1, "Counter"},
		[]any{span, vals.MakeMap("class", "value"), count.Get()},
		[]any{button, vals.MakeMap("class", "inc"), "+"},
	}
}

func (program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) != 1 || args[0] != "demo" {
		return prog.ErrNotSuitable
	}

	root := surface.NewRoot()
	engine := patch.New(root)
	ctx := render.New(render.Config{DevMode: f.Dev, Patch: engine.Patch})
	engine.OnRemove = ctx.TeardownNode

	if _, err := ctx.RenderWith(nil, []any{counterApp}, "app"); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Fprint(fds[1], root.Dump())

	// Three clicks. Each mutation forces a re-render of the owning
	// component and patches the surface in place.
	count := ctx.Registry("app").Lookup("count")
	for i := 0; i < 3; i++ {
		count.Swap(func(v any) any { return v.(int) + 1 })
	}
	fmt.Fprintln(fds[1], "after 3 increments:")
	fmt.Fprint(fds[1], root.Dump())
	return nil
}
