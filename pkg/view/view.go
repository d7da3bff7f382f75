// Package view implements the scene-viewing subprogram: it loads a scene
// file, renders it, and dumps the resulting surface tree.
package view

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"

	"github.com/mattn/go-isatty"

	"github.com/saplingui/sapling/pkg/inspect"
	"github.com/saplingui/sapling/pkg/logutil"
	"github.com/saplingui/sapling/pkg/patch"
	"github.com/saplingui/sapling/pkg/prog"
	"github.com/saplingui/sapling/pkg/render"
	"github.com/saplingui/sapling/pkg/scene"
	"github.com/saplingui/sapling/pkg/store"
	"github.com/saplingui/sapling/pkg/surface"
)

var logger = logutil.GetLogger("[view] ")

// The seed passed to the renderer; also the root bucket model snapshots are
// kept under.
const sceneRoot = "scene"

// Program is the view subprogram.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) == 0 {
		return prog.BadUsage("no scene file given")
	}
	if len(args) > 1 {
		return prog.BadUsage("too many arguments")
	}

	node, err := scene.Load(args[0])
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	expr, err := node.Expr(render.Builtin)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}

	root := surface.NewRoot()
	engine := patch.New(root)
	ctx := render.New(render.Config{
		DevMode: f.Dev,
		Patch:   engine.Patch,
	})
	engine.OnRemove = ctx.TeardownNode

	var db *store.Store
	if f.DB != "" {
		db, err = store.Open(f.DB)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		models, err := db.LoadModels(sceneRoot)
		if err != nil && err != store.ErrNoSnapshot {
			return fmt.Errorf("load models: %w", err)
		}
		for name, value := range models {
			ctx.PreloadModel(sceneRoot, name, value)
		}
	}

	var mu sync.Mutex
	mu.Lock()
	_, err = ctx.RenderWith(nil, expr, sceneRoot)
	mu.Unlock()
	if err != nil {
		return fmt.Errorf("render scene: %w", err)
	}

	dump(fds[1], root)

	if f.Inspect != "" {
		lis, err := net.Listen("tcp", f.Inspect)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		defer lis.Close()
		fmt.Fprintln(fds[2], "inspection server listening on", lis.Addr())
		go inspect.NewServer(&mu, ctx).Serve(lis)

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		<-sigs
		signal.Stop(sigs)

		// The surface may have changed under forced updates.
		mu.Lock()
		dump(fds[1], root)
		mu.Unlock()
	}

	if db != nil {
		if err := saveModels(db, ctx); err != nil {
			logger.Println("save models:", err)
		}
	}
	return nil
}

func dump(out *os.File, root *surface.Elem) {
	s := root.Dump()
	if isatty.IsTerminal(out.Fd()) {
		s = "\033[2m" + s + "\033[m"
	}
	fmt.Fprint(out, s)
}

func saveModels(db *store.Store, ctx *render.Ctx) error {
	reg := ctx.Registry(sceneRoot)
	if reg == nil {
		return nil
	}
	values := make(map[string]any)
	for _, name := range reg.Names() {
		if cell := reg.Lookup(name); cell != nil {
			values[name] = cell.Get()
		}
	}
	return db.SaveModels(sceneRoot, values)
}
