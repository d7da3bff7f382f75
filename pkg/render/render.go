// Package render implements the core of the component rendering engine: the
// recursive expression evaluator with stable identity paths, props parsing,
// subtree memoization, and the hooks subsystem built on top of that
// identity.
//
// A lisp expression is a []any whose first element is callable (a *LeafCtor
// from a catalog or a Component function). The evaluator turns an
// expression into a vtree node tree, assigning every position an identity
// path (refId) that stays stable across re-renders as long as its key or
// position does. Component state lives in model cells addressed by refId,
// so re-rendering a component finds its state again without the component
// holding any reference of its own.
//
// All state is owned by a Ctx; independent render trees can coexist, each
// with its own context, and be torn down deterministically. A Ctx is not
// safe for concurrent use: execution is single-threaded and synchronous,
// and re-entrant calls (a model mutation during render) are sequenced
// through an internal queue.
package render

import (
	"log"

	"github.com/saplingui/sapling/pkg/logutil"
	"github.com/saplingui/sapling/pkg/model"
	"github.com/saplingui/sapling/pkg/vals"
	"github.com/saplingui/sapling/pkg/vtree"
)

var logger = logutil.GetLogger("[render] ")

// PatchFunc reconciles a newly evaluated node against the previously
// committed one, mutates the UI surface, and returns the committed node.
type PatchFunc func(old, new vtree.Node) (vtree.Node, error)

// Config configures a render context.
type Config struct {
	// DevMode enables fail-fast validation of keys, seed identities and
	// leaf values. Without it, misuse propagates as downstream errors from
	// the patch engine.
	DevMode bool

	// MaxDepth bounds how many queued re-renders one external trigger may
	// cascade into before the drain aborts with ErrTooManyUpdates. Zero
	// means the default of 1000.
	MaxDepth int

	// Patch is the external patch collaborator. It may be nil, in which
	// case RenderWith and forced updates skip patching and only re-bind the
	// tree-value store.
	Patch PatchFunc

	// OnComplete, if non-nil, observes every completed invocation in
	// bottom-up order. Used by tests and the inspection server.
	OnComplete func(refID string, value any)
}

// renderConfig is the snapshot recorded against a refId when an expression
// is invoked there; the basis for the memoization decision on the next
// invocation at the same refId.
type renderConfig struct {
	props vals.Map
	key   string
	ctor  any // *LeafCtor or Component
	// shouldUpdate compares previous and next props; nil means always
	// re-invoke.
	shouldUpdate func(old, new vals.Map) bool
}

// Ctx owns all state of one render tree: the tree-value store, the
// memoization store, the scoped model registries and the hook teardown
// book-keeping.
type Ctx struct {
	cfg Config

	// refs is the tree-value store: refId -> last committed value (a node
	// or a fragment). Entries for removed nodes are kept; stale entries are
	// a bounded memory trade-off.
	refs map[string]any
	// cfgs is the memoization store. Unlike refs, entries are evicted on
	// node teardown.
	cfgs map[string]*renderConfig

	models    map[string]*model.Registry
	teardowns map[string]map[string]func()
	watchGen  map[string]uint64
	gen       uint64

	rendering bool
	queue     []string

	logger *log.Logger
}

// New creates a render context.
func New(cfg Config) *Ctx {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 1000
	}
	return &Ctx{
		cfg:       cfg,
		refs:      make(map[string]any),
		cfgs:      make(map[string]*renderConfig),
		models:    make(map[string]*model.Registry),
		teardowns: make(map[string]map[string]func()),
		watchGen:  make(map[string]uint64),
		logger:    logger,
	}
}

// HasValue reports whether a committed value exists at refID.
func (c *Ctx) HasValue(refID string) bool {
	_, ok := c.refs[refID]
	return ok
}

// Value returns the committed value at refID, or nil.
func (c *Ctx) Value(refID string) any {
	return c.refs[refID]
}

// RefIDs returns the identity paths of all committed values, in unspecified
// order.
func (c *Ctx) RefIDs() []string {
	ids := make([]string, 0, len(c.refs))
	for id := range c.refs {
		ids = append(ids, id)
	}
	return ids
}

// Registry returns the model registry for a subtree root, or nil if no hook
// has run under it.
func (c *Ctx) Registry(root string) *model.Registry {
	return c.models[root]
}

// PreloadModel seeds a model cell before the first render, typically from a
// persisted snapshot. A later UseModel call for the same root and name
// finds the seeded value instead of its initial value.
func (c *Ctx) PreloadModel(root, name string, value any) {
	reg := c.models[root]
	if reg == nil {
		reg = model.NewRegistry()
		c.models[root] = reg
	}
	reg.Cell(name, value)
}

// ModelRoots returns the subtree roots that own a model registry.
func (c *Ctx) ModelRoots() []string {
	roots := make([]string, 0, len(c.models))
	for root := range c.models {
		roots = append(roots, root)
	}
	return roots
}

// complete records a finished invocation in the tree-value store. Children
// complete before their ancestors, so the store always reflects bottom-up
// completion order.
func (c *Ctx) complete(refID string, v any) {
	c.refs[refID] = v
	if c.cfg.OnComplete != nil {
		c.cfg.OnComplete(refID, v)
	}
}

// CreateElement evaluates an expression into a node tree without patching.
// seed becomes the root identity path; it must be a string or number
// satisfying the key pattern, or an already-known identity path.
func (c *Ctx) CreateElement(expr any, seed any) (any, error) {
	seedPath, err := c.checkSeed(seed)
	if err != nil {
		return nil, err
	}
	wasRendering := c.rendering
	c.rendering = true
	v, err := c.eval(expr, "", seedPath, "")
	c.rendering = wasRendering
	if err != nil {
		return nil, err
	}
	if !wasRendering {
		if derr := c.drain(); derr != nil {
			return v, derr
		}
	}
	return v, nil
}

// RenderWith evaluates an expression and reconciles the result against the
// previously rendered node via the patch collaborator, returning the
// committed tree. prev is nil on first render.
func (c *Ctx) RenderWith(prev vtree.Node, expr any, seed any) (vtree.Node, error) {
	v, err := c.CreateElement(expr, seed)
	if err != nil {
		return nil, err
	}
	node, ok := v.(vtree.Node)
	if !ok {
		return nil, BadLeafError{Value: v}
	}
	if c.cfg.Patch == nil {
		return node, nil
	}
	committed, err := c.cfg.Patch(prev, node)
	if err != nil {
		return nil, err
	}
	if el, ok := committed.(*vtree.Element); ok {
		if id := el.RefID(); id != "" {
			c.refs[id] = committed
		}
	}
	return committed, nil
}

func (c *Ctx) checkSeed(seed any) (string, error) {
	s, ok := keyString(seed)
	if !ok {
		return "", InvalidSeedError{Seed: seed}
	}
	if c.cfg.DevMode {
		// A known existing path is always acceptable (re-render case); a
		// fresh seed must satisfy the key pattern.
		if !c.HasValue(s) && !keyPattern.MatchString(s) {
			return "", InvalidSeedError{Seed: seed}
		}
	}
	return s, nil
}
