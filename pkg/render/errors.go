package render

import (
	"errors"
	"fmt"
)

// ErrChildrenConflict is returned when an invocation supplies children both
// via the "children" prop and via positional arguments.
var ErrChildrenConflict = errors.New(
	`children supplied both as a "children" prop and as positional arguments`)

// ErrTooManyUpdates is returned when draining queued re-renders exceeds the
// configured depth limit, which indicates a component that unconditionally
// mutates its own model on every render.
var ErrTooManyUpdates = errors.New("re-render depth limit exceeded")

// InvalidKeyError is returned when a key is not a string or number, or
// contains characters outside the allowed set.
type InvalidKeyError struct {
	Key any
}

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %v (type %T): keys must be strings or numbers matching [0-9a-zA-Z/_-]+", e.Key, e.Key)
}

// InvalidSeedError is returned when a root render is seeded with an identity
// that is neither a known existing path nor a valid fresh key.
type InvalidSeedError struct {
	Seed any
}

func (e InvalidSeedError) Error() string {
	return fmt.Sprintf("invalid seed identity %v (type %T)", e.Seed, e.Seed)
}

// BadLeafError is returned in dev mode when a value reaches a leaf position
// without being a primitive, an ignored sentinel, a collection, or an
// already-realized node.
type BadLeafError struct {
	Value any
}

func (e BadLeafError) Error() string {
	return fmt.Sprintf("value of type %T cannot be rendered", e.Value)
}

// UnknownRefError is returned by ForceUpdate for an identity path that has
// never completed a render.
type UnknownRefError struct {
	RefID string
}

func (e UnknownRefError) Error() string {
	return fmt.Sprintf("no rendered node at %q", e.RefID)
}
