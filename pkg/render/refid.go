package render

import (
	"regexp"
	"strings"

	"github.com/saplingui/sapling/pkg/vals"
)

// Identity paths are built by joining segments with pathSep. Two segments
// are reserved for structural positions that have no user key: itemMarker
// for elements of a plain collection and bodyMarker for the value a
// component function returns. Both start with "@", which the key pattern
// rejects, so they can never collide with user keys.
const (
	pathSep    = "/"
	itemMarker = "@item"
	bodyMarker = "@body"
)

var keyPattern = regexp.MustCompile(`^[0-9a-zA-Z/_-]+$`)

// keyString converts a user-supplied key to its segment form. Only strings
// and numbers are acceptable.
func keyString(k any) (string, bool) {
	switch k.(type) {
	case string, int, float64:
		return vals.ToString(k), true
	}
	return "", false
}

// checkKey validates a user-supplied key. Validation only runs in dev mode;
// in optimized builds a bad key propagates as a malformed identity path.
func (c *Ctx) checkKey(k any) error {
	if !c.cfg.DevMode {
		return nil
	}
	s, ok := keyString(k)
	if !ok || !keyPattern.MatchString(s) {
		return InvalidKeyError{Key: k}
	}
	return nil
}

// joinPath allocates the identity path for a segment under parent. An empty
// parent means the segment is a root identity.
func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + pathSep + segment
}

// parentPath returns the path with its last segment removed, or "" for a
// single-segment path.
func parentPath(p string) string {
	i := strings.LastIndex(p, pathSep)
	if i < 0 {
		return ""
	}
	return p[:i]
}

// rootOf returns the subtree root of a path: its first segment. Model
// registries are scoped by this value.
func rootOf(p string) string {
	if i := strings.Index(p, pathSep); i >= 0 {
		return p[:i]
	}
	return p
}

// underPath reports whether p is id itself or a descendant of id.
func underPath(p, id string) bool {
	return p == id || strings.HasPrefix(p, id+pathSep)
}
