package vals

import (
	"math"

	"github.com/xiaq/persistent/hash"
)

// Hasher wraps the Hash method.
type Hasher interface {
	// Hash computes the hash code of the receiver.
	Hash() uint32
}

// Hash returns the 32-bit hash of a value. It is implemented for the builtin
// types bool, string, int and float64, the List and Map types, and types
// satisfying the Hasher interface. For other values it returns 0, which is
// allowed but grows collision chains.
func Hash(v any) uint32 {
	switch v := v.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case int:
		return hash.UIntPtr(uintptr(v))
	case float64:
		return hash.UInt64(math.Float64bits(v))
	case string:
		return hash.String(v)
	case Hasher:
		return v.Hash()
	case List:
		h := hash.DJBInit
		for it := v.Iterator(); it.HasElem(); it.Next() {
			h = hash.DJBCombine(h, Hash(it.Elem()))
		}
		return h
	case Map:
		// Iteration order of maps with colliding keys is insertion-dependent,
		// so combine entry hashes by summing instead of DJBCombine.
		var h uint32
		for it := v.Iterator(); it.HasElem(); it.Next() {
			k, v := it.Elem()
			h += hash.DJB(Hash(k), Hash(v))
		}
		return h
	default:
		return 0
	}
}
