package vals

import "fmt"

// Kinder wraps the Kind method.
type Kinder interface {
	Kind() string
}

// Kind returns the "kind" of the value, a concept similar to type but
// oriented towards how the evaluator treats the value. It is implemented for
// the builtin nil, bool, string, int and float64, the List and Map types,
// Go slices, and types satisfying the Kinder interface. For other types, it
// returns the Go type name of the argument preceded by "!!".
func Kind(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case string:
		return "string"
	case int, float64:
		return "number"
	case []any:
		return "seq"
	case List:
		return "list"
	case Map:
		return "map"
	case Kinder:
		return v.Kind()
	default:
		return fmt.Sprintf("!!%T", v)
	}
}
