package vals

import (
	"fmt"
	"strconv"
)

// ToString converts a primitive value to the string used for its text
// content. Strings convert to themselves; numbers use their shortest decimal
// notation; bool and nil use their literal spellings. Other values fall back
// to fmt.Sprint.
func ToString(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
