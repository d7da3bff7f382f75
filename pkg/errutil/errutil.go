// Package errutil joins multiple errors into one.
package errutil

import "strings"

// Join combines multiple errors into one. If all errors are nil, it returns
// nil; a single non-nil error is returned as is; otherwise the result's
// message contains the messages of all non-nil arguments. Errors previously
// returned by Join are flattened.
func Join(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if joined, ok := err.(joinedError); ok {
			nonNil = append(nonNil, joined...)
		} else {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return joinedError(nonNil)
	}
}

type joinedError []error

func (je joinedError) Error() string {
	var sb strings.Builder
	sb.WriteString("multiple errors: ")
	for i, e := range je {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}
