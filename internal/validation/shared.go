package validation

import (
	"fmt"
	"slices"
	"strings"
)

// Error carries one message per invalid request field.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	slices.Sort(msgs)
	return strings.Join(msgs, "; ")
}

// merge adds the fields of err to fields when err is a validation Error.
// Any other non-nil error is returned unchanged.
func merge(fields map[string]string, err error) error {
	if err == nil {
		return nil
	}
	verr, ok := err.(*Error)
	if !ok {
		return err
	}
	for k, v := range verr.Fields {
		fields[k] = v
	}
	return nil
}

func result(fields map[string]string) error {
	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}
