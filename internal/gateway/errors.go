package gateway

import (
	"fmt"
	"strings"
)

// MissingFieldsError signals that a tool payload lacked required fields.
// Unlike network failures it crosses the gateway boundary so the caller can
// prompt the user instead of recording a generic error.
type MissingFieldsError struct {
	Tool   string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields for %s: %s", e.Tool, strings.Join(e.Fields, ", "))
}
