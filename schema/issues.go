// ABOUTME: Structured validation results
// ABOUTME: Issue and ValidationError carry every failed rule back to the caller as data
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue is one failed rule on one field.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError is returned when a record fails validation. It lists every
// issue found in the call, not just the first.
type ValidationError struct {
	Entity string  `json:"entity"`
	Issues []Issue `json:"issues"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Path+": "+issue.Message)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

// Fields maps each failing path to its first message, the shape form
// renderers expect for inline field errors.
func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Issues))
	for _, issue := range e.Issues {
		if _, ok := out[issue.Path]; !ok {
			out[issue.Path] = issue.Message
		}
	}
	return out
}

// Has reports whether any issue is attached to path.
func (e *ValidationError) Has(path string) bool {
	for _, issue := range e.Issues {
		if issue.Path == path {
			return true
		}
	}
	return false
}

// Codes returns the issue codes attached to path, in order.
func (e *ValidationError) Codes(path string) []string {
	var out []string
	for _, issue := range e.Issues {
		if issue.Path == path {
			out = append(out, issue.Code)
		}
	}
	return out
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
