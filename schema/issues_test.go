// ABOUTME: Tests for the structured validation error
// ABOUTME: Validates Error text, Fields, Has, and errors.As unwrapping
package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorHelpers(t *testing.T) {
	verr := &ValidationError{
		Entity: "deal",
		Issues: []Issue{
			{Path: "evMax", Code: "ev_range", Message: "EV max must be greater than or equal to EV min"},
			{Path: "probabilityPct", Code: "probability_stage", Message: "mismatch"},
			{Path: "probabilityPct", Code: "other", Message: "second"},
		},
	}

	assert.Equal(t, "invalid deal: evMax: EV max must be greater than or equal to EV min; probabilityPct: mismatch; probabilityPct: second", verr.Error())
	assert.Equal(t, map[string]string{
		"evMax":          "EV max must be greater than or equal to EV min",
		"probabilityPct": "mismatch",
	}, verr.Fields())
	assert.True(t, verr.Has("evMax"))
	assert.False(t, verr.Has("name"))
	assert.Equal(t, []string{"probability_stage", "other"}, verr.Codes("probabilityPct"))
}

func TestAsValidationErrorWrapped(t *testing.T) {
	inner := &ValidationError{Entity: "contact", Issues: []Issue{{Path: "email", Code: "email", Message: "bad"}}}
	wrapped := fmt.Errorf("failed to create contact: %w", inner)

	got, ok := AsValidationError(wrapped)
	assert.True(t, ok)
	assert.Same(t, inner, got)

	_, ok = AsValidationError(fmt.Errorf("disk full"))
	assert.False(t, ok)
}

func TestRootIssueMessage(t *testing.T) {
	_, err := New(WithLocale("en")).ParseCompany([]byte(`42`))
	verr, ok := AsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "Record must be an object", verr.Issues[0].Message)
	assert.Equal(t, "invalid company: Record must be an object", verr.Error())
}
