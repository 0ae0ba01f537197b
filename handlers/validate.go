// ABOUTME: Record validation MCP tool
// ABOUTME: Runs the schema gate on an arbitrary record and returns every issue as data
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/mandato/models"
	"github.com/harperreed/mandato/schema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

type ValidateHandlers struct {
	validator *schema.Validator
}

// NewValidateHandlers uses schema.Default() when v is nil.
func NewValidateHandlers(v *schema.Validator) *ValidateHandlers {
	return &ValidateHandlers{validator: v}
}

type ValidateRecordInput struct {
	Kind   string         `json:"kind" jsonschema:"Record kind: deal, company, contact, or activity"`
	Record map[string]any `json:"record" jsonschema:"The record as a JSON object, using camelCase field names"`
}

type ValidateRecordOutput struct {
	Kind   string         `json:"kind"`
	Valid  bool           `json:"valid"`
	Issues []schema.Issue `json:"issues"`
}

// ValidateRecord never writes. A failing record is a successful call whose
// output lists the issues.
func (h *ValidateHandlers) ValidateRecord(_ context.Context, request *mcp.CallToolRequest, input ValidateRecordInput) (*mcp.CallToolResult, ValidateRecordOutput, error) {
	v := h.validator
	if v == nil {
		v = schema.Default()
	}

	var err error
	switch input.Kind {
	case models.KindDeal:
		_, err = v.DecodeDeal(input.Record)
	case models.KindCompany:
		_, err = v.DecodeCompany(input.Record)
	case models.KindContact:
		_, err = v.DecodeContact(input.Record)
	case models.KindActivity:
		_, err = v.DecodeActivity(input.Record)
	default:
		return nil, ValidateRecordOutput{}, fmt.Errorf("unknown kind %q (valid: deal, company, contact, activity)", input.Kind)
	}

	out := ValidateRecordOutput{Kind: input.Kind, Valid: err == nil, Issues: []schema.Issue{}}
	if err != nil {
		verr, ok := schema.AsValidationError(err)
		if !ok {
			return nil, ValidateRecordOutput{}, err
		}
		out.Issues = verr.Issues
		log.Debug().Str("entity", input.Kind).Int("issues", len(verr.Issues)).Msg("record rejected")
	}
	return nil, out, nil
}
