// ABOUTME: Deal, Company, Contact, and Activity schemas
// ABOUTME: Declares JSON shapes, deal refinements, and the Parse/Decode/Validate entry points
package schema

import (
	"fmt"
	"strconv"

	"github.com/harperreed/mandato/models"
)

var dealSchema = entitySchema[models.Deal]{
	entity: models.KindDeal,
	fields: []field{
		{"id", kindString, true},
		{"name", kindString, true},
		{"mandateType", kindString, true},
		{"sector", kindString, true},
		{"evMin", kindNumber, true},
		{"evMax", kindNumber, true},
		{"stage", kindString, true},
		{"probabilityPct", kindInteger, true},
		{"feeModel", kindString, false},
		{"closeTargetDate", kindString, false},
		{"companyId", kindString, false},
		{"contactId", kindString, false},
		{"createdAt", kindString, false},
		{"updatedAt", kindString, false},
		{"metadata", kindObject, false},
	},
	refine: refineDeal,
}

var companySchema = entitySchema[models.Company]{
	entity: models.KindCompany,
	fields: []field{
		{"id", kindString, true},
		{"name", kindString, true},
		{"sector", kindString, true},
		{"country", kindString, true},
		{"ebitdaLtm", kindNumber, false},
		{"ingresos_ltm", kindNumber, false},
		{"website", kindString, false},
		{"createdAt", kindString, false},
		{"updatedAt", kindString, false},
		{"metadata", kindObject, false},
	},
}

var contactSchema = entitySchema[models.Contact]{
	entity: models.KindContact,
	fields: []field{
		{"id", kindString, true},
		{"name", kindString, true},
		{"email", kindString, true},
		{"phone", kindString, false},
		{"role", kindString, false},
		{"language", kindString, false},
		{"companyId", kindString, false},
		{"influence", kindInteger, false},
		{"createdAt", kindString, false},
		{"updatedAt", kindString, false},
		{"metadata", kindObject, false},
	},
}

var activitySchema = entitySchema[models.Activity]{
	entity: models.KindActivity,
	fields: []field{
		{"id", kindString, true},
		{"title", kindString, true},
		{"type", kindString, true},
		{"description", kindString, false},
		{"result", kindString, false},
		{"nextStep", kindString, false},
		{"dueDate", kindString, false},
		{"dealId", kindString, false},
		{"contactId", kindString, false},
		{"createdAt", kindString, false},
		{"updatedAt", kindString, false},
		{"metadata", kindObject, false},
	},
}

// refineDeal applies the cross-field rules. Both rules are evaluated; a
// record can fail either or both.
func refineDeal(d *models.Deal) []pending {
	var issues []pending

	if d.EVMax.LessThan(d.EVMin.Decimal) {
		issues = append(issues, pending{
			path: "evMax",
			code: "ev_range",
			params: map[string]string{
				"min": d.EVMin.String(),
				"max": d.EVMax.String(),
			},
		})
	}

	expected := models.ProbabilityForStage(d.Stage)
	if d.ProbabilityPct != expected {
		issues = append(issues, pending{
			path: "probabilityPct",
			code: "probability_stage",
			params: map[string]string{
				"value":    strconv.Itoa(d.ProbabilityPct),
				"stage":    d.Stage,
				"expected": strconv.Itoa(expected),
			},
		})
	}

	return issues
}

// ParseDeal validates a JSON candidate and returns the typed deal.
func (v *Validator) ParseDeal(raw []byte) (*models.Deal, error) {
	return parseWith(v, dealSchema, raw)
}

// DecodeDeal validates an already decoded JSON object.
func (v *Validator) DecodeDeal(m map[string]any) (*models.Deal, error) {
	return decodeWith(v, dealSchema, m)
}

// ValidateDeal validates an in-memory deal.
func (v *Validator) ValidateDeal(d models.Deal) error {
	return validateWith(v, dealSchema, &d)
}

// ParseCompany validates a JSON candidate and returns the typed company.
func (v *Validator) ParseCompany(raw []byte) (*models.Company, error) {
	return parseWith(v, companySchema, raw)
}

// DecodeCompany validates an already decoded JSON object.
func (v *Validator) DecodeCompany(m map[string]any) (*models.Company, error) {
	return decodeWith(v, companySchema, m)
}

// ValidateCompany validates an in-memory company.
func (v *Validator) ValidateCompany(c models.Company) error {
	return validateWith(v, companySchema, &c)
}

// ParseContact validates a JSON candidate and returns the typed contact.
func (v *Validator) ParseContact(raw []byte) (*models.Contact, error) {
	return parseWith(v, contactSchema, raw)
}

// DecodeContact validates an already decoded JSON object.
func (v *Validator) DecodeContact(m map[string]any) (*models.Contact, error) {
	return decodeWith(v, contactSchema, m)
}

// ValidateContact validates an in-memory contact.
func (v *Validator) ValidateContact(c models.Contact) error {
	return validateWith(v, contactSchema, &c)
}

// ParseActivity validates a JSON candidate and returns the typed activity.
func (v *Validator) ParseActivity(raw []byte) (*models.Activity, error) {
	return parseWith(v, activitySchema, raw)
}

// DecodeActivity validates an already decoded JSON object.
func (v *Validator) DecodeActivity(m map[string]any) (*models.Activity, error) {
	return decodeWith(v, activitySchema, m)
}

// ValidateActivity validates an in-memory activity.
func (v *Validator) ValidateActivity(a models.Activity) error {
	return validateWith(v, activitySchema, &a)
}

// Parse validates raw as a record of the given kind and returns a pointer
// to the typed record (*models.Deal, *models.Company, ...).
func (v *Validator) Parse(kind string, raw []byte) (any, error) {
	switch kind {
	case models.KindDeal:
		return v.ParseDeal(raw)
	case models.KindCompany:
		return v.ParseCompany(raw)
	case models.KindContact:
		return v.ParseContact(raw)
	case models.KindActivity:
		return v.ParseActivity(raw)
	default:
		return nil, fmt.Errorf("unknown record kind: %q", kind)
	}
}

// Package-level shorthands over Default().

func ParseDeal(raw []byte) (*models.Deal, error)         { return Default().ParseDeal(raw) }
func ParseCompany(raw []byte) (*models.Company, error)   { return Default().ParseCompany(raw) }
func ParseContact(raw []byte) (*models.Contact, error)   { return Default().ParseContact(raw) }
func ParseActivity(raw []byte) (*models.Activity, error) { return Default().ParseActivity(raw) }

func ValidateDeal(d models.Deal) error         { return Default().ValidateDeal(d) }
func ValidateCompany(c models.Company) error   { return Default().ValidateCompany(c) }
func ValidateContact(c models.Contact) error   { return Default().ValidateContact(c) }
func ValidateActivity(a models.Activity) error { return Default().ValidateActivity(a) }
