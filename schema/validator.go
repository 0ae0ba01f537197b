// ABOUTME: Record validator built on go-playground/validator
// ABOUTME: Runs shape checks, field rules, and refinements, collecting every issue
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/mandato/messages"
	"github.com/harperreed/mandato/models"
)

// Validator checks candidate records against the entity schemas. It holds
// no mutable state after New returns and is safe for concurrent use.
type Validator struct {
	validate     *validator.Validate
	catalog      *messages.Catalog
	lenientStage bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithCatalog sets the message catalog used to render issues.
func WithCatalog(c *messages.Catalog) Option {
	return func(v *Validator) {
		if c != nil {
			v.catalog = c
		}
	}
}

// WithLocale renders issues with the embedded catalog for locale.
func WithLocale(locale string) Option {
	return func(v *Validator) {
		v.catalog = messages.MustLoad(locale)
	}
}

// WithLenientStage accepts any non-empty deal stage. Unknown stages then
// resolve to probability 0 in the stage/probability refinement instead of
// failing the stage field. Meant for importing legacy rows.
func WithLenientStage() Option {
	return func(v *Validator) {
		v.lenientStage = true
	}
}

// New builds a Validator. Without options it renders messages with the
// default (Spanish) catalog and rejects unknown deal stages.
func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		catalog:  messages.MustLoad(messages.DefaultLocale),
	}
	for _, opt := range opts {
		opt(v)
	}

	// Report json names so issue paths match the wire format.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Amount embeds decimal.Decimal; expose it as a float64 so numeric tags
	// like gte=0 work on it.
	v.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if a, ok := field.Interface().(models.Amount); ok {
			f, _ := a.Float64()
			return f
		}
		return nil
	}, models.Amount{})

	lenient := v.lenientStage
	err := v.validate.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return lenient || models.IsKnownStage(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("schema: register stage validation: %v", err))
	}

	return v
}

var defaultValidator atomic.Pointer[Validator]

func init() {
	defaultValidator.Store(New())
}

// Default returns the package-level validator used by the Parse*/Validate*
// functions.
func Default() *Validator {
	return defaultValidator.Load()
}

// SetDefault replaces the package-level validator, typically once at
// startup after the configured locale is known.
func SetDefault(v *Validator) {
	if v != nil {
		defaultValidator.Store(v)
	}
}

// pending is an issue whose message has not been rendered yet.
type pending struct {
	path   string
	code   string
	params map[string]string
}

func (v *Validator) render(entity string, order []field, issues []pending) error {
	if len(issues) == 0 {
		return nil
	}

	rank := make(map[string]int, len(order))
	for i, f := range order {
		rank[f.path] = i + 1 // root path "" sorts first
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return rank[issues[i].path] < rank[issues[j].path]
	})

	out := make([]Issue, len(issues))
	for i, p := range issues {
		out[i] = Issue{
			Path:    p.path,
			Code:    p.code,
			Message: v.catalog.Format(p.code, p.path, p.params),
		}
	}
	return &ValidationError{Entity: entity, Issues: out}
}

// structIssues runs the validate tags on rec, skipping paths that already
// failed a shape check.
func (v *Validator) structIssues(rec any, skip map[string]bool) []pending {
	err := v.validate.Struct(rec)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []pending{{path: "", code: "invalid"}}
	}

	var out []pending
	for _, fe := range fieldErrs {
		if skip[fe.Field()] {
			continue
		}
		out = append(out, fieldIssue(fe))
	}
	return out
}

func fieldIssue(fe validator.FieldError) pending {
	p := pending{path: fe.Field(), code: fe.Tag(), params: map[string]string{}}
	switch fe.Tag() {
	case "min":
		p.code = "min_length"
		p.params["min"] = fe.Param()
	case "gte":
		p.params["min"] = fe.Param()
	case "lte":
		p.params["max"] = fe.Param()
	case "oneof":
		p.code = "enum"
		p.params["options"] = strings.Join(strings.Fields(fe.Param()), ", ")
	case "stage":
		p.code = "enum"
		p.params["options"] = strings.Join(models.Stages(), ", ")
	}
	return p
}

// entitySchema ties a record type to its shape declaration and
// cross-field refinements.
type entitySchema[T any] struct {
	entity string
	fields []field
	refine func(rec *T) []pending
}

func parseWith[T any](v *Validator, s entitySchema[T], raw []byte) (*T, error) {
	clean, issues := checkShape(raw, s.fields)
	if clean == nil {
		return nil, v.render(s.entity, s.fields, issues)
	}

	var rec T
	if err := json.Unmarshal(clean, &rec); err != nil {
		issues = append(issues, pending{path: "", code: "invalid_json"})
		return nil, v.render(s.entity, s.fields, issues)
	}

	skip := make(map[string]bool, len(issues))
	for _, p := range issues {
		skip[p.path] = true
	}
	issues = append(issues, v.structIssues(&rec, skip)...)

	if len(issues) == 0 && s.refine != nil {
		issues = s.refine(&rec)
	}
	if err := v.render(s.entity, s.fields, issues); err != nil {
		return nil, err
	}
	return &rec, nil
}

func validateWith[T any](v *Validator, s entitySchema[T], rec *T) error {
	issues := v.structIssues(rec, nil)
	if len(issues) == 0 && s.refine != nil {
		issues = s.refine(rec)
	}
	return v.render(s.entity, s.fields, issues)
}

func decodeWith[T any](v *Validator, s entitySchema[T], m map[string]any) (*T, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, v.render(s.entity, s.fields, []pending{{path: "", code: "invalid_json"}})
	}
	return parseWith(v, s, raw)
}
