// ABOUTME: JSON shape checks that run before struct validation
// ABOUTME: Flags missing required keys and wrong JSON types, then strips the bad keys
package schema

import (
	"math"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type jsonKind int

const (
	kindString jsonKind = iota
	kindNumber
	kindInteger
	kindObject
)

func (k jsonKind) code() string {
	switch k {
	case kindNumber:
		return "type_number"
	case kindInteger:
		return "type_integer"
	case kindObject:
		return "type_object"
	default:
		return "type_string"
	}
}

// field declares the JSON type and presence of one top-level key.
type field struct {
	path     string
	kind     jsonKind
	required bool
}

// Largest integer a JSON number can carry without losing precision.
const maxSafeInt = 1 << 53

func (k jsonKind) matches(r gjson.Result) bool {
	switch k {
	case kindString:
		return r.Type == gjson.String
	case kindNumber:
		return r.Type == gjson.Number && !math.IsInf(r.Num, 0)
	case kindInteger:
		return r.Type == gjson.Number && r.Num == math.Trunc(r.Num) && math.Abs(r.Num) <= maxSafeInt
	case kindObject:
		return r.IsObject()
	}
	return false
}

// checkShape verifies raw is a JSON object whose declared keys carry the
// declared types. It returns a document rebuilt from the declared keys that
// passed, plus one issue per offending key. Undeclared keys never reach the
// typed decode, including case variants of declared ones. Integer fields are
// rewritten from their numeric value so 15.0 decodes as 15. A raw value that
// is not a JSON object yields a single root issue and a nil document.
func checkShape(raw []byte, fields []field) ([]byte, []pending) {
	if !gjson.ValidBytes(raw) {
		return nil, []pending{{path: "", code: "invalid_json"}}
	}
	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, []pending{{path: "", code: "type_object"}}
	}

	clean := []byte(`{}`)
	var issues []pending
	for _, f := range fields {
		r := root.Get(gjson.Escape(f.path))
		if !r.Exists() {
			if f.required {
				issues = append(issues, pending{path: f.path, code: "required"})
			}
			continue
		}
		if !f.kind.matches(r) {
			issues = append(issues, pending{path: f.path, code: f.kind.code()})
			continue
		}

		var err error
		if f.kind == kindInteger {
			clean, err = sjson.SetBytes(clean, f.path, int64(r.Num))
		} else {
			clean, err = sjson.SetRawBytes(clean, f.path, []byte(r.Raw))
		}
		if err != nil {
			issues = append(issues, pending{path: f.path, code: "invalid_json"})
		}
	}
	return clean, issues
}
