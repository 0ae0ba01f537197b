// ABOUTME: Localized validation message catalogs
// ABOUTME: Loads YAML catalogs (embedded es/en or a user file) and formats issue messages
package messages

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when no locale is configured or the requested one
// has no catalog.
const DefaultLocale = "es"

//go:embed catalogs/*.yaml
var catalogsFS embed.FS

// Catalog maps issue codes to message templates for one locale.
//
// Templates use {name} placeholders. {field} is replaced with the field
// label from Fields (or the raw path when no label exists); other
// placeholders come from the params passed to Format.
type Catalog struct {
	Locale    string            `yaml:"locale"`
	Messages  map[string]string `yaml:"messages"`
	Fields    map[string]string `yaml:"fields"`
	Overrides map[string]string `yaml:"overrides"`
}

// Load returns the embedded catalog for locale, falling back to
// DefaultLocale when locale is empty or unknown.
func Load(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	data, err := catalogsFS.ReadFile("catalogs/" + locale + ".yaml")
	if err != nil {
		data, err = catalogsFS.ReadFile("catalogs/" + DefaultLocale + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read default catalog: %w", err)
		}
	}
	return parse(data)
}

// MustLoad is Load for the embedded catalogs, which always parse.
func MustLoad(locale string) *Catalog {
	c, err := Load(locale)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile reads a catalog from disk and layers it over the embedded
// catalog of the same locale, so a file only needs the keys it changes.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	custom, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	base, err := Load(custom.Locale)
	if err != nil {
		return nil, err
	}
	base.merge(custom)
	return base, nil
}

// Locales lists the embedded catalog locales.
func Locales() []string {
	entries, err := catalogsFS.ReadDir("catalogs")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Messages == nil {
		c.Messages = map[string]string{}
	}
	if c.Fields == nil {
		c.Fields = map[string]string{}
	}
	if c.Overrides == nil {
		c.Overrides = map[string]string{}
	}
	return &c, nil
}

func (c *Catalog) merge(other *Catalog) {
	for k, v := range other.Messages {
		c.Messages[k] = v
	}
	for k, v := range other.Fields {
		c.Fields[k] = v
	}
	for k, v := range other.Overrides {
		c.Overrides[k] = v
	}
}

// Label returns the display label for a field path.
func (c *Catalog) Label(field string) string {
	if label, ok := c.Fields[field]; ok {
		return label
	}
	return field
}

// Format renders the message for code on field. A per-field override
// ("field.code") wins over the generic template; an unknown code falls
// back to the catalog's "invalid" message.
func (c *Catalog) Format(code, field string, params map[string]string) string {
	tmpl, ok := c.Overrides[field+"."+code]
	if !ok {
		tmpl, ok = c.Messages[code]
	}
	if !ok {
		tmpl, ok = c.Messages["invalid"]
	}
	if !ok {
		return field + ": " + code
	}

	pairs := []string{"{field}", c.Label(field)}
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
