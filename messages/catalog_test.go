// ABOUTME: Tests for localized message catalogs
// ABOUTME: Covers locale fallback, per-field overrides, and file layering
package messages

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedLocales(t *testing.T) {
	assert.Equal(t, []string{"en", "es"}, Locales())

	es, err := Load("es")
	require.NoError(t, err)
	assert.Equal(t, "es", es.Locale)

	en, err := Load("en")
	require.NoError(t, err)
	assert.Equal(t, "en", en.Locale)
}

func TestLoadUnknownLocaleFallsBack(t *testing.T) {
	c, err := Load("fr")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, c.Locale)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, c.Locale)
}

func TestFormat(t *testing.T) {
	c := MustLoad("en")

	assert.Equal(t, "Sector is required", c.Format("required", "sector", nil))
	assert.Equal(t, "Target close date must be a string", c.Format("type_string", "closeTargetDate", nil))
	assert.Equal(t, "notes must be a string", c.Format("type_string", "notes", nil))
	assert.Equal(t, "Name must be at least 2 characters",
		c.Format("min_length", "name", map[string]string{"min": "2"}))
	assert.Equal(t, "Influence must be between 0 and 5", c.Format("lte", "influence", map[string]string{"max": "5"}))
	assert.Equal(t, "Probability (50%) does not match stage Qualified (15%)",
		c.Format("probability_stage", "probabilityPct", map[string]string{
			"value": "50", "stage": "Qualified", "expected": "15",
		}))
	assert.Equal(t, "Stage is invalid", c.Format("no_such_code", "stage", nil))
}

func TestFormatSpanishOverride(t *testing.T) {
	c := MustLoad("es")
	assert.Equal(t, "El nombre debe tener al menos 2 caracteres",
		c.Format("min_length", "name", map[string]string{"min": "2"}))
	assert.Equal(t, "EV máximo debe ser mayor o igual a EV mínimo", c.Format("ev_range", "evMax", nil))
}

func TestLoadFileLayersOverEmbedded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := `locale: en
messages:
  email: "That does not look like an email address"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	c, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "That does not look like an email address", c.Format("email", "email", nil))
	// Keys the file does not mention come from the embedded catalog.
	assert.Equal(t, "Sector is required", c.Format("required", "sector", nil))
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
