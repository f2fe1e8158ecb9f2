package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "translations.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "language,key,value\n"+
		"en,app.title,DispatchHub\n"+
		"en,jobs.claim,Claim job\n"+
		"de,jobs.claim,Auftrag annehmen\n")

	table, err := Load(path, "en")
	require.NoError(t, err)

	assert.Equal(t, []string{"de", "en"}, table.Languages())
	assert.Equal(t, "Claim job", table.Get("en", "jobs.claim"))
	assert.Equal(t, "Auftrag annehmen", table.Get("de", "jobs.claim"))
}

func TestGetFallsBackToDefaultLanguage(t *testing.T) {
	path := writeCSV(t, "en,app.title,DispatchHub\nde,jobs.claim,Auftrag annehmen\n")

	table, err := Load(path, "en")
	require.NoError(t, err)

	// de has no app.title, en does.
	assert.Equal(t, "DispatchHub", table.Get("de", "app.title"))
	// Nobody has this key; it falls through to the key itself.
	assert.Equal(t, "missing.key", table.Get("de", "missing.key"))
}

func TestLoadRejectsWrongColumnCount(t *testing.T) {
	path := writeCSV(t, "en,app.title\n")

	_, err := Load(path, "en")
	assert.Error(t, err)
}

func TestLoadRejectsEmptyLanguageOrKey(t *testing.T) {
	for _, content := range []string{
		",app.title,DispatchHub\n",
		"en,,DispatchHub\n",
	} {
		path := writeCSV(t, content)
		_, err := Load(path, "en")
		assert.Error(t, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "en")
	assert.Error(t, err)
}

func TestLanguageCopy(t *testing.T) {
	path := writeCSV(t, "en,app.title,DispatchHub\n")

	table, err := Load(path, "en")
	require.NoError(t, err)

	m := table.Language("en")
	require.NotNil(t, m)
	m["app.title"] = "mutated"
	assert.Equal(t, "DispatchHub", table.Get("en", "app.title"))

	assert.Nil(t, table.Language("xx"))
}

func TestSupported(t *testing.T) {
	for _, lang := range SupportedLanguages {
		assert.True(t, Supported(lang))
	}
	assert.False(t, Supported("xx"))
	assert.False(t, Supported(""))
}
