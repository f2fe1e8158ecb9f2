// Package i18n loads interface translations from a CSV file with exactly
// three columns: language, key, value. The file is read once at startup.
package i18n

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
)

// SupportedLanguages are the language codes the API accepts.
var SupportedLanguages = []string{
	"en", "sw", "de", "it", "fr", "pt", "es", "nl", "ru", "uk", "tr",
}

// Table holds translations grouped by language.
type Table struct {
	defaultLang string
	entries     map[string]map[string]string
}

// Load parses the translations CSV. Every record must have exactly three
// non-empty language and key fields; a malformed row fails the whole load so
// a broken file is caught at startup rather than at request time.
func Load(path, defaultLang string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("i18n: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("i18n: parse %s: %w", path, err)
	}

	t := &Table{
		defaultLang: defaultLang,
		entries:     make(map[string]map[string]string),
	}
	for i, rec := range records {
		// Skip a header row if present.
		if i == 0 && rec[0] == "language" {
			continue
		}
		lang, key, value := rec[0], rec[1], rec[2]
		if lang == "" || key == "" {
			return nil, fmt.Errorf("i18n: %s row %d: empty language or key", path, i+1)
		}
		if t.entries[lang] == nil {
			t.entries[lang] = make(map[string]string)
		}
		t.entries[lang][key] = value
	}
	return t, nil
}

// Get resolves a key in the given language, falling back first to the default
// language and finally to the key itself so missing entries stay visible.
func (t *Table) Get(lang, key string) string {
	if m, ok := t.entries[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := t.entries[t.defaultLang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Language returns the full translation map for a language, or nil when the
// language is unknown.
func (t *Table) Language(lang string) map[string]string {
	m, ok := t.entries[lang]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Languages lists the language codes present in the table, sorted.
func (t *Table) Languages() []string {
	langs := make([]string, 0, len(t.entries))
	for lang := range t.entries {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Supported reports whether the language code is one the API accepts.
func Supported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
