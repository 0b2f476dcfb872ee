// Package i18n resolves UI string identifiers against per-language JSON
// catalogs. A missing catalog or key falls back to the identifier itself.
package i18n

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Translator holds the catalog of the currently selected language.
type Translator struct {
	dir     string
	current string
	catalog map[string]string
}

// New returns a translator reading catalogs from dir, with lang selected.
func New(dir, lang string) *Translator {
	t := &Translator{dir: dir}
	t.SetLanguage(lang)
	return t
}

// Languages lists the language codes available in the catalog directory.
func (t *Translator) Languages() []string {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasSuffix(name, ".json") {
			langs = append(langs, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(langs)
	return langs
}

// SetLanguage loads the catalog for lang. A missing or malformed catalog
// leaves every lookup falling back to its key.
func (t *Translator) SetLanguage(lang string) {
	t.current = lang
	t.catalog = map[string]string{}
	data, err := os.ReadFile(filepath.Join(t.dir, lang+".json"))
	if err != nil {
		return
	}
	var catalog map[string]string
	if err := json.Unmarshal(data, &catalog); err != nil {
		return
	}
	t.catalog = catalog
}

// Language returns the currently selected language code.
func (t *Translator) Language() string { return t.current }

// T returns the translation for key, or key itself when no entry exists.
func (t *Translator) T(key string) string {
	if v, ok := t.catalog[key]; ok {
		return v
	}
	return key
}
