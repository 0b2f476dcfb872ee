package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"),
		[]byte(`{"menu.file": "File", "menu.open": "Open"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.json"),
		[]byte(`{"menu.file": "Datei"}`), 0644))
	return dir
}

func TestLookup(t *testing.T) {
	tr := New(writeCatalogs(t), "en")
	assert.Equal(t, "en", tr.Language())
	assert.Equal(t, "File", tr.T("menu.file"))
	assert.Equal(t, "Open", tr.T("menu.open"))
}

func TestMissingKeyFallsBackToKey(t *testing.T) {
	tr := New(writeCatalogs(t), "de")
	assert.Equal(t, "Datei", tr.T("menu.file"))
	assert.Equal(t, "menu.open", tr.T("menu.open"))
}

func TestMissingLanguageFallsBackToKeys(t *testing.T) {
	tr := New(writeCatalogs(t), "fr")
	assert.Equal(t, "fr", tr.Language())
	assert.Equal(t, "menu.file", tr.T("menu.file"))
}

func TestMalformedCatalogFallsBackToKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte("{broken"), 0644))

	tr := New(dir, "en")
	assert.Equal(t, "menu.file", tr.T("menu.file"))
}

func TestLanguages(t *testing.T) {
	dir := writeCatalogs(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	tr := New(dir, "en")
	assert.Equal(t, []string{"de", "en"}, tr.Languages())
}

func TestSetLanguageSwitchesCatalog(t *testing.T) {
	tr := New(writeCatalogs(t), "en")
	tr.SetLanguage("de")
	assert.Equal(t, "Datei", tr.T("menu.file"))
}
