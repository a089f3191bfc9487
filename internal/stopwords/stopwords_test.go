package stopwords_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perangkum/internal/stopwords"
)

func TestForLocale_Indonesian(t *testing.T) {
	l, err := stopwords.ForLocale("id")
	require.NoError(t, err)

	assert.Equal(t, "id", l.Locale)
	assert.Len(t, l.Words, 40)

	set := l.Set()
	for _, w := range []string{"yang", "dan", "atau", "bisa"} {
		assert.True(t, set.Contains(w), "expected %q in Indonesian list", w)
	}
	assert.False(t, set.Contains("pasar"))
}

func TestForLocale_CaseInsensitive(t *testing.T) {
	l, err := stopwords.ForLocale(" EN ")
	require.NoError(t, err)
	assert.Equal(t, "en", l.Locale)
	assert.True(t, l.Set().Contains("the"))
}

func TestForLocale_Unknown(t *testing.T) {
	_, err := stopwords.ForLocale("xx")
	assert.ErrorIs(t, err, stopwords.ErrUnknownLocale)
}

func TestForLocale_ReturnsCopy(t *testing.T) {
	l, err := stopwords.ForLocale("id")
	require.NoError(t, err)
	l.Words[0] = "mutated"

	again, err := stopwords.ForLocale("id")
	require.NoError(t, err)
	assert.Equal(t, "dan", again.Words[0])
}

func TestLocales(t *testing.T) {
	assert.Equal(t, []string{"en", "id"}, stopwords.Locales())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jv.yaml")
	content := "locale: jv\nwords:\n  - lan\n  - ing\n  - Sing\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	l, err := stopwords.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jv", l.Locale)

	set := l.Set()
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains("sing"))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "words: [unterminated"},
		{"no words", "locale: id\nwords: []\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			_, err := stopwords.Load(path)
			assert.Error(t, err)
		})
	}

	_, err := stopwords.Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
