package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"txt", FormatText, false},
		{".TXT", FormatText, false},
		{"docx", FormatDOCX, false},
		{" pdf ", FormatPDF, false},
		{"htm", FormatHTML, false},
		{"html", FormatHTML, false},
		{"doc", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("laporan.Docx")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)

	_, err = FormatOf("README")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = FormatOf("image.png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormat_Writable(t *testing.T) {
	assert.True(t, FormatText.Writable())
	assert.True(t, FormatDOCX.Writable())
	assert.True(t, FormatPDF.Writable())
	assert.False(t, FormatHTML.Writable())
}

func TestValidateDocumentName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"plain", "catatan.txt", false},
		{"unicode", "ringkasan-rapat_2024.docx", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"slash", "../etc/passwd", true},
		{"backslash", `..\win.ini`, true},
		{"dot dot", "..", true},
		{"hidden", ".env", true},
		{"too long", strings.Repeat("a", 252) + ".txt", true},
		{"nul", "a\x00.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocumentName(tt.in)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, "name", vErr.Field)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestDocument_Validate(t *testing.T) {
	d := &Document{Name: "berita.pdf"}
	require.NoError(t, d.Validate())
	assert.Equal(t, FormatPDF, d.Format)

	d = &Document{Name: "berita.pdf", Format: FormatText}
	var vErr *ValidationError
	assert.True(t, errors.As(d.Validate(), &vErr))

	d = &Document{Name: "berita.xls"}
	assert.ErrorIs(t, d.Validate(), ErrUnsupportedFormat)
}

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "catatan.txt", WithExtension("catatan", FormatText))
	assert.Equal(t, "catatan.txt", WithExtension(" catatan.txt ", FormatText))
	assert.Equal(t, "catatan.TXT", WithExtension("catatan.TXT", FormatText))
	assert.Equal(t, "catatan.txt.docx", WithExtension("catatan.txt", FormatDOCX))
}
