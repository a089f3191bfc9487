package entity

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"
)

// Format identifies how a stored document is encoded.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
)

// maxDocumentNameLength mirrors the common filesystem limit for a single path element.
const maxDocumentNameLength = 255

// Extension returns the file extension including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Writable reports whether documents of this format can be authored from plain text.
func (f Format) Writable() bool {
	return f == FormatText || f == FormatDOCX || f == FormatPDF
}

// ParseFormat maps a user supplied format ("txt", ".DOCX", ...) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "txt":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatOf returns the Format implied by the extension of name.
func FormatOf(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, name)
	}
	return ParseFormat(ext)
}

// Document is a file held by the document store. Content holds the raw encoded
// bytes (a DOCX archive, a PDF, ...); it is nil in listings.
type Document struct {
	Name       string
	Format     Format
	Size       int64
	Content    []byte
	ModifiedAt time.Time
}

// Validate checks the document name and that its extension matches Format.
func (d *Document) Validate() error {
	if err := ValidateDocumentName(d.Name); err != nil {
		return err
	}
	format, err := FormatOf(d.Name)
	if err != nil {
		return err
	}
	if d.Format == "" {
		d.Format = format
	}
	if d.Format != format {
		return &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("format %q does not match extension of %q", d.Format, d.Name),
		}
	}
	return nil
}

// ValidateDocumentName rejects names that are empty, too long or that could
// escape the store's root directory.
func ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > maxDocumentNameLength {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must not exceed %d characters", maxDocumentNameLength),
		}
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return &ValidationError{Field: "name", Message: "name must not contain path separators"}
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return &ValidationError{Field: "name", Message: "name must not start with a dot"}
	}
	return nil
}

// WithExtension appends the format's extension unless name already carries it.
func WithExtension(name string, format Format) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(filepath.Ext(name), format.Extension()) {
		return name
	}
	return name + format.Extension()
}
