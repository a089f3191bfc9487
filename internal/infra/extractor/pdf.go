package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// baselineTolerance is how far, in points, glyphs of one line may drift
// vertically (superscripts, rounding).
const baselineTolerance = 1.0

// extractPDF returns the plain text of every page, pages joined with "\n".
// Pages without a text layer (scans) contribute empty lines.
func extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// The parser panics on some corrupt cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, pageLines(page.Content().Text))
	}

	if strings.TrimSpace(strings.Join(pages, "")) == "" {
		return "", ErrNoText
	}
	return strings.Join(pages, "\n"), nil
}

// pageLines rebuilds the lines of a page from its glyphs in drawing order. A
// change of baseline starts a new line, so text positioned with Td or Tm
// separates as well as text advanced with T*. Blank lines leave no glyphs
// and are not recovered.
func pageLines(glyphs []pdf.Text) string {
	var b strings.Builder
	var baseline float64
	started := false
	for _, g := range glyphs {
		if g.S == "\n" {
			continue
		}
		if started && math.Abs(g.Y-baseline) > baselineTolerance {
			b.WriteByte('\n')
		}
		b.WriteString(g.S)
		baseline, started = g.Y, true
	}
	return b.String()
}
