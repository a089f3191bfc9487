package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page layout of authored PDFs, in points.
const (
	pdfMargin   = 50.0
	pdfLeading  = 15.0
	pdfFontSize = 12.0
)

// EncodePDF renders text on A4 pages in Helvetica, one line per "\n". A new
// page starts when the next line would fall into the bottom margin. Runes
// outside Windows-1252 cannot be drawn with the core fonts and are replaced.
func EncodePDF(text string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("perangkum", false)
	toCP1252 := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "", pdfFontSize)
	_, pageHeight := doc.GetPageSize()

	y := pdfMargin
	for _, line := range strings.Split(text, "\n") {
		if y > pageHeight-pdfMargin {
			doc.AddPage()
			y = pdfMargin
		}
		if line = strings.TrimRight(line, "\r"); line != "" {
			doc.Text(pdfMargin, y, toCP1252(line))
		}
		y += pdfLeading
	}

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("encode pdf: %w", err)
	}
	return out.Bytes(), nil
}
