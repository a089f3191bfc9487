package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// HTML extracts the main article text of a page. pageURL resolves relative
// links and may be nil. When readability finds no article (index pages, very
// short pages) the visible body text is used instead.
func HTML(r io.Reader, pageURL *url.URL) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return normalizeWhitespace(article.TextContent), nil
	}
	if err != nil {
		slog.Debug("readability failed, falling back to body text", slog.Any("error", err))
	}

	text, ferr := bodyText(raw)
	if ferr != nil {
		return "", ferr
	}
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// FragmentText returns the visible text of an HTML fragment such as a feed
// item body, one block element per line. Plain text passes through with its
// whitespace collapsed.
func FragmentText(fragment string) string {
	text, err := bodyText([]byte(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return text
}

func extractHTMLDocument(_ context.Context, data []byte) (string, error) {
	return HTML(bytes.NewReader(data), nil)
}

// bodyText returns the text of <body> without scripts, styles and navigation.
func bodyText(raw []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc.Find("script, style, noscript, nav, header, footer, template").Remove()

	var blocks []string
	doc.Find("body").Find("h1, h2, h3, h4, h5, h6, p, li, blockquote, pre, td").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Filter("p, li, blockquote, pre").Length() > 0 {
			return
		}
		if t := strings.Join(strings.Fields(s.Text()), " "); t != "" {
			blocks = append(blocks, t)
		}
	})
	if len(blocks) == 0 {
		return strings.Join(strings.Fields(doc.Find("body").Text()), " "), nil
	}
	return strings.Join(blocks, "\n"), nil
}

// normalizeWhitespace collapses runs of spaces inside each line and drops
// blank lines.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if l := strings.Join(strings.Fields(line), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
