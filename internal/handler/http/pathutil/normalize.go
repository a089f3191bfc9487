// Package pathutil maps request paths to route templates for metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern pairs a compiled route pattern with its label template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns are evaluated in order, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/documents/upload$`), Template: "/documents/upload"},
	{Pattern: regexp.MustCompile(`^/documents/[^/]+/summary$`), Template: "/documents/:name/summary"},
	{Pattern: regexp.MustCompile(`^/documents/[^/]+$`), Template: "/documents/:name"},
	{Pattern: regexp.MustCompile(`^/swagger/.*$`), Template: "/swagger/*"},
}

// NormalizePath replaces document names in path with ":name" so each route
// yields a single label value. Query strings and a trailing slash are
// stripped. Paths that match no pattern are returned unchanged.
//
// Examples:
//
//	NormalizePath("/documents/report.pdf")         // "/documents/:name"
//	NormalizePath("/documents/report.pdf/summary") // "/documents/:name/summary"
//	NormalizePath("/documents/upload")             // "/documents/upload"
//	NormalizePath("/summaries/url?x=1")            // "/summaries/url"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}

// GetExpectedCardinality estimates the number of distinct path labels the
// API produces.
func GetExpectedCardinality() int {
	// health, ready, live, metrics, auth/token, documents, four summaries routes
	staticCount := 10
	return len(pathPatterns) + staticCount
}
