// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package apa

import (
	"regexp"
	"strings"

	"github.com/pdiddy/paper-forge/pkg/types"
)

// markerPattern matches inline citation markers: [Key], [Key1; Key2],
// or [Key:page].
var markerPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// Marker is one citation reference found in body text.
type Marker struct {
	// Key is the citation key referenced.
	Key string

	// Page is the page number after the colon, if any.
	Page string
}

// parseMarker splits bracket content into markers. It returns nil when
// the content does not look like citation keys (Markdown links, asides).
func parseMarker(inner string) []Marker {
	var markers []Marker
	for _, part := range strings.Split(inner, ";") {
		part = strings.TrimSpace(part)
		key, page, _ := strings.Cut(part, ":")
		key = strings.TrimSpace(key)
		page = strings.TrimSpace(page)
		if !isCitationKey(key) {
			return nil
		}
		markers = append(markers, Marker{Key: key, Page: page})
	}
	return markers
}

// isCitationKey checks whether a string looks like a citation key
// (AuthorYear format): alphanumeric with hyphens or underscores,
// containing at least one letter and one digit.
func isCitationKey(s string) bool {
	hasLetter := false
	hasDigit := false
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '-', c == '_':
			// allowed
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}

// ExtractKeys returns the distinct citation keys referenced in text, in
// order of first use.
func ExtractKeys(text string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range markerPattern.FindAllStringSubmatch(text, -1) {
		for _, marker := range parseMarker(m[1]) {
			if !seen[marker.Key] {
				seen[marker.Key] = true
				keys = append(keys, marker.Key)
			}
		}
	}
	return keys
}

// Render replaces citation markers in text with their APA in-text form.
// resolve maps a key to its citation; markers whose keys do not resolve
// are left intact for validation to report.
func Render(text string, resolve func(key string) (*types.Citation, bool)) string {
	return markerPattern.ReplaceAllStringFunc(text, func(match string) string {
		inner := match[1 : len(match)-1]
		markers := parseMarker(inner)
		if markers == nil {
			return match
		}
		rendered := make([]string, 0, len(markers))
		for _, m := range markers {
			c, ok := resolve(m.Key)
			if !ok {
				return match
			}
			rendered = append(rendered, strings.Trim(Inline(*c, m.Page), "()"))
		}
		return "(" + strings.Join(rendered, "; ") + ")"
	})
}
