// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package apa renders bibliographic entries and inline citation markers
// in APA style. Formatting is a pure function of the citation fields:
// the same input always yields the same string.
package apa

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/paper-forge/pkg/types"
)

// FieldError reports a citation field that fails validation.
type FieldError struct {
	// Key is the citation key, if any.
	Key string

	// Field names the offending field.
	Field string

	// Reason explains what is wrong.
	Reason string
}

func (e *FieldError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("citation field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("citation %s, field %s: %s", e.Key, e.Field, e.Reason)
}

// Validate checks that the fields required for APA rendering are present:
// at least one author, a title, and a plausible year.
func Validate(c types.Citation) error {
	if len(c.Authors) == 0 || strings.TrimSpace(strings.Join(c.Authors, "")) == "" {
		return &FieldError{Key: c.Key, Field: "authors", Reason: "at least one author is required"}
	}
	if strings.TrimSpace(c.Title) == "" {
		return &FieldError{Key: c.Key, Field: "title", Reason: "title is required"}
	}
	if c.Year < 1400 || c.Year > time.Now().Year()+1 {
		return &FieldError{Key: c.Key, Field: "year", Reason: fmt.Sprintf("year %d out of range", c.Year)}
	}
	return nil
}

// Surname returns the sort surname of an author string in "Surname, N."
// form. Names without a comma are used whole (institutional authors).
func Surname(author string) string {
	if idx := strings.Index(author, ","); idx >= 0 {
		return strings.TrimSpace(author[:idx])
	}
	return strings.TrimSpace(author)
}

// joinAuthors renders an author list for a reference entry: two authors
// joined with "&", three or more with commas and "&" before the last.
func joinAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " & " + authors[1]
	default:
		return strings.Join(authors[:len(authors)-1], ", ") + ", & " + authors[len(authors)-1]
	}
}

// FormatReference renders one citation as an APA reference string.
func FormatReference(c types.Citation) string {
	authors := joinAuthors(c.Authors)
	title := strings.TrimSuffix(strings.TrimSpace(c.Title), ".")
	source := strings.TrimSuffix(strings.TrimSpace(c.Source), ".")

	switch c.Type {
	case types.CitationWeb:
		ref := fmt.Sprintf("%s (%d). %s.", authors, c.Year, title)
		if source != "" {
			ref += " " + source + "."
		}
		if c.URL != "" {
			ref += " Retrieved from " + c.URL
		}
		return ref
	case types.CitationThesis:
		if source != "" {
			return fmt.Sprintf("%s (%d). %s [Thesis]. %s.", authors, c.Year, title, source)
		}
		return fmt.Sprintf("%s (%d). %s [Thesis].", authors, c.Year, title)
	case types.CitationReport:
		if source != "" {
			return fmt.Sprintf("%s (%d). %s (Report). %s.", authors, c.Year, title, source)
		}
		return fmt.Sprintf("%s (%d). %s (Report).", authors, c.Year, title)
	default:
		// Book and article share the base shape.
		if source != "" {
			return fmt.Sprintf("%s (%d). %s. %s.", authors, c.Year, title, source)
		}
		return fmt.Sprintf("%s (%d). %s.", authors, c.Year, title)
	}
}

// ReferenceList formats and sorts citations for the references page:
// first author surname, then year, then title.
func ReferenceList(cs []types.Citation) []string {
	sorted := make([]types.Citation, len(cs))
	copy(sorted, cs)
	sort.SliceStable(sorted, func(i, j int) bool {
		si := strings.ToLower(Surname(first(sorted[i].Authors)))
		sj := strings.ToLower(Surname(first(sorted[j].Authors)))
		if si != sj {
			return si < sj
		}
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})

	refs := make([]string, len(sorted))
	for i, c := range sorted {
		refs[i] = FormatReference(c)
	}
	return refs
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// Inline renders the in-text citation for an entry: (Surname, Year),
// (A & B, Year) for two authors, (Surname et al., Year) for three or
// more. A non-empty page appends ", p. N".
func Inline(c types.Citation, page string) string {
	var who string
	switch len(c.Authors) {
	case 0:
		who = c.Key
	case 1:
		who = Surname(c.Authors[0])
	case 2:
		who = Surname(c.Authors[0]) + " & " + Surname(c.Authors[1])
	default:
		who = Surname(c.Authors[0]) + " et al."
	}
	if page != "" {
		return fmt.Sprintf("(%s, %d, p. %s)", who, c.Year, page)
	}
	return fmt.Sprintf("(%s, %d)", who, c.Year)
}

// DeriveKey suggests a citation key in AuthorYear form from the first
// author's surname, with spaces stripped.
func DeriveKey(c types.Citation) string {
	surname := Surname(first(c.Authors))
	surname = strings.ReplaceAll(surname, " ", "")
	if surname == "" {
		return ""
	}
	return fmt.Sprintf("%s%d", surname, c.Year)
}
