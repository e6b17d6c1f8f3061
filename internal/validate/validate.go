// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks a project for completeness before document
// generation: required metadata, required section content, citation
// integrity, and image readability.
package validate

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/paper-forge/internal/apa"
	"github.com/pdiddy/paper-forge/pkg/types"
)

// Error aggregates everything that blocks generation. Each issue names
// the offending field or section.
type Error struct {
	Issues []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("project validation failed: %s", strings.Join(e.Issues, "; "))
}

// Check validates a project against cfg. It returns non-blocking
// warnings and, when anything blocks generation, a *Error listing every
// issue found.
func Check(p *types.Project, cfg types.ValidationConfig) ([]string, error) {
	var issues, warnings []string

	for _, field := range cfg.RequiredFields {
		if metadataField(p, field) == "" {
			issues = append(issues, fmt.Sprintf("required field %q is empty", field))
		}
	}

	known := make(map[string]bool, len(p.Citations))
	for _, c := range p.Citations {
		known[c.Key] = true
		if err := apa.Validate(c); err != nil {
			issues = append(issues, err.Error())
		}
	}

	for _, s := range p.Sections {
		if s.Chapter {
			continue
		}
		body := strings.TrimSpace(s.Body)
		if s.Required && len(body) < cfg.MinSectionLength {
			issues = append(issues, fmt.Sprintf("required section %q is shorter than %d characters", s.Heading, cfg.MinSectionLength))
		}
		keys := apa.ExtractKeys(body)
		for _, key := range keys {
			if !known[key] {
				issues = append(issues, fmt.Sprintf("section %q references unknown citation key %q", s.Heading, key))
			}
		}
		if body != "" && len(keys) == 0 {
			warnings = append(warnings, fmt.Sprintf("section %q has no citation markers", s.Heading))
		}
	}

	for slot, path := range p.Images {
		if path == "" {
			warnings = append(warnings, fmt.Sprintf("%s image slot is attached but has no path", slot))
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			issues = append(issues, fmt.Sprintf("%s image %q is not readable: %v", slot, path, err))
			continue
		}
		f.Close()
	}

	if len(p.Citations) < cfg.MinReferences {
		issues = append(issues, fmt.Sprintf("project has %d citations, minimum is %d", len(p.Citations), cfg.MinReferences))
	} else if len(p.Citations) == 0 {
		warnings = append(warnings, "project has no citations")
	}

	if len(issues) > 0 {
		return warnings, &Error{Issues: issues}
	}
	return warnings, nil
}

// metadataField resolves a required-field name to its project value.
// Unknown names resolve to empty so misconfigured field lists surface
// as missing-field issues instead of passing silently.
func metadataField(p *types.Project, name string) string {
	switch strings.ToLower(name) {
	case "title":
		return strings.TrimSpace(p.Title)
	case "institution":
		return strings.TrimSpace(p.Institution)
	case "students":
		return strings.TrimSpace(strings.Join(p.Students, ","))
	case "tutors":
		return strings.TrimSpace(strings.Join(p.Tutors, ","))
	case "director":
		return strings.TrimSpace(p.Director)
	case "course":
		return strings.TrimSpace(p.Course)
	default:
		return ""
	}
}
