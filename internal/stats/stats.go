// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats computes progress figures for a project.
package stats

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-forge/pkg/types"
)

// minBodyLength is the body length below which a section counts as
// not started.
const minBodyLength = 10

// Stats summarizes writing progress across a project.
type Stats struct {
	Words             int     `json:"words"`
	Characters        int     `json:"characters"`
	Sections          int     `json:"sections"`
	CompletedSections int     `json:"completed_sections"`
	Citations         int     `json:"citations"`
	Completion        float64 `json:"completion"`
}

// Compute derives progress figures from p. Chapter dividers carry no
// body and are excluded from the section counts.
func Compute(p *types.Project) Stats {
	var s Stats
	for _, sec := range p.Sections {
		if sec.Chapter {
			continue
		}
		s.Sections++
		body := strings.TrimSpace(sec.Body)
		s.Characters += len([]rune(body))
		s.Words += len(strings.Fields(body))
		if len([]rune(body)) > minBodyLength {
			s.CompletedSections++
		}
	}
	s.Citations = len(p.Citations)
	if s.Sections > 0 {
		s.Completion = float64(s.CompletedSections) / float64(s.Sections) * 100
	}
	return s
}

// Report renders the stats as a short human-readable block.
func (s Stats) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Words:      %d\n", s.Words)
	fmt.Fprintf(&b, "Characters: %d\n", s.Characters)
	fmt.Fprintf(&b, "Sections:   %d/%d written\n", s.CompletedSections, s.Sections)
	fmt.Fprintf(&b, "Citations:  %d\n", s.Citations)
	fmt.Fprintf(&b, "Progress:   %.0f%%\n", s.Completion)
	return b.String()
}
