// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stats

import (
	"strings"
	"testing"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

func TestCompute(t *testing.T) {
	p := project.New("Progress")
	project.AddSection(p, types.Section{Heading: "Chapter I", Chapter: true})
	project.AddSection(p, types.Section{Heading: "Introduction", Body: "Five words of body text."})
	project.AddSection(p, types.Section{Heading: "Methods", Body: "short"})
	project.AddSection(p, types.Section{Heading: "Results"})
	project.AddCitation(p, types.Citation{Key: "Smith2020", Authors: []string{"Smith, J."}, Year: 2020, Title: "X"})

	s := Compute(p)

	if s.Sections != 3 {
		t.Errorf("Sections = %d, want 3 (chapter excluded)", s.Sections)
	}
	if s.CompletedSections != 1 {
		t.Errorf("CompletedSections = %d, want 1", s.CompletedSections)
	}
	if s.Words != 6 {
		t.Errorf("Words = %d, want 6", s.Words)
	}
	if s.Citations != 1 {
		t.Errorf("Citations = %d, want 1", s.Citations)
	}
	if s.Completion < 33 || s.Completion > 34 {
		t.Errorf("Completion = %f, want about 33.3", s.Completion)
	}
}

func TestComputeEmptyProject(t *testing.T) {
	s := Compute(project.New("Empty"))
	if s.Sections != 0 || s.Completion != 0 {
		t.Errorf("stats for empty project = %+v", s)
	}
}

func TestReport(t *testing.T) {
	p := project.New("Progress")
	project.AddSection(p, types.Section{Heading: "Introduction", Body: "A body long enough to count as written."})

	out := Compute(p).Report()
	for _, want := range []string{"Words:", "Sections:   1/1 written", "Progress:   100%"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
