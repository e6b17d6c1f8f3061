// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

func baseConfig() types.ValidationConfig {
	return types.ValidationConfig{
		RequiredFields:   []string{"title", "students"},
		MinSectionLength: 20,
	}
}

func validProject() *types.Project {
	p := project.New("A Finished Paper")
	p.Students = []string{"A. Student"}
	project.AddSection(p, types.Section{
		Heading:  "Introduction",
		Required: true,
		Body:     "A body long enough to pass the minimum length check. See [Smith2020].",
	})
	project.AddCitation(p, types.Citation{
		Key: "Smith2020", Type: types.CitationBook,
		Authors: []string{"Smith, J."}, Year: 2020, Title: "Methods",
	})
	return p
}

// issuesOf unwraps the validation error into its issue list.
func issuesOf(t *testing.T, err error) []string {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return verr.Issues
}

func hasIssue(issues []string, substr string) bool {
	for _, i := range issues {
		if strings.Contains(i, substr) {
			return true
		}
	}
	return false
}

func TestCheckValidProject(t *testing.T) {
	warnings, err := Check(validProject(), baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
}

func TestCheckMissingRequiredField(t *testing.T) {
	p := validProject()
	p.Students = nil
	_, err := Check(p, baseConfig())
	if !hasIssue(issuesOf(t, err), `required field "students"`) {
		t.Errorf("issues = %v, want students issue", issuesOf(t, err))
	}
}

func TestCheckUnknownCitationKey(t *testing.T) {
	p := validProject()
	project.AddSection(p, types.Section{
		Heading: "Discussion",
		Body:    "Contradicted by [Ghost1999] in later work, though the claim stands.",
	})
	_, err := Check(p, baseConfig())
	if !hasIssue(issuesOf(t, err), `unknown citation key "Ghost1999"`) {
		t.Errorf("issues = %v, want unknown key issue", issuesOf(t, err))
	}
}

func TestCheckShortRequiredSection(t *testing.T) {
	p := validProject()
	sec, _ := project.SectionByHeading(p, "Introduction")
	sec.Body = "Too short."
	_, err := Check(p, baseConfig())
	if !hasIssue(issuesOf(t, err), "shorter than") {
		t.Errorf("issues = %v, want short-section issue", issuesOf(t, err))
	}
}

func TestCheckChapterSkipsLengthCheck(t *testing.T) {
	p := validProject()
	project.AddSection(p, types.Section{Heading: "Chapter I", Chapter: true, Required: true})
	if _, err := Check(p, baseConfig()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckMinReferences(t *testing.T) {
	cfg := baseConfig()
	cfg.MinReferences = 3
	_, err := Check(validProject(), cfg)
	if !hasIssue(issuesOf(t, err), "minimum is 3") {
		t.Errorf("issues = %v, want minimum references issue", issuesOf(t, err))
	}
}

func TestCheckNoCitationsWarns(t *testing.T) {
	p := project.New("Paper")
	p.Students = []string{"A. Student"}
	warnings, err := Check(p, baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasIssue(warnings, "no citations") {
		t.Errorf("warnings = %v, want no-citations warning", warnings)
	}
}

func TestCheckSectionWithoutMarkersWarns(t *testing.T) {
	p := validProject()
	project.AddSection(p, types.Section{
		Heading: "Background",
		Body:    "A body with plenty of prose but not a single source cited anywhere.",
	})
	warnings, err := Check(p, baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasIssue(warnings, `section "Background" has no citation markers`) {
		t.Errorf("warnings = %v, want no-markers warning", warnings)
	}
}

func TestCheckEmptyImageSlotWarns(t *testing.T) {
	p := validProject()
	p.Images[types.ImageBadge] = ""
	warnings, err := Check(p, baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasIssue(warnings, "badge image slot is attached but has no path") {
		t.Errorf("warnings = %v, want empty-slot warning", warnings)
	}
}

func TestCheckUnreadableImage(t *testing.T) {
	p := validProject()
	project.AttachImage(p, types.ImageHeader, "/nonexistent/header.png")
	_, err := Check(p, baseConfig())
	if !hasIssue(issuesOf(t, err), "not readable") {
		t.Errorf("issues = %v, want unreadable image issue", issuesOf(t, err))
	}
}

func TestCheckCollectsAllIssues(t *testing.T) {
	p := project.New("")
	project.AddSection(p, types.Section{Heading: "Intro", Required: true, Body: "short [Nope2020]"})
	_, err := Check(p, baseConfig())
	issues := issuesOf(t, err)
	if len(issues) < 3 {
		t.Errorf("issues = %v, want at least title, students, section, and key issues", issues)
	}
}
