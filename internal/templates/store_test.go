// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package templates

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

// writeFile is a test helper that creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func sampleProject() *types.Project {
	p := project.New("Source Paper")
	p.Institution = "Test University"
	p.Course = "Research Writing"
	project.AddSection(p, types.Section{Heading: "Abstract", FrontMatter: true})
	project.AddSection(p, types.Section{Heading: "Introduction", Required: true, Body: "Intro text."})
	p.Prefs.BodyFont = "Georgia"
	return p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	p := sampleProject()

	saved := FromProject("thesis", "University thesis layout", p)
	if err := s.Save(saved, false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("thesis")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "thesis" || got.Description != "University thesis layout" {
		t.Errorf("got %q/%q", got.Name, got.Description)
	}
	if !reflect.DeepEqual(got.Sections, saved.Sections) {
		t.Errorf("Sections = %+v, want %+v", got.Sections, saved.Sections)
	}
	if !reflect.DeepEqual(got.Prefs, saved.Prefs) {
		t.Errorf("Prefs = %+v, want %+v", got.Prefs, saved.Prefs)
	}
	if got.Metadata["institution"] != "Test University" {
		t.Errorf("Metadata = %v", got.Metadata)
	}
}

func TestSaveDuplicateName(t *testing.T) {
	s := newStore(t)
	tmpl := FromProject("thesis", "", sampleProject())
	if err := s.Save(tmpl, false); err != nil {
		t.Fatal(err)
	}

	err := s.Save(tmpl, false)
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}

	if err := s.Save(tmpl, true); err != nil {
		t.Errorf("overwrite failed: %v", err)
	}
}

func TestSaveRejectsBadNames(t *testing.T) {
	s := newStore(t)
	for _, name := range []string{"", "Has Spaces", "UPPER", "../escape", "dot.name"} {
		tmpl := FromProject(name, "", sampleProject())
		if err := s.Save(tmpl, false); err == nil {
			t.Errorf("Save(%q) succeeded, want error", name)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Load("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListSkipsUnparsable(t *testing.T) {
	s := newStore(t)
	if err := s.Save(FromProject("good", "", sampleProject()), false); err != nil {
		t.Fatal(err)
	}
	writeFile(t, s.dir, "broken.yaml", ":::bad\n")

	ts, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ts) != 1 || ts[0].Name != "good" {
		t.Errorf("List() = %+v, want only good", ts)
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	if err := s.Save(FromProject("gone", "", sampleProject()), false); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestApply(t *testing.T) {
	src := sampleProject()
	tmpl := FromProject("thesis", "", src)

	p := project.New("Fresh Paper")
	p.Institution = "Kept Institution"
	Apply(&tmpl, p)

	if len(p.Sections) != len(tmpl.Sections) {
		t.Fatalf("len(Sections) = %d, want %d", len(p.Sections), len(tmpl.Sections))
	}
	for i, sec := range p.Sections {
		if sec.Position != i {
			t.Errorf("section %d position = %d", i, sec.Position)
		}
		if sec.ID == tmpl.Sections[i].ID {
			t.Errorf("section %d kept the template ID", i)
		}
		if sec.Heading != tmpl.Sections[i].Heading {
			t.Errorf("section %d heading = %q, want %q", i, sec.Heading, tmpl.Sections[i].Heading)
		}
	}
	if p.Prefs.BodyFont != "Georgia" {
		t.Errorf("Prefs not applied: %+v", p.Prefs)
	}

	// Metadata only fills empty fields.
	if p.Institution != "Kept Institution" {
		t.Errorf("Institution = %q, want Kept Institution", p.Institution)
	}
	if p.Course != "Research Writing" {
		t.Errorf("Course = %q, want filled from template", p.Course)
	}
}

func TestApplyTwiceDistinctIDs(t *testing.T) {
	tmpl := Builtin()
	a := project.New("A")
	b := project.New("B")
	Apply(&tmpl, a)
	Apply(&tmpl, b)

	ids := map[string]bool{}
	for _, s := range a.Sections {
		ids[s.ID] = true
	}
	for _, s := range b.Sections {
		if ids[s.ID] {
			t.Fatalf("section ID %s reused across applications", s.ID)
		}
	}
}

func TestBuiltin(t *testing.T) {
	tmpl := Builtin()
	if tmpl.Name != "generic" {
		t.Errorf("Name = %q", tmpl.Name)
	}
	if len(tmpl.Sections) == 0 {
		t.Fatal("builtin template has no sections")
	}

	chapters := 0
	required := 0
	for _, s := range tmpl.Sections {
		if s.Chapter {
			chapters++
		}
		if s.Required {
			required++
		}
	}
	if chapters != 6 {
		t.Errorf("chapters = %d, want 6", chapters)
	}
	if required == 0 {
		t.Error("builtin template has no required sections")
	}
}
