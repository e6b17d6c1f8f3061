// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package templates persists named, reusable presets of sections and
// formatting preferences as YAML files in a storage directory.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

// ErrDuplicateName is returned when saving a template whose name already
// exists and overwrite was not requested.
var ErrDuplicateName = errors.New("template name already exists")

// ErrNotFound is returned when a named template does not exist.
var ErrNotFound = errors.New("template not found")

// namePattern restricts template names to filesystem-safe slugs.
var namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Store reads and writes template files under a single directory.
type Store struct {
	dir string
	log zerolog.Logger
}

// NewStore creates the template directory if needed and returns a store
// over it.
func NewStore(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating templates directory: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// FromProject captures a project's section structure and preferences as
// a template. Everything is deep-copied: later project mutations do not
// leak into the template.
func FromProject(name, description string, p *types.Project) types.Template {
	sections := make([]types.Section, len(p.Sections))
	copy(sections, p.Sections)
	meta := map[string]string{}
	if p.Institution != "" {
		meta["institution"] = p.Institution
	}
	if p.Course != "" {
		meta["course"] = p.Course
	}
	if p.Director != "" {
		meta["director"] = p.Director
	}
	return types.Template{
		Name:        name,
		Description: description,
		Version:     types.ProjectVersion,
		CreatedAt:   time.Now().UTC(),
		Sections:    sections,
		Prefs:       p.Prefs,
		Metadata:    meta,
	}
}

// Save writes a template to name.yaml. It fails with ErrDuplicateName
// when the name is taken, unless overwrite is set.
func (s *Store) Save(t types.Template, overwrite bool) error {
	if !namePattern.MatchString(t.Name) {
		return fmt.Errorf("template name %q: must match %s", t.Name, namePattern)
	}
	if !overwrite {
		if _, err := os.Stat(s.path(t.Name)); err == nil {
			return fmt.Errorf("template %q: %w", t.Name, ErrDuplicateName)
		}
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling template: %w", err)
	}
	if err := os.WriteFile(s.path(t.Name), data, 0o644); err != nil {
		return fmt.Errorf("writing template %s: %w", t.Name, err)
	}
	return nil
}

// Load reads a named template.
func (s *Store) Load(name string) (*types.Template, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("template %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	var t types.Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	return &t, nil
}

// List returns the available templates sorted by name. Unparsable files
// are skipped with a log warning rather than failing the listing.
func (s *Store) List() ([]types.Template, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading templates directory: %w", err)
	}
	var ts []types.Template
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		t, err := s.Load(name)
		if err != nil {
			s.log.Warn().Err(err).Str("file", e.Name()).Msg("skipping unreadable template")
			continue
		}
		ts = append(ts, *t)
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Name < ts[j].Name })
	return ts, nil
}

// Delete removes a named template.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("template %q: %w", name, ErrNotFound)
		}
		return fmt.Errorf("deleting template %s: %w", name, err)
	}
	return nil
}

// Apply copies a template's sections, preferences, and metadata into the
// project. Sections get fresh IDs, so the project never aliases the
// template and two applications never collide.
func Apply(t *types.Template, p *types.Project) {
	sections := make([]types.Section, len(t.Sections))
	copy(sections, t.Sections)
	for i := range sections {
		sections[i].ID = uuid.NewString()
	}
	p.Sections = sections
	p.Prefs = t.Prefs
	if v := t.Metadata["institution"]; v != "" && p.Institution == "" {
		p.Institution = v
	}
	if v := t.Metadata["course"]; v != "" && p.Course == "" {
		p.Course = v
	}
	if v := t.Metadata["director"]; v != "" && p.Director == "" {
		p.Director = v
	}
	project.Touch(p)
	// Restore the position invariant after the wholesale replacement.
	for i := range p.Sections {
		p.Sections[i].Position = i
	}
}

// Builtin returns the built-in generic academic structure: six chapters
// from introduction through discussion, with the standard required
// sections, under APA-default formatting.
func Builtin() types.Template {
	mk := func(heading string, chapter, required, front bool) types.Section {
		return types.Section{Heading: heading, Chapter: chapter, Required: required, FrontMatter: front}
	}
	return types.Template{
		Name:        "generic",
		Description: "Generic academic project structure",
		Version:     types.ProjectVersion,
		CreatedAt:   time.Now().UTC(),
		Sections: []types.Section{
			mk("Abstract", false, false, true),
			mk("Chapter I", true, false, false),
			mk("Introduction", false, true, false),
			mk("Problem Statement", false, true, false),
			mk("Research Questions", false, true, false),
			mk("Justification", false, true, false),
			mk("Objectives", false, true, false),
			mk("Chapter II - State of the Art", true, false, false),
			mk("Theoretical Framework", false, true, false),
			mk("Chapter III", true, false, false),
			mk("Methodology", false, true, false),
			mk("Chapter IV - Development", true, false, false),
			mk("Development", false, false, false),
			mk("Chapter V - Data Analysis", true, false, false),
			mk("Results", false, false, false),
			mk("Chapter VI", true, false, false),
			mk("Discussion", false, false, false),
			mk("Conclusions", false, true, false),
		},
		Prefs: types.DefaultPreferences(),
	}
}
