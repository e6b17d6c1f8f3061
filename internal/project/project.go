// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package project implements the in-memory document model: an ordered
// section sequence, a keyed citation set, formatting preferences, and
// attached images, with JSON persistence for project files.
package project

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/paper-forge/pkg/types"
)

// ErrDuplicateKey is returned when adding a citation whose key already
// exists in the project.
var ErrDuplicateKey = errors.New("duplicate citation key")

// ErrNotFound is returned when a section or citation lookup fails.
var ErrNotFound = errors.New("not found")

// Direction selects where MoveSection moves a section.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// New creates an empty project with APA-default preferences.
func New(title string) *types.Project {
	now := time.Now().UTC()
	return &types.Project{
		Version:    types.ProjectVersion,
		Title:      title,
		Sections:   []types.Section{},
		Citations:  []types.Citation{},
		Prefs:      types.DefaultPreferences(),
		Images:     map[types.ImageSlot]string{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Touch updates the modification timestamp. Every mutating operation in
// this package calls it.
func Touch(p *types.Project) {
	p.ModifiedAt = time.Now().UTC()
}

// renumber restores the position invariant: contiguous, unique, in slice
// order.
func renumber(p *types.Project) {
	for i := range p.Sections {
		p.Sections[i].Position = i
	}
}

// AddSection appends a section and returns its generated ID.
func AddSection(p *types.Project, s types.Section) string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	p.Sections = append(p.Sections, s)
	renumber(p)
	Touch(p)
	return s.ID
}

// InsertSection places a section at the given position, shifting later
// sections down. Positions outside the current range clamp to the ends.
func InsertSection(p *types.Project, s types.Section, pos int) string {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(p.Sections) {
		pos = len(p.Sections)
	}
	p.Sections = append(p.Sections, types.Section{})
	copy(p.Sections[pos+1:], p.Sections[pos:])
	p.Sections[pos] = s
	renumber(p)
	Touch(p)
	return s.ID
}

// Section returns the section with the given ID.
func Section(p *types.Project, id string) (*types.Section, error) {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return &p.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %q: %w", id, ErrNotFound)
}

// SectionByHeading returns the first section with the given heading.
func SectionByHeading(p *types.Project, heading string) (*types.Section, error) {
	for i := range p.Sections {
		if p.Sections[i].Heading == heading {
			return &p.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %q: %w", heading, ErrNotFound)
}

// RemoveSection deletes a section by ID. Required sections refuse removal.
func RemoveSection(p *types.Project, id string) (types.Section, error) {
	for i := range p.Sections {
		if p.Sections[i].ID != id {
			continue
		}
		if p.Sections[i].Required {
			return types.Section{}, fmt.Errorf("section %q is required and cannot be removed", p.Sections[i].Heading)
		}
		removed := p.Sections[i]
		p.Sections = append(p.Sections[:i], p.Sections[i+1:]...)
		renumber(p)
		Touch(p)
		return removed, nil
	}
	return types.Section{}, fmt.Errorf("section %q: %w", id, ErrNotFound)
}

// MoveSection swaps a section with its neighbor in the given direction and
// returns its new position.
func MoveSection(p *types.Project, id string, dir Direction) (int, error) {
	idx := -1
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, fmt.Errorf("section %q: %w", id, ErrNotFound)
	}

	switch dir {
	case Up:
		if idx == 0 {
			return 0, fmt.Errorf("section %q is already first", p.Sections[idx].Heading)
		}
		p.Sections[idx-1], p.Sections[idx] = p.Sections[idx], p.Sections[idx-1]
		idx--
	case Down:
		if idx == len(p.Sections)-1 {
			return 0, fmt.Errorf("section %q is already last", p.Sections[idx].Heading)
		}
		p.Sections[idx], p.Sections[idx+1] = p.Sections[idx+1], p.Sections[idx]
		idx++
	default:
		return 0, fmt.Errorf("unknown direction %q", dir)
	}
	renumber(p)
	Touch(p)
	return idx, nil
}

// Reorder rearranges sections to match the given ID sequence. The sequence
// must be a permutation of the current section IDs; otherwise Reorder
// fails without mutating the project.
func Reorder(p *types.Project, ids []string) error {
	if len(ids) != len(p.Sections) {
		return fmt.Errorf("reorder needs all %d section ids, got %d", len(p.Sections), len(ids))
	}
	byID := make(map[string]types.Section, len(p.Sections))
	for _, s := range p.Sections {
		byID[s.ID] = s
	}
	ordered := make([]types.Section, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("duplicate section id %q in reorder", id)
		}
		seen[id] = true
		s, ok := byID[id]
		if !ok {
			return fmt.Errorf("section %q: %w", id, ErrNotFound)
		}
		ordered = append(ordered, s)
	}
	p.Sections = ordered
	renumber(p)
	Touch(p)
	return nil
}

// AddCitation adds a citation. The key must be unique within the project.
func AddCitation(p *types.Project, c types.Citation) error {
	if c.Key == "" {
		return fmt.Errorf("citation key is required")
	}
	for _, existing := range p.Citations {
		if existing.Key == c.Key {
			return fmt.Errorf("citation %q: %w", c.Key, ErrDuplicateKey)
		}
	}
	if c.AddedAt.IsZero() {
		c.AddedAt = time.Now().UTC()
	}
	p.Citations = append(p.Citations, c)
	Touch(p)
	return nil
}

// RemoveCitation deletes a citation by key.
func RemoveCitation(p *types.Project, key string) error {
	for i := range p.Citations {
		if p.Citations[i].Key == key {
			p.Citations = append(p.Citations[:i], p.Citations[i+1:]...)
			Touch(p)
			return nil
		}
	}
	return fmt.Errorf("citation %q: %w", key, ErrNotFound)
}

// UpdateCitation replaces the citation with the same key.
func UpdateCitation(p *types.Project, c types.Citation) error {
	for i := range p.Citations {
		if p.Citations[i].Key == c.Key {
			c.AddedAt = p.Citations[i].AddedAt
			p.Citations[i] = c
			Touch(p)
			return nil
		}
	}
	return fmt.Errorf("citation %q: %w", c.Key, ErrNotFound)
}

// CitationByKey returns the citation with the given key.
func CitationByKey(p *types.Project, key string) (*types.Citation, error) {
	for i := range p.Citations {
		if p.Citations[i].Key == key {
			return &p.Citations[i], nil
		}
	}
	return nil, fmt.Errorf("citation %q: %w", key, ErrNotFound)
}

// SetPreferences replaces the formatting preferences.
func SetPreferences(p *types.Project, prefs types.Preferences) {
	p.Prefs = prefs
	Touch(p)
}

// AttachImage records an image path for a slot (header or badge).
func AttachImage(p *types.Project, slot types.ImageSlot, path string) error {
	switch slot {
	case types.ImageHeader, types.ImageBadge:
	default:
		return fmt.Errorf("unknown image slot %q", slot)
	}
	if p.Images == nil {
		p.Images = map[types.ImageSlot]string{}
	}
	p.Images[slot] = path
	Touch(p)
	return nil
}

// DetachImage clears an image slot.
func DetachImage(p *types.Project, slot types.ImageSlot) error {
	switch slot {
	case types.ImageHeader, types.ImageBadge:
	default:
		return fmt.Errorf("unknown image slot %q", slot)
	}
	delete(p.Images, slot)
	Touch(p)
	return nil
}

// Clone returns a deep copy of the project. The copy shares no memory
// with the original: autosave serializes clones so a concurrent mutation
// can never produce a torn snapshot.
func Clone(p *types.Project) *types.Project {
	c := *p
	c.Students = append([]string(nil), p.Students...)
	c.Tutors = append([]string(nil), p.Tutors...)
	c.Sections = make([]types.Section, len(p.Sections))
	copy(c.Sections, p.Sections)
	c.Citations = make([]types.Citation, len(p.Citations))
	for i, cit := range p.Citations {
		cit.Authors = append([]string(nil), cit.Authors...)
		c.Citations[i] = cit
	}
	c.Images = make(map[types.ImageSlot]string, len(p.Images))
	for k, v := range p.Images {
		c.Images[k] = v
	}
	return &c
}
