// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProjectVersion is written into every project file and autosave snapshot.
// Loading a file with a different major version produces a warning, not an error.
const ProjectVersion = "2.0"

// ImageSlot identifies where an attached image appears in the generated document.
type ImageSlot string

const (
	// ImageHeader is the banner or watermark image in the page header.
	ImageHeader ImageSlot = "header"

	// ImageBadge is the institutional badge or seal on the title page.
	ImageBadge ImageSlot = "badge"
)

// CitationType classifies a bibliographic entry for APA rendering.
type CitationType string

const (
	CitationBook    CitationType = "book"
	CitationArticle CitationType = "article"
	CitationWeb     CitationType = "web"
	CitationThesis  CitationType = "thesis"
	CitationReport  CitationType = "report"
)

// Citation is one bibliographic entry in a project.
type Citation struct {
	// Key is the inline citation label (e.g. "Smith2020"), unique per project.
	Key string `json:"key" yaml:"key"`

	// Type classifies the source: book, article, web, thesis, report.
	Type CitationType `json:"type" yaml:"type"`

	// Authors lists authors in source order, APA form ("Smith, J.").
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year.
	Year int `json:"year" yaml:"year"`

	// Title is the work's title.
	Title string `json:"title" yaml:"title"`

	// Source is the publisher, journal, site, or institution.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// URL is the retrieval URL for web sources.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// AddedAt records when the citation entered the project.
	AddedAt time.Time `json:"added_at,omitempty" yaml:"added_at,omitempty"`
}

// Section is one titled block of document content.
type Section struct {
	// ID is a generated identifier, stable across reorders.
	ID string `json:"id" yaml:"id"`

	// Position is the zero-based order within the project. Positions are
	// contiguous and unique; the model renumbers after every mutation.
	Position int `json:"position" yaml:"position"`

	// Heading is the section title as it appears in the document.
	Heading string `json:"heading" yaml:"heading"`

	// Body is the section content. Single newlines are promoted to
	// paragraph breaks at generation time.
	Body string `json:"body" yaml:"body"`

	// Chapter marks a chapter divider: heading only, rendered on a new page.
	Chapter bool `json:"chapter,omitempty" yaml:"chapter,omitempty"`

	// Required sections refuse removal and must carry content to pass
	// validation.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// FrontMatter suppresses first-line indent (abstract, acknowledgements).
	FrontMatter bool `json:"front_matter,omitempty" yaml:"front_matter,omitempty"`
}

// Project is the complete in-memory document model: metadata, ordered
// sections, citations, formatting preferences, and attached images.
type Project struct {
	Version string `json:"version" yaml:"version"`

	// Title is the document title, shown on the title page.
	Title string `json:"title" yaml:"title"`

	// Institution appears on the title page and as the header fallback.
	Institution string `json:"institution,omitempty" yaml:"institution,omitempty"`

	// Students lists the submitting students.
	Students []string `json:"students,omitempty" yaml:"students,omitempty"`

	// Tutors lists the supervising tutors.
	Tutors []string `json:"tutors,omitempty" yaml:"tutors,omitempty"`

	// Director is the institutional director named on the title page.
	Director string `json:"director,omitempty" yaml:"director,omitempty"`

	// Course is the course or cycle label.
	Course string `json:"course,omitempty" yaml:"course,omitempty"`

	// Sections holds the document content in order. Positions are
	// contiguous and unique.
	Sections []Section `json:"sections" yaml:"sections"`

	// Citations holds the project bibliography, keyed uniquely.
	Citations []Citation `json:"citations" yaml:"citations"`

	// Prefs holds the formatting preferences applied at generation.
	Prefs Preferences `json:"format" yaml:"format"`

	// Images maps slots (header, badge) to image file paths.
	Images map[ImageSlot]string `json:"images,omitempty" yaml:"images,omitempty"`

	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
}

// AutosaveSnapshot is a timestamped serialized project used for recovery.
type AutosaveSnapshot struct {
	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`

	// Version is the snapshot format version.
	Version string `json:"version" yaml:"version"`

	// Project is the full project state at SavedAt.
	Project Project `json:"project" yaml:"project"`
}
