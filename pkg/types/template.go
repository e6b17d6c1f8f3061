// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Template is a named, reusable preset of sections and formatting
// preferences. Templates are independent of any project: applying one
// copies its contents, never references them.
type Template struct {
	// Name identifies the template; also its filename stem.
	Name string `json:"name" yaml:"name"`

	// Description is a short human-readable summary.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Version is the template format version.
	Version string `json:"version" yaml:"version"`

	// CreatedAt is when the template was saved.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Sections is the section structure the template installs. Section IDs
	// are regenerated on application.
	Sections []Section `json:"sections" yaml:"sections"`

	// Prefs is the formatting configuration the template installs.
	Prefs Preferences `json:"format" yaml:"format"`

	// Metadata holds optional prefilled project fields (institution,
	// course, director).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}
