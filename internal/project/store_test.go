// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/paper-forge/pkg/types"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)

	p := New("Round Trip")
	p.Institution = "Test University"
	p.Students = []string{"A. Student"}
	AddSection(p, types.Section{Heading: "Introduction", Body: "Some text."})
	if err := AddCitation(p, types.Citation{Key: "Smith2020", Type: types.CitationBook, Authors: []string{"Smith, J."}, Year: 2020, Title: "X"}); err != nil {
		t.Fatal(err)
	}

	if err := Save(p, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got.Title != p.Title || got.Institution != p.Institution {
		t.Errorf("metadata mismatch: got %q/%q", got.Title, got.Institution)
	}
	if len(got.Sections) != 1 || got.Sections[0].Heading != "Introduction" {
		t.Errorf("sections = %+v", got.Sections)
	}
	if len(got.Citations) != 1 || got.Citations[0].Key != "Smith2020" {
		t.Errorf("citations = %+v", got.Citations)
	}
	if got.Images == nil {
		t.Error("Images map not initialized on load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	if err := Save(New("X"), path); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != DefaultFile {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory contents = %v, want only %s", names, DefaultFile)
	}
}
