// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/paper-forge/pkg/types"
)

// DefaultFile is the project file name inside a project directory.
const DefaultFile = "project.json"

// Save writes the project to path as indented JSON. The write is atomic:
// a temp file in the same directory is renamed over the target, so a
// failed write never truncates an existing project file.
func Save(p *types.Project, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project: %w", err)
	}
	return writeAtomic(path, data)
}

// Load reads a project file. A missing version field is tolerated; the
// caller may warn on mismatches via p.Version.
func Load(path string) (*types.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	var p types.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", filepath.Base(path), err)
	}
	if p.Images == nil {
		p.Images = map[types.ImageSlot]string{}
	}
	renumber(&p)
	return &p, nil
}

// writeAtomic writes data to path via a temp file plus rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
