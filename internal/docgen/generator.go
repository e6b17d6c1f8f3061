// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docgen renders a project to a Word document. Generation is
// staged: the project is validated first, rendered to a temporary file,
// and only moved to the requested path once the write succeeds, so a
// failed run never leaves a partial document behind.
package docgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-forge/internal/validate"
	"github.com/pdiddy/paper-forge/pkg/types"
)

// Stage identifies where a generation run is in its lifecycle.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageValidating Stage = "validating"
	StageRendering  Stage = "rendering"
	StageWritten    Stage = "written"
	StageFailed     Stage = "failed"
)

// Result reports the outcome of a generation run.
type Result struct {
	Stage    Stage    `json:"stage"`
	Path     string   `json:"path,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Generator renders projects to .docx files.
type Generator struct {
	genCfg   types.GenerateConfig
	valCfg   types.ValidationConfig
	log      zerolog.Logger
	progress io.Writer
}

// New creates a Generator. Progress messages are written to progress;
// pass io.Discard to silence them.
func New(genCfg types.GenerateConfig, valCfg types.ValidationConfig, log zerolog.Logger, progress io.Writer) *Generator {
	if progress == nil {
		progress = io.Discard
	}
	return &Generator{genCfg: genCfg, valCfg: valCfg, log: log, progress: progress}
}

// Run validates p and writes the rendered document to outPath. On any
// failure the returned Result carries StageFailed and no file exists at
// outPath unless a previous run put one there.
func (g *Generator) Run(ctx context.Context, p *types.Project, outPath string) (*Result, error) {
	res := &Result{Stage: StageIdle}

	res.Stage = StageValidating
	fmt.Fprintf(g.progress, "Validating %q...\n", p.Title)
	warnings, err := validate.Check(p, g.valCfg)
	res.Warnings = warnings
	if err != nil {
		res.Stage = StageFailed
		return res, fmt.Errorf("validating project: %w", err)
	}
	for _, w := range warnings {
		g.log.Warn().Str("project", p.Title).Msg(w)
	}

	if err := ctx.Err(); err != nil {
		res.Stage = StageFailed
		return res, err
	}

	res.Stage = StageRendering
	fmt.Fprintf(g.progress, "Rendering %d sections, %d citations...\n", len(p.Sections), len(p.Citations))
	doc, err := render(p, g.genCfg)
	if err != nil {
		res.Stage = StageFailed
		return res, fmt.Errorf("rendering document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		res.Stage = StageFailed
		return res, fmt.Errorf("creating output directory: %w", err)
	}
	tmp := outPath + ".tmp"
	if err := doc.SaveToFile(tmp); err != nil {
		os.Remove(tmp)
		res.Stage = StageFailed
		return res, fmt.Errorf("writing document: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		os.Remove(tmp)
		res.Stage = StageFailed
		return res, fmt.Errorf("moving document into place: %w", err)
	}

	res.Stage = StageWritten
	res.Path = outPath
	fmt.Fprintf(g.progress, "Wrote %s\n", outPath)
	return res, nil
}
