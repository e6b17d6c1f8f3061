// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-forge/internal/docgen"
	"github.com/pdiddy/paper-forge/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [output.docx]",
	Short: "Render the project to a Word document",
	Long: `Generate validates the project and renders it to a .docx file: title
page, chapter breaks, APA inline citations, and a sorted reference
list. Validation failures abort the run before anything is written, so
a failed generate never leaves a partial document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	p, _, err := loadProject(cmd)
	if err != nil {
		return err
	}

	outPath := defaultOutputName(p.Title)
	if len(args) > 0 {
		outPath = args[0]
	}

	cfg := appConfig()
	genCfg := cfg.Generate
	if cmd.Flags().Changed("no-title-page") {
		genCfg.TitlePage = false
	}
	if cmd.Flags().Changed("no-toc") {
		genCfg.TOCGuide = false
	}
	if cmd.Flags().Changed("header-mode") {
		mode, _ := cmd.Flags().GetString("header-mode")
		genCfg.HeaderMode = types.HeaderMode(mode)
	}

	applyDefaultImages(p, cfg.Storage.ImagesDir)

	gen := docgen.New(genCfg, cfg.Validation, log, os.Stdout)
	res, err := gen.Run(context.Background(), p, outPath)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		return err
	}
	return nil
}

// applyDefaultImages fills empty image slots from the images directory:
// header.png for the page header, badge.png for the title page.
func applyDefaultImages(p *types.Project, imagesDir string) {
	defaults := map[types.ImageSlot]string{
		types.ImageHeader: filepath.Join(imagesDir, "header.png"),
		types.ImageBadge:  filepath.Join(imagesDir, "badge.png"),
	}
	for slot, path := range defaults {
		if p.Images[slot] != "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			p.Images[slot] = path
		}
	}
}

// defaultOutputName derives the output filename from the project title.
func defaultOutputName(title string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, name)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "document"
	}
	return name + ".docx"
}

func init() {
	generateCmd.Flags().Bool("no-title-page", false, "skip the title page")
	generateCmd.Flags().Bool("no-toc", false, "skip the table-of-contents page")
	generateCmd.Flags().String("header-mode", "", "header image placement: banner or watermark")

	rootCmd.AddCommand(generateCmd)
}
