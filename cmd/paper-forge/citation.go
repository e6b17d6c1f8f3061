// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-forge/internal/apa"
	"github.com/pdiddy/paper-forge/internal/library"
	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

var citationCmd = &cobra.Command{
	Use:   "citation",
	Short: "Manage the project's citations",
	Long: `Citation manages the references cited by the document. Body text cites
them with bracketed keys like [Smith2020] or [Smith2020:14]; generation
replaces markers with APA inline citations and builds the sorted
reference list.`,
}

// --- add subcommand ---

var citationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a citation",
	Long: `Add registers a citation. Authors use the APA "Surname, I." form and
repeat for co-authors. The key defaults to surname plus year. With
--from-library the entry is copied from the reference library instead.`,
	RunE: runCitationAdd,
}

func runCitationAdd(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}

	var c types.Citation
	if fromKey, _ := cmd.Flags().GetString("from-library"); fromKey != "" {
		entry, err := libraryLookup(fromKey)
		if err != nil {
			return err
		}
		c = *entry
	} else {
		c, err = citationFromFlags(cmd)
		if err != nil {
			return err
		}
	}

	if err := apa.Validate(c); err != nil {
		return err
	}
	if err := project.AddCitation(p, c); err != nil {
		return err
	}
	if err := saveAndSnapshot(cmd, p, path); err != nil {
		return err
	}
	fmt.Printf("Added citation [%s]: %s\n", c.Key, apa.FormatReference(c))
	return nil
}

// --- list subcommand ---

var citationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List citations with their APA reference form",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := loadProject(cmd)
		if err != nil {
			return err
		}
		for _, c := range p.Citations {
			fmt.Printf("[%s] %s\n", c.Key, apa.FormatReference(c))
		}
		return nil
	},
}

// --- edit subcommand ---

var citationEditCmd = &cobra.Command{
	Use:   "edit [key]",
	Short: "Update a citation",
	Args:  cobra.ExactArgs(1),
	RunE:  runCitationEdit,
}

func runCitationEdit(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}
	existing, err := project.CitationByKey(p, args[0])
	if err != nil {
		return err
	}

	c := *existing
	if cmd.Flags().Changed("type") {
		t, _ := cmd.Flags().GetString("type")
		c.Type = types.CitationType(t)
	}
	if cmd.Flags().Changed("author") {
		c.Authors, _ = cmd.Flags().GetStringArray("author")
	}
	if cmd.Flags().Changed("year") {
		c.Year, _ = cmd.Flags().GetInt("year")
	}
	if cmd.Flags().Changed("title") {
		c.Title, _ = cmd.Flags().GetString("title")
	}
	if cmd.Flags().Changed("source") {
		c.Source, _ = cmd.Flags().GetString("source")
	}
	if cmd.Flags().Changed("url") {
		c.URL, _ = cmd.Flags().GetString("url")
	}

	if err := apa.Validate(c); err != nil {
		return err
	}
	if err := project.UpdateCitation(p, c); err != nil {
		return err
	}
	if err := saveAndSnapshot(cmd, p, path); err != nil {
		return err
	}
	fmt.Printf("Updated [%s]: %s\n", c.Key, apa.FormatReference(c))
	return nil
}

// --- remove subcommand ---

var citationRemoveCmd = &cobra.Command{
	Use:   "remove [key]",
	Short: "Remove a citation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, path, err := loadProject(cmd)
		if err != nil {
			return err
		}
		if err := project.RemoveCitation(p, args[0]); err != nil {
			return err
		}
		if err := saveAndSnapshot(cmd, p, path); err != nil {
			return err
		}
		fmt.Printf("Removed citation [%s]\n", args[0])
		return nil
	},
}

// --- used subcommand ---

var citationUsedCmd = &cobra.Command{
	Use:   "used",
	Short: "List citation keys referenced in the body text",
	Long: `Used scans every section body for citation markers and reports each
key with whether it resolves to a known citation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := loadProject(cmd)
		if err != nil {
			return err
		}

		keys := apa.ExtractKeys(strings.Join(sectionBodies(p), "\n"))
		for _, key := range keys {
			if _, err := project.CitationByKey(p, key); err != nil {
				fmt.Printf("%-20s MISSING\n", key)
				continue
			}
			fmt.Printf("%-20s ok\n", key)
		}
		if len(keys) == 0 {
			fmt.Println("No citation markers found.")
		}
		return nil
	},
}

// --- shared helpers ---

func sectionBodies(p *types.Project) []string {
	bodies := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		bodies = append(bodies, s.Body)
	}
	return bodies
}

func citationFromFlags(cmd *cobra.Command) (types.Citation, error) {
	typ, _ := cmd.Flags().GetString("type")
	authors, _ := cmd.Flags().GetStringArray("author")
	year, _ := cmd.Flags().GetInt("year")
	title, _ := cmd.Flags().GetString("title")
	source, _ := cmd.Flags().GetString("source")
	url, _ := cmd.Flags().GetString("url")
	key, _ := cmd.Flags().GetString("key")

	c := types.Citation{
		Key:     key,
		Type:    types.CitationType(typ),
		Authors: authors,
		Year:    year,
		Title:   title,
		Source:  source,
		URL:     url,
	}
	if c.Key == "" {
		c.Key = apa.DeriveKey(c)
	}
	if c.Key == "" {
		return c, fmt.Errorf("citation key could not be derived: provide --key or --author and --year")
	}
	return c, nil
}

func libraryLookup(key string) (*types.Citation, error) {
	cfg := appConfig()
	store, err := library.Open(cfg.Storage.LibraryPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Get(context.Background(), key)
}

func init() {
	citationAddCmd.Flags().String("from-library", "", "copy the entry with this key from the reference library")
	for _, c := range []*cobra.Command{citationAddCmd, citationEditCmd} {
		c.Flags().String("type", string(types.CitationBook), "citation type: book, article, web, thesis, report")
		c.Flags().StringArray("author", nil, `author in "Surname, I." form (repeatable)`)
		c.Flags().Int("year", 0, "publication year")
		c.Flags().String("title", "", "work title")
		c.Flags().String("source", "", "publisher, journal, or institution")
		c.Flags().String("url", "", "URL for web sources")
	}
	citationAddCmd.Flags().String("key", "", "citation key (default: derived from author and year)")

	citationCmd.AddCommand(citationAddCmd)
	citationCmd.AddCommand(citationListCmd)
	citationCmd.AddCommand(citationEditCmd)
	citationCmd.AddCommand(citationRemoveCmd)
	citationCmd.AddCommand(citationUsedCmd)

	rootCmd.AddCommand(citationCmd)
}
