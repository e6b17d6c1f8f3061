// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-forge/internal/apa"
	"github.com/pdiddy/paper-forge/internal/library"
	"github.com/pdiddy/paper-forge/internal/project"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the cross-project reference library",
	Long: `Library manages a SQLite reference library shared across projects.
Entries can be searched full-text, copied into the current project with
"citation add --from-library", and exchanged as BibTeX or CSL-YAML.`,
}

// openLibrary opens the library at the configured path.
func openLibrary() (*library.Store, error) {
	cfg := appConfig()
	return library.Open(cfg.Storage.LibraryPath)
}

// --- add subcommand ---

var libraryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a reference to the library",
	Long: `Add stores a reference in the library. With --from-project the entry
is copied from the current project's citations instead of flags.`,
	RunE: runLibraryAdd,
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := citationFromFlags(cmd)
	if fromKey, _ := cmd.Flags().GetString("from-project"); fromKey != "" {
		p, _, perr := loadProject(cmd)
		if perr != nil {
			return perr
		}
		entry, perr := project.CitationByKey(p, fromKey)
		if perr != nil {
			return perr
		}
		c = *entry
	} else if err != nil {
		return err
	}

	if err := apa.Validate(c); err != nil {
		return err
	}
	if err := store.Add(context.Background(), c); err != nil {
		return err
	}
	fmt.Printf("Stored [%s] in the library.\n", c.Key)
	return nil
}

// --- remove subcommand ---

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [key]",
	Short: "Remove a library entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Remove(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed [%s] from the library.\n", args[0])
		return nil
	},
}

// --- list subcommand ---

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every library entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(context.Background())
		if err != nil {
			return err
		}
		for _, c := range entries {
			fmt.Printf("[%s] %s\n", c.Key, apa.FormatReference(c))
		}
		fmt.Printf("\n%d entries\n", len(entries))
		return nil
	},
}

// --- search subcommand ---

var librarySearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Full-text search over authors, titles, and sources",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		results, err := store.Search(context.Background(), args[0], limit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		for _, c := range results {
			fmt.Printf("[%s] %s\n", c.Key, apa.FormatReference(c))
		}
		return nil
	},
}

// --- import subcommand ---

var libraryImportCmd = &cobra.Command{
	Use:   "import [file.bib]",
	Short: "Import BibTeX entries into the library",
	Long: `Import reads a BibTeX file and stores its entries. Entries whose keys
already exist in the library are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening BibTeX file: %w", err)
		}
		defer f.Close()

		n, err := store.ImportBibTeX(context.Background(), f)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d entries.\n", n)
		return nil
	},
}

// --- export subcommand ---

var libraryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the library as BibTeX or CSL-YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}
		defer store.Close()

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "bibtex", "":
			return store.ExportBibTeX(context.Background(), os.Stdout)
		case "csl":
			return store.ExportCSL(context.Background(), os.Stdout)
		default:
			return fmt.Errorf("unsupported format %q: use bibtex or csl", format)
		}
	},
}

func init() {
	libraryAddCmd.Flags().String("from-project", "", "copy this citation key from the current project")
	libraryAddCmd.Flags().String("type", "book", "citation type: book, article, web, thesis, report")
	libraryAddCmd.Flags().StringArray("author", nil, `author in "Surname, I." form (repeatable)`)
	libraryAddCmd.Flags().Int("year", 0, "publication year")
	libraryAddCmd.Flags().String("title", "", "work title")
	libraryAddCmd.Flags().String("source", "", "publisher, journal, or institution")
	libraryAddCmd.Flags().String("url", "", "URL for web sources")
	libraryAddCmd.Flags().String("key", "", "citation key (default: derived from author and year)")

	librarySearchCmd.Flags().Int("limit", 20, "maximum results")
	libraryExportCmd.Flags().String("format", "bibtex", "export format: bibtex or csl")

	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryImportCmd)
	libraryCmd.AddCommand(libraryExportCmd)

	rootCmd.AddCommand(libraryCmd)
}
