// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Manage the ordered sections of the document",
	Long: `Section manages the document body. Sections keep a contiguous order;
chapter dividers start a new page when the document is generated.
Sections are addressed by ID or, where unambiguous, by heading.`,
}

// --- add subcommand ---

var sectionAddCmd = &cobra.Command{
	Use:   "add [heading]",
	Short: "Add a section",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSectionAdd,
}

func runSectionAdd(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}

	body, err := bodyFromFlags(cmd)
	if err != nil {
		return err
	}
	chapter, _ := cmd.Flags().GetBool("chapter")
	required, _ := cmd.Flags().GetBool("required")
	frontMatter, _ := cmd.Flags().GetBool("front-matter")

	sec := types.Section{
		Heading:     strings.Join(args, " "),
		Body:        body,
		Chapter:     chapter,
		Required:    required,
		FrontMatter: frontMatter,
	}

	var id string
	if cmd.Flags().Changed("at") {
		pos, _ := cmd.Flags().GetInt("at")
		id = project.InsertSection(p, sec, pos)
	} else {
		id = project.AddSection(p, sec)
	}

	if err := saveAndSnapshot(cmd, p, path); err != nil {
		return err
	}
	fmt.Printf("Added section %q (%s)\n", sec.Heading, id)
	return nil
}

// --- list subcommand ---

var sectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections in order",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := loadProject(cmd)
		if err != nil {
			return err
		}
		for _, s := range p.Sections {
			kind := "section"
			if s.Chapter {
				kind = "chapter"
			} else if s.FrontMatter {
				kind = "front"
			}
			fmt.Printf("%2d  %-8s  %-30s  %6d chars  %s\n", s.Position, kind, s.Heading, len(s.Body), s.ID)
		}
		return nil
	},
}

// --- show subcommand ---

var sectionShowCmd = &cobra.Command{
	Use:   "show [id-or-heading]",
	Short: "Print a section body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := loadProject(cmd)
		if err != nil {
			return err
		}
		sec, err := findSection(p, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n%s\n", sec.Heading, sec.Body)
		return nil
	},
}

// --- edit subcommand ---

var sectionEditCmd = &cobra.Command{
	Use:   "edit [id-or-heading]",
	Short: "Update a section heading or body",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectionEdit,
}

func runSectionEdit(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}
	sec, err := findSection(p, args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("heading") {
		sec.Heading, _ = cmd.Flags().GetString("heading")
	}
	if cmd.Flags().Changed("body") || cmd.Flags().Changed("body-file") {
		body, err := bodyFromFlags(cmd)
		if err != nil {
			return err
		}
		sec.Body = body
	}

	project.Touch(p)
	if err := saveAndSnapshot(cmd, p, path); err != nil {
		return err
	}
	fmt.Printf("Updated section %q\n", sec.Heading)
	return nil
}

// --- remove subcommand ---

var sectionRemoveCmd = &cobra.Command{
	Use:   "remove [id-or-heading]",
	Short: "Remove a section",
	Long:  `Remove deletes a section. Sections marked required cannot be removed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, path, err := loadProject(cmd)
		if err != nil {
			return err
		}
		sec, err := findSection(p, args[0])
		if err != nil {
			return err
		}
		removed, err := project.RemoveSection(p, sec.ID)
		if err != nil {
			return err
		}
		if err := saveAndSnapshot(cmd, p, path); err != nil {
			return err
		}
		fmt.Printf("Removed section %q\n", removed.Heading)
		return nil
	},
}

// --- move subcommand ---

var sectionMoveCmd = &cobra.Command{
	Use:   "move [id-or-heading] [up|down]",
	Short: "Move a section one position up or down",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, path, err := loadProject(cmd)
		if err != nil {
			return err
		}
		sec, err := findSection(p, args[0])
		if err != nil {
			return err
		}

		var dir project.Direction
		switch args[1] {
		case "up":
			dir = project.Up
		case "down":
			dir = project.Down
		default:
			return fmt.Errorf("direction must be up or down, got %q", args[1])
		}

		pos, err := project.MoveSection(p, sec.ID, dir)
		if err != nil {
			return err
		}
		if err := saveAndSnapshot(cmd, p, path); err != nil {
			return err
		}
		fmt.Printf("Moved %q to position %d\n", sec.Heading, pos)
		return nil
	},
}

// --- reorder subcommand ---

var sectionReorderCmd = &cobra.Command{
	Use:   "reorder [id...]",
	Short: "Reorder all sections",
	Long: `Reorder rearranges sections to match the given ID list. The list must
name every section exactly once; otherwise the order is unchanged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, path, err := loadProject(cmd)
		if err != nil {
			return err
		}
		if err := project.Reorder(p, args); err != nil {
			return err
		}
		if err := saveAndSnapshot(cmd, p, path); err != nil {
			return err
		}
		fmt.Printf("Reordered %d sections.\n", len(args))
		return nil
	},
}

// --- shared helpers ---

// findSection resolves an argument as a section ID first, then as a
// heading.
func findSection(p *types.Project, arg string) (*types.Section, error) {
	if sec, err := project.Section(p, arg); err == nil {
		return sec, nil
	}
	return project.SectionByHeading(p, arg)
}

// bodyFromFlags reads the section body from --body or --body-file.
func bodyFromFlags(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("body-file") {
		file, _ := cmd.Flags().GetString("body-file")
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading body file: %w", err)
		}
		return string(data), nil
	}
	body, _ := cmd.Flags().GetString("body")
	return body, nil
}

func init() {
	for _, c := range []*cobra.Command{sectionAddCmd, sectionEditCmd} {
		c.Flags().String("body", "", "section body text")
		c.Flags().String("body-file", "", "read the section body from a file")
	}
	sectionAddCmd.Flags().Bool("chapter", false, "page-breaking chapter divider")
	sectionAddCmd.Flags().Bool("required", false, "protect the section from removal")
	sectionAddCmd.Flags().Bool("front-matter", false, "front-matter section (no first-line indent)")
	sectionAddCmd.Flags().Int("at", 0, "insert at this position instead of appending")
	sectionEditCmd.Flags().String("heading", "", "new heading")

	sectionCmd.AddCommand(sectionAddCmd)
	sectionCmd.AddCommand(sectionListCmd)
	sectionCmd.AddCommand(sectionShowCmd)
	sectionCmd.AddCommand(sectionEditCmd)
	sectionCmd.AddCommand(sectionRemoveCmd)
	sectionCmd.AddCommand(sectionMoveCmd)
	sectionCmd.AddCommand(sectionReorderCmd)

	rootCmd.AddCommand(sectionCmd)
}
