// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-forge/internal/templates"
	"github.com/pdiddy/paper-forge/pkg/types"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Save and apply project templates",
	Long: `Template captures a project's section skeleton and formatting
preferences as a reusable YAML file. Applying a template to a project
replaces its sections and preferences; metadata fields are only filled
where the project leaves them empty. The built-in "generic" template is
always available.`,
}

// openTemplates opens the configured template directory.
func openTemplates() (*templates.Store, error) {
	cfg := appConfig()
	return templates.NewStore(cfg.Storage.TemplatesDir, log)
}

// --- save subcommand ---

var templateSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the current project as a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTemplates()
		if err != nil {
			return err
		}
		p, _, err := loadProject(cmd)
		if err != nil {
			return err
		}

		description, _ := cmd.Flags().GetString("description")
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		t := templates.FromProject(args[0], description, p)
		if err := store.Save(t, overwrite); err != nil {
			return err
		}
		fmt.Printf("Saved template %q (%d sections).\n", t.Name, len(t.Sections))
		return nil
	},
}

// --- apply subcommand ---

var templateApplyCmd = &cobra.Command{
	Use:   "apply [name]",
	Short: "Apply a template to the current project",
	Long: `Apply replaces the project's sections and preferences with the
template's. Section bodies from the template are kept as written; use
"generic" for the built-in academic skeleton.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, path, err := loadProject(cmd)
		if err != nil {
			return err
		}

		t, err := resolveTemplate(args[0])
		if err != nil {
			return err
		}
		templates.Apply(t, p)

		if err := saveAndSnapshot(cmd, p, path); err != nil {
			return err
		}
		fmt.Printf("Applied template %q: %d sections.\n", t.Name, len(p.Sections))
		return nil
	},
}

// --- list subcommand ---

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTemplates()
		if err != nil {
			return err
		}
		ts, err := store.List()
		if err != nil {
			return err
		}

		builtin := templates.Builtin()
		fmt.Printf("%-20s %3d sections  %s (built-in)\n", builtin.Name, len(builtin.Sections), builtin.Description)
		for _, t := range ts {
			fmt.Printf("%-20s %3d sections  %s\n", t.Name, len(t.Sections), t.Description)
		}
		return nil
	},
}

// --- show subcommand ---

var templateShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a template's sections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := resolveTemplate(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s — %s\n\n", t.Name, t.Description)
		for _, s := range t.Sections {
			kind := "section"
			if s.Chapter {
				kind = "chapter"
			} else if s.FrontMatter {
				kind = "front"
			}
			fmt.Printf("%2d  %-8s  %s\n", s.Position, kind, s.Heading)
		}
		return nil
	},
}

// --- delete subcommand ---

var templateDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openTemplates()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted template %q.\n", args[0])
		return nil
	},
}

// resolveTemplate loads a saved template, falling back to the built-in
// for the reserved name "generic".
func resolveTemplate(name string) (*types.Template, error) {
	store, err := openTemplates()
	if err != nil {
		return nil, err
	}
	if t, err := store.Load(name); err == nil {
		return t, nil
	} else if name != templates.Builtin().Name {
		return nil, err
	}
	builtin := templates.Builtin()
	return &builtin, nil
}

func init() {
	templateSaveCmd.Flags().String("description", "", "one-line template description")
	templateSaveCmd.Flags().Bool("overwrite", false, "replace an existing template of the same name")

	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateApplyCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateShowCmd)
	templateCmd.AddCommand(templateDeleteCmd)

	rootCmd.AddCommand(templateCmd)
}
