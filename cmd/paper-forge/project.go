// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-forge/internal/autosave"
	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create and manage the project file",
	Long: `Project manages the project.json file that holds the document: its
metadata, ordered sections, citations, and formatting preferences.`,
}

// --- new subcommand ---

var projectNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a new project in the current directory",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProjectNew,
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	path := projectPath(cmd)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("project file %s already exists", path)
	}

	p := project.New(strings.Join(args, " "))
	if err := saveProject(p, path); err != nil {
		return err
	}
	fmt.Printf("Created %s: %q\n", path, p.Title)
	return nil
}

// --- info subcommand ---

var projectInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show project metadata, sections, and citations",
	RunE:  runProjectInfo,
}

func runProjectInfo(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("Project:     %s\n", p.Title)
	fmt.Printf("File:        %s\n", path)
	if p.Institution != "" {
		fmt.Printf("Institution: %s\n", p.Institution)
	}
	if len(p.Students) > 0 {
		fmt.Printf("Students:    %s\n", strings.Join(p.Students, ", "))
	}
	if len(p.Tutors) > 0 {
		fmt.Printf("Tutors:      %s\n", strings.Join(p.Tutors, ", "))
	}
	if p.Director != "" {
		fmt.Printf("Director:    %s\n", p.Director)
	}
	if p.Course != "" {
		fmt.Printf("Course:      %s\n", p.Course)
	}
	fmt.Printf("Modified:    %s\n", p.ModifiedAt.Format("2006-01-02 15:04"))

	fmt.Printf("\nSections (%d):\n", len(p.Sections))
	for _, s := range p.Sections {
		marker := " "
		if s.Chapter {
			marker = "#"
		}
		fmt.Printf("  %2d %s %-30s %6d chars  %s\n", s.Position, marker, s.Heading, len(s.Body), s.ID)
	}

	fmt.Printf("\nCitations (%d):\n", len(p.Citations))
	for _, c := range p.Citations {
		fmt.Printf("  [%s] %s (%d) %s\n", c.Key, first(c.Authors), c.Year, c.Title)
	}
	return nil
}

func first(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	return ss[0]
}

// --- set subcommand ---

var projectSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update project metadata",
	Long: `Set updates the title-page metadata. Only flags that are provided
change; repeatable flags (--student, --tutor) replace the whole list.`,
	RunE: runProjectSet,
}

func runProjectSet(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}

	set := func(flag string, dst *string) {
		if cmd.Flags().Changed(flag) {
			*dst, _ = cmd.Flags().GetString(flag)
		}
	}
	set("title", &p.Title)
	set("institution", &p.Institution)
	set("director", &p.Director)
	set("course", &p.Course)
	if cmd.Flags().Changed("student") {
		p.Students, _ = cmd.Flags().GetStringArray("student")
	}
	if cmd.Flags().Changed("tutor") {
		p.Tutors, _ = cmd.Flags().GetStringArray("tutor")
	}

	project.Touch(p)
	if err := saveAndSnapshot(cmd, p, path); err != nil {
		return err
	}
	fmt.Println("Project updated.")
	return nil
}

// --- prefs subcommand ---

var projectPrefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Update formatting preferences",
	Long: `Prefs updates the fonts, sizes, spacing, margins, and paragraph
settings used when the document is generated.`,
	RunE: runProjectPrefs,
}

func runProjectPrefs(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}

	prefs := p.Prefs
	if cmd.Flags().Changed("body-font") {
		prefs.BodyFont, _ = cmd.Flags().GetString("body-font")
	}
	if cmd.Flags().Changed("body-size") {
		prefs.BodySize, _ = cmd.Flags().GetInt("body-size")
	}
	if cmd.Flags().Changed("heading-font") {
		prefs.HeadingFont, _ = cmd.Flags().GetString("heading-font")
	}
	if cmd.Flags().Changed("heading-size") {
		prefs.HeadingSize, _ = cmd.Flags().GetInt("heading-size")
	}
	if cmd.Flags().Changed("line-spacing") {
		prefs.LineSpacing, _ = cmd.Flags().GetFloat64("line-spacing")
	}
	if cmd.Flags().Changed("margin") {
		prefs.MarginCm, _ = cmd.Flags().GetFloat64("margin")
	}
	if cmd.Flags().Changed("justify") {
		prefs.Justify, _ = cmd.Flags().GetBool("justify")
	}
	if cmd.Flags().Changed("indent") {
		prefs.Indent, _ = cmd.Flags().GetBool("indent")
	}

	project.SetPreferences(p, prefs)
	if err := saveAndSnapshot(cmd, p, path); err != nil {
		return err
	}
	fmt.Println("Preferences updated.")
	return nil
}

// --- image subcommand ---

var projectImageCmd = &cobra.Command{
	Use:   "image [slot] [path]",
	Short: "Attach or detach the header or badge image",
	Long: `Image attaches the file at path to an image slot ("header" or
"badge"). Omit the path to detach the slot.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runProjectImage,
}

func runProjectImage(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}

	slot := types.ImageSlot(args[0])
	if len(args) == 1 {
		if err := project.DetachImage(p, slot); err != nil {
			return err
		}
		if err := saveAndSnapshot(cmd, p, path); err != nil {
			return err
		}
		fmt.Printf("Detached %s image.\n", slot)
		return nil
	}

	if err := project.AttachImage(p, slot, args[1]); err != nil {
		return err
	}
	if err := saveAndSnapshot(cmd, p, path); err != nil {
		return err
	}
	fmt.Printf("Attached %s image: %s\n", slot, args[1])
	return nil
}

// --- restore subcommand ---

var projectRestoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the project from the autosave snapshot",
	Long: `Restore replaces the project file with the most recent autosave
snapshot, if one exists.`,
	RunE: runProjectRestore,
}

func runProjectRestore(cmd *cobra.Command, args []string) error {
	path := projectPath(cmd)
	cfg := appConfig()

	snap, err := autosave.Restore(cfg.Autosave.Path)
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no autosave snapshot at %s", cfg.Autosave.Path)
	}
	if err := saveProject(&snap.Project, path); err != nil {
		return err
	}
	fmt.Printf("Restored %q from snapshot taken %s.\n",
		snap.Project.Title, snap.SavedAt.Format("2006-01-02 15:04"))
	return nil
}

// --- discard subcommand ---

var projectDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Delete the autosave snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig()
		if err := autosave.Discard(cfg.Autosave.Path); err != nil {
			return err
		}
		fmt.Println("Snapshot discarded.")
		return nil
	},
}

// --- watch subcommand ---

var projectWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Autosave the project on a schedule while you edit",
	Long: `Watch runs until interrupted. It reloads the project file whenever it
changes on disk and writes autosave snapshots on the configured
interval, so a crash or a bad edit can be undone with "project
restore".`,
	RunE: runProjectWatch,
}

func runProjectWatch(cmd *cobra.Command, args []string) error {
	p, path, err := loadProject(cmd)
	if err != nil {
		return err
	}
	cfg := appConfig()

	mgr := autosave.New(cfg.Autosave, log)
	mgr.Track(p)
	if err := mgr.Start(); err != nil {
		return err
	}
	defer mgr.Stop()

	// Watch the directory, not the file: saves replace the file by
	// rename, which breaks a watch on the file itself.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s, snapshotting every %s. Press Ctrl-C to stop.\n",
		path, cfg.Autosave.Interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) ||
				!ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			reloaded, err := project.Load(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("project file unreadable, keeping last good state")
				continue
			}
			mgr.Track(reloaded)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(werr).Msg("file watcher error")
		}
	}
}

// saveAndSnapshot persists the project and, when the autosave policy is
// mutation-driven, writes a snapshot as well. Snapshot failures are
// logged and do not fail the command.
func saveAndSnapshot(cmd *cobra.Command, p *types.Project, path string) error {
	if err := saveProject(p, path); err != nil {
		return err
	}
	mgr := autosave.New(appConfig().Autosave, log)
	mgr.Track(p)
	mgr.RecordMutation()
	return nil
}

func init() {
	projectSetCmd.Flags().String("title", "", "document title")
	projectSetCmd.Flags().String("institution", "", "institution shown on the title page")
	projectSetCmd.Flags().StringArray("student", nil, "student name (repeatable)")
	projectSetCmd.Flags().StringArray("tutor", nil, "tutor name (repeatable)")
	projectSetCmd.Flags().String("director", "", "director name")
	projectSetCmd.Flags().String("course", "", "course name")

	projectPrefsCmd.Flags().String("body-font", "", "body font family")
	projectPrefsCmd.Flags().Int("body-size", 0, "body font size in points")
	projectPrefsCmd.Flags().String("heading-font", "", "heading font family")
	projectPrefsCmd.Flags().Int("heading-size", 0, "heading font size in points")
	projectPrefsCmd.Flags().Float64("line-spacing", 0, "line-spacing multiple (1.0, 1.5, 2.0)")
	projectPrefsCmd.Flags().Float64("margin", 0, "page margin in centimeters")
	projectPrefsCmd.Flags().Bool("justify", true, "justify body paragraphs")
	projectPrefsCmd.Flags().Bool("indent", true, "first-line indent on body paragraphs")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectInfoCmd)
	projectCmd.AddCommand(projectSetCmd)
	projectCmd.AddCommand(projectPrefsCmd)
	projectCmd.AddCommand(projectImageCmd)
	projectCmd.AddCommand(projectRestoreCmd)
	projectCmd.AddCommand(projectDiscardCmd)
	projectCmd.AddCommand(projectWatchCmd)

	rootCmd.AddCommand(projectCmd)
}
