// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-forge CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-forge/internal/project"
	"github.com/pdiddy/paper-forge/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the shared CLI logger, writing human-readable lines to stderr.
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// rootCmd is the base command for the paper-forge CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-forge",
	Short: "Build APA-formatted academic documents",
	Long: `paper-forge manages academic writing projects: ordered sections, APA
citations, formatting preferences, and reusable templates. It renders
finished projects to Word documents with a title page, chapter breaks,
inline citations, and a sorted reference list.

A project lives in a single project.json file in the working directory.
Each concern is a subcommand: project, section, citation, library,
template, generate, and stats.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-forge.yaml or ~/.config/paper-forge/config.yaml)")
	rootCmd.PersistentFlags().String("project", project.DefaultFile, "path to the project file")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-forge")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-forge"))
		}
	}

	viper.SetEnvPrefix("PAPER_FORGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// appConfig merges the config file over the built-in defaults.
func appConfig() types.AppConfig {
	cfg := types.DefaultAppConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Warn().Err(err).Msg("unreadable config, using defaults")
		return types.DefaultAppConfig()
	}
	return cfg
}

// projectPath returns the project file path from the --project flag.
func projectPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("project")
	if path == "" {
		return project.DefaultFile
	}
	return path
}

// loadProject reads the project named by the --project flag.
func loadProject(cmd *cobra.Command) (*types.Project, string, error) {
	path := projectPath(cmd)
	p, err := project.Load(path)
	if err != nil {
		return nil, path, err
	}
	return p, path, nil
}

// saveProject writes p back to path.
func saveProject(p *types.Project, path string) error {
	return project.Save(p, path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
