// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-forge/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show writing progress for the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _, err := loadProject(cmd)
		if err != nil {
			return err
		}

		s := stats.Compute(p)
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		fmt.Print(s.Report())
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "output stats as JSON")
	rootCmd.AddCommand(statsCmd)
}
