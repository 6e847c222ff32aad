// Package cmd implements the quickopen management CLI.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/runger/quickopen/internal/cmdutil"
	"github.com/runger/quickopen/internal/config"
)

const (
	groupFiles = "files"
	groupSetup = "setup"
)

var (
	docFlags     []string
	docsFromFlag string
)

var rootCmd = &cobra.Command{
	Use:   "quickopen",
	Short: "quick open file picker",
	Long: `quickopen - pick a file to open from the places you work in
  - recently used files, ranked newest first
  - files next to your open documents, on the desktop, in your home
    directory and in bookmarked directories
  - incremental substring or fuzzy filtering`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyColorMode()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// openEnv opens the host environment, logging to the log file.
var openEnv = func() (*cmdutil.Env, error) {
	return cmdutil.Open(config.DefaultPaths(), cmdutil.Options{LogToFile: true})
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupFiles, Title: "File Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringArrayVar(&docFlags, "doc", nil, "path of an open document (repeatable)")
	pf.StringVar(&docsFromFlag, "docs-from", "", "file listing open documents, one per line (- for stdin)")
	pf.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
