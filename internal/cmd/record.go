package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/runger/quickopen/internal/quickopen"
)

var recordName string

var recordCmd = &cobra.Command{
	Use:     "record PATH...",
	Short:   "Record files as recently opened",
	GroupID: groupFiles,
	Long: `Record files in the quickopen recent-files registry.

Editors call this after opening a document so that it is offered first
the next time the picker runs.

Examples:
  quickopen record ~/notes/todo.md
  quickopen record --name "Todo" ~/notes/todo.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordName, "name", "", "display name to store with the file")
}

func runRecord(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if env.Store == nil {
		return errors.New("recent database unavailable")
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		c, ok := quickopen.Resolve(abs, recordName)
		if !ok {
			return fmt.Errorf("%s: not a regular file", arg)
		}
		if err := env.Record(cmd.Context(), c.Path, recordName); err != nil {
			return fmt.Errorf("record %s: %w", c.Path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s%s recorded\n", colorGreen, c.Path, colorReset)
	}
	return nil
}
