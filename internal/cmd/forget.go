package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:     "forget PATH...",
	Short:   "Remove files from the recent-files registry",
	GroupID: groupFiles,
	Long: `Remove files from the quickopen recent-files registry.

The desktop-wide recently-used.xbel file is not modified.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if env.Store == nil {
		return errors.New("recent database unavailable")
	}

	out := cmd.OutOrStdout()
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
		n, err := env.Store.Forget(cmd.Context(), abs)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(out, "%s%s%s not recorded\n", colorDim, abs, colorReset)
			continue
		}
		fmt.Fprintf(out, "%s forgotten\n", abs)
	}
	return nil
}
