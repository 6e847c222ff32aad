package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/quickopen/internal/storage"
)

var sessionsLimit int

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Short:   "Show recent picker sessions",
	GroupID: groupFiles,
	Long: `Show the journal of recent quickopen-picker sessions: when each ran,
how many candidates it offered and how it ended.`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "number of sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if env.Store == nil {
		return errors.New("recent database unavailable")
	}

	sessions, err := env.Store.QuerySessions(cmd.Context(), sessionsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No picker sessions recorded.")
		return nil
	}
	for _, s := range sessions {
		started := time.UnixMilli(s.StartedAtUnixMs).Format("2006-01-02 15:04:05")
		fmt.Fprintf(out, "%s  %s  %4d  %-9s  %s\n",
			started, formatOutcome(s.Outcome), s.Candidates, s.MatchMode, s.ActivatedPath)
	}
	return nil
}

func formatOutcome(o storage.Outcome) string {
	label := fmt.Sprintf("%-9s", o)
	switch o {
	case storage.OutcomeActivated:
		return colorGreen + label + colorReset
	case storage.OutcomeFailed:
		return colorRed + label + colorReset
	default:
		return colorDim + label + colorReset
	}
}
