package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/runger/quickopen/internal/cmdutil"
	"github.com/runger/quickopen/internal/picker"
	"github.com/runger/quickopen/internal/quickopen"
	"github.com/runger/quickopen/internal/source"
)

var (
	listMatch   string
	listVerbose bool
	listLimit   int
)

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Short:   "List candidate files",
	GroupID: groupFiles,
	Long: `List the files the picker would offer, in picker order.

The query filters candidates by display name, case-insensitively.
Recently used files come first, newest first.

Examples:
  quickopen list                       # All candidates
  quickopen list main                  # Names containing "main"
  quickopen list --match fuzzy mgo     # Fuzzy match
  quickopen list --doc ~/src/app/main.go --verbose`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listMatch, "match", "", "match mode: substring or fuzzy (default from config)")
	listCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "show kind, directory and sources")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of results (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if listMatch != "" {
		if err := env.Config.Set("picker.match_mode", listMatch); err != nil {
			return fmt.Errorf("--match: %w", err)
		}
	}

	docs, err := cmdutil.LoadDocuments(docFlags, docsFromFlag, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, err := aggregate(cmd, env, docs)
	if err != nil {
		return err
	}

	matcher := quickopen.MatcherFor(env.Config.Picker.MatchMode)
	visible := quickopen.Filter(res.Candidates, strings.Join(args, " "), matcher)
	if listLimit > 0 && len(visible) > listLimit {
		visible = visible[:listLimit]
	}

	out := cmd.OutOrStdout()
	width := terminalWidth()
	for _, c := range visible {
		if listVerbose {
			printCandidate(out, c, width)
		} else {
			fmt.Fprintln(out, c.Path)
		}
	}
	return nil
}

// aggregate runs the collectors for the given open documents.
func aggregate(cmd *cobra.Command, env *cmdutil.Env, docs source.DocumentProvider) (*quickopen.Result, error) {
	deps := env.Deps(docs)
	deps.SessionID = uuid.NewString()
	return quickopen.Aggregate(cmd.Context(), env.Config, deps)
}

// printCandidate prints the verbose form of one candidate.
func printCandidate(w io.Writer, c quickopen.Candidate, width int) {
	rank := ""
	if c.IsRecent() {
		rank = fmt.Sprintf(" #%d", c.RecencyRank+1)
	}
	head := fmt.Sprintf("%s %s", c.Kind.Glyph(), c.DisplayName)
	tail := fmt.Sprintf("[%s]%s", c.Sources, rank)
	room := width - len([]rune(head)) - len(tail) - 4
	dir := c.Dir()
	if room > 8 {
		dir = picker.TruncateDir(dir, room)
	}
	fmt.Fprintf(w, "%s%s%s  %s%s%s  %s\n", colorBold, head, colorReset, colorDim, dir, colorReset, tail)
}
