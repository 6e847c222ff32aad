package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/quickopen/internal/cmdutil"
	"github.com/runger/quickopen/internal/config"
	"github.com/runger/quickopen/internal/quickopen"
	"github.com/runger/quickopen/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:     "sources",
	Short:   "Show candidate sources and what they contribute",
	GroupID: groupFiles,
	Long: `Show each candidate source, whether it is enabled, where it reads
from and how many candidates it contributed.

Enable or disable a source with:
  quickopen config sources.include_home_dir_files true`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

// sourceConfigKeys maps each source onto its config key.
var sourceConfigKeys = map[source.Kind]string{
	source.KindRecent:    "sources.include_recent_files",
	source.KindDocuments: "sources.include_open_document_dir_files",
	source.KindDesktop:   "sources.include_desktop_dir_files",
	source.KindHome:      "sources.include_home_dir_files",
	source.KindBookmarks: "sources.include_bookmark_dir_files",
}

func runSources(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	docs, err := cmdutil.LoadDocuments(docFlags, docsFromFlag, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, err := aggregate(cmd, env, docs)
	if err != nil {
		return err
	}

	counts := make(map[source.Kind]int)
	for _, c := range res.Candidates {
		for _, k := range c.Sources.Kinds() {
			counts[k]++
		}
	}
	enabled := make(map[source.Kind]bool)
	for _, k := range quickopen.EnabledSources(env.Config) {
		enabled[k] = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%sSources%s\n", colorBold, colorReset)
	fmt.Fprintln(out, strings.Repeat("-", 40))
	for _, kind := range source.AllKinds {
		printSource(out, kind, enabled[kind], counts[kind], res.Unavailable[kind])
		for _, loc := range sourceLocations(env, kind, docs) {
			fmt.Fprintf(out, "    %s%s%s\n", colorDim, loc, colorReset)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Candidates: %d (%d stale skipped)\n", len(res.Candidates), res.Stale)
	return nil
}

func printSource(w io.Writer, kind source.Kind, enabled bool, count int, err error) {
	status := formatBool(enabled)
	switch {
	case err != nil:
		status = fmt.Sprintf("%sunavailable%s (%v)", colorRed, colorReset, err)
	case enabled:
		status = fmt.Sprintf("%s, %d candidate(s)", status, count)
	}
	fmt.Fprintf(w, "  %s%-10s%s %s  %s%s%s\n", colorCyan, kind, colorReset, status, colorDim, sourceConfigKeys[kind], colorReset)
}

// sourceLocations lists where a source reads from.
func sourceLocations(env *cmdutil.Env, kind source.Kind, docs source.DocumentProvider) []string {
	switch kind {
	case source.KindRecent:
		locs := []string{env.Paths.RecentlyUsedFile()}
		if env.Store != nil {
			locs = append(locs, env.Paths.DatabaseFile())
		}
		return locs
	case source.KindDocuments:
		return source.DocumentDirectories(docs)
	case source.KindDesktop:
		return []string{source.DesktopDir(env.Paths.UserDirsFile(), config.HomeDir())}
	case source.KindHome:
		return []string{config.HomeDir()}
	case source.KindBookmarks:
		dirs, err := source.ReadBookmarks(env.Paths.BookmarksFiles())
		if err != nil {
			return nil
		}
		return dirs
	}
	return nil
}
