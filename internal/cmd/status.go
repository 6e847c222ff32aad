package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/quickopen/internal/config"
	"github.com/runger/quickopen/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show quickopen status",
	GroupID: groupSetup,
	Long: `Show the current status of quickopen, including:
- Configuration file location
- Database location and schema version
- Log file location`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg := config.Load()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%squickopen Status%s\n", colorBold, colorReset)
	fmt.Fprintln(out, strings.Repeat("-", 40))

	// Configuration
	fmt.Fprintf(out, "\n%sConfiguration:%s\n", colorBold, colorReset)
	configFile := paths.ConfigFile()
	if _, err := os.Stat(configFile); err == nil {
		fmt.Fprintf(out, "  File:    %s\n", configFile)
	} else {
		fmt.Fprintf(out, "  File:    %s (not found, using defaults)\n", configFile)
	}
	fmt.Fprintf(out, "  Match:   %s\n", cfg.Picker.MatchMode)
	fmt.Fprintf(out, "  Backend: %s\n", cfg.Picker.Backend)

	// Storage
	fmt.Fprintf(out, "\n%sStorage:%s\n", colorBold, colorReset)
	dbFile := paths.DatabaseFile()
	if info, err := os.Stat(dbFile); err == nil {
		fmt.Fprintf(out, "  Database: %s (%s)\n", dbFile, formatSize(info.Size()))
		if store, err := storage.NewSQLiteStore(dbFile); err == nil {
			if v, err := store.SchemaVersion(cmd.Context()); err == nil {
				fmt.Fprintf(out, "  Schema:   v%d\n", v)
			}
			_ = store.Close()
		}
	} else {
		fmt.Fprintf(out, "  Database: %s (not created)\n", dbFile)
	}
	fmt.Fprintf(out, "  Recent:   %s\n", paths.RecentlyUsedFile())

	// Logs
	fmt.Fprintf(out, "\n%sLogs:%s\n", colorBold, colorReset)
	logFile := paths.LogFile()
	if cfg.Log.File != "" {
		logFile = cfg.Log.File
	}
	if info, err := os.Stat(logFile); err == nil {
		fmt.Fprintf(out, "  File:  %s (%s)\n", logFile, formatSize(info.Size()))
	} else {
		fmt.Fprintf(out, "  File:  %s (not created)\n", logFile)
	}
	fmt.Fprintf(out, "  Level: %s\n", cfg.Log.Level)

	return nil
}

func formatBool(b bool) string {
	if b {
		return colorGreen + "enabled" + colorReset
	}
	return colorDim + "disabled" + colorReset
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
