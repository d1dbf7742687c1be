package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/collector"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wcx %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe what an evaluation with the current config would do",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		printInfo(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func describeSource(s collector.Source) string {
	if s.IsNone() {
		return "-"
	}
	switch {
	case s.Path != "":
		return s.Type + ": " + s.Path
	case len(s.URLs) > 0:
		return fmt.Sprintf("%s: %d urls", s.Type, len(s.URLs))
	default:
		return s.Type
	}
}

func printInfo(w io.Writer, cfg *Config) {
	fmt.Fprintf(w, "Project:  %s\n", cfg.ProjectName)
	fmt.Fprintf(w, "Output:   %s (%s, %s)\n", cfg.Output.Dir, strings.Join(cfg.Output.Formats, ", "), cfg.Output.Storage.Type)
	fmt.Fprintf(w, "History:  %s\n", cfg.Database.Driver)
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(cfg.Applications))
	for _, app := range cfg.Applications {
		rows = append(rows, []string{
			app.ID,
			describeSource(app.UIStructure),
			describeSource(app.Tests),
			describeSource(app.Logs),
			describeSource(app.Agents),
		})
	}
	printTable(w, []string{"App", "UI", "Tests", "Logs", "Agents"}, rows)
}

func init() {
	rootCmd.AddCommand(versionCmd, infoCmd)
}
