package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
)

var (
	historyLimit  int
	historyOffset int
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded evaluation runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: withHistory(func(cmd *cobra.Command, store evaluation.Store, args []string) error {
		runs, err := store.List(cmd.Context(), historyLimit, historyOffset)
		if err != nil {
			return err
		}
		if historyJSON {
			printJSON(cmd.OutOrStdout(), runs)
			return nil
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	}),
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its scores",
	Args:  cobra.ExactArgs(1),
	RunE: withHistory(func(cmd *cobra.Command, store evaluation.Store, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run ID: %w", err)
		}
		run, err := store.GetByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		scores, err := store.ListScores(cmd.Context(), id)
		if err != nil {
			return err
		}

		if historyJSON {
			printJSON(cmd.OutOrStdout(), map[string]interface{}{"run": run, "scores": scores})
			return nil
		}
		printRuns(cmd.OutOrStdout(), []*evaluation.Run{run})
		if run.Error != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\nError: %s\n", run.Error)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		printScores(cmd.OutOrStdout(), scores)
		return nil
	}),
}

var historyTrendCmd = &cobra.Command{
	Use:   "trend <app-id>",
	Short: "Show how an application's indices changed across runs",
	Args:  cobra.ExactArgs(1),
	RunE: withHistory(func(cmd *cobra.Command, store evaluation.Store, args []string) error {
		scores, err := store.ListScoresByApp(cmd.Context(), args[0], historyLimit)
		if err != nil {
			return err
		}
		if historyJSON {
			printJSON(cmd.OutOrStdout(), scores)
			return nil
		}

		rows := make([][]string, 0, len(scores))
		for i, s := range scores {
			delta := "-"
			if i+1 < len(scores) {
				delta = strconv.FormatFloat(s.WCS-scores[i+1].WCS, 'f', 4, 64)
			}
			rows = append(rows, []string{
				s.CreatedAt.Format("2006-01-02 15:04:05"),
				f4(s.SUCI), f4(s.IFCI), f4(s.TRCI), f4(s.ADI), f4(s.WCS), delta,
			})
		}
		printTable(cmd.OutOrStdout(), []string{"Evaluated", "SUCI", "IFCI", "TRCI", "ADI", "WCS", "ΔWCS"}, rows)
		return nil
	}),
}

// withHistory opens the history store for the duration of one command.
func withHistory(fn func(cmd *cobra.Command, store evaluation.Store, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		store, closeStore, err := openHistory(cfg, newLogger(cfg, os.Stderr))
		if err != nil {
			return err
		}
		defer closeStore()
		return fn(cmd, store, args)
	}
}

func init() {
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs")
	historyListCmd.Flags().IntVar(&historyOffset, "offset", 0, "number of runs to skip")
	historyTrendCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyTrendCmd)
	rootCmd.AddCommand(historyCmd)
}
