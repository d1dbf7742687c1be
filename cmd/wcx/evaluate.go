package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/database"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/export"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/metrics"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/pipeline"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/storage"
)

var (
	useSample bool
	noHistory bool
	asJSON    bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score every configured application and export the results",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().BoolVar(&useSample, "sample", false, "evaluate the built-in sample application instead of the configured ones")
	evaluateCmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the run in the history database")
	evaluateCmd.Flags().BoolVar(&asJSON, "json", false, "print the indices as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if useSample {
		cfg.UseSample()
	}
	if noHistory {
		cfg.Database.Driver = database.DriverNone
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := newLogger(cfg, os.Stderr)

	store, closeStore, err := openHistory(cfg, log)
	if err != nil && !errors.Is(err, database.ErrDisabled) {
		return err
	}
	defer closeStore()

	ev := newEvaluator(cfg, store, metrics.NewRecorder(), log)
	run, results, err := ev.Evaluate(ctx)
	if err != nil {
		return err
	}

	if asJSON {
		printJSON(cmd.OutOrStdout(), indicesOf(results))
		return nil
	}
	printIndices(cmd.OutOrStdout(), results)
	if run != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nRun %s recorded (%s)\n", run.ID, run.Status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", cfg.Output.Dir)
	return nil
}

// evaluator runs the pipeline, exports the results and records the run.
type evaluator struct {
	cfg      *Config
	store    evaluation.Store
	recorder *metrics.Recorder
	log      logger.Logger
}

func newEvaluator(cfg *Config, store evaluation.Store, rec *metrics.Recorder, log logger.Logger) *evaluator {
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	return &evaluator{cfg: cfg, store: store, recorder: rec, log: log}
}

// Evaluate scores every configured application once. The returned run is
// nil when history is disabled.
func (e *evaluator) Evaluate(ctx context.Context) (*evaluation.Run, []pipeline.Result, error) {
	apps, err := BuildApps(e.cfg, e.log)
	if err != nil {
		return nil, nil, err
	}

	var runID uuid.UUID
	if e.store != nil {
		run := &evaluation.Run{
			ProjectName: e.cfg.ProjectName,
			Formats:     strings.Join(e.cfg.Output.Formats, ","),
		}
		if err := e.store.Create(ctx, run); err != nil {
			return nil, nil, fmt.Errorf("failed to record run: %w", err)
		}
		if err := e.store.Start(ctx, run.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to start run: %w", err)
		}
		runID = run.ID
	}

	e.log.Info(ctx, "Evaluation started", map[string]interface{}{
		"project_name": e.cfg.ProjectName,
		"applications": len(apps),
		"run_id":       runID,
	})

	results := pipeline.New(e.log, pipeline.WithRecorder(e.recorder)).Run(ctx, apps)

	if err := e.export(ctx, results); err != nil {
		return nil, nil, e.fail(ctx, runID, err)
	}

	var run *evaluation.Run
	if e.store != nil {
		if run, err = e.record(ctx, runID, results); err != nil {
			return nil, nil, e.fail(ctx, runID, err)
		}
	}

	e.recorder.ObserveEvaluation(string(evaluation.StatusCompleted))
	e.log.Info(ctx, "Evaluation completed", map[string]interface{}{
		"project_name": e.cfg.ProjectName,
		"applications": len(results),
		"run_id":       runID,
	})
	return run, results, nil
}

func (e *evaluator) export(ctx context.Context, results []pipeline.Result) error {
	blob, err := storage.New(ctx, e.cfg.Output.Storage)
	if err != nil {
		return err
	}
	return export.ExportAll(ctx, e.cfg.Output.Formats, blob, results, e.log)
}

func (e *evaluator) record(ctx context.Context, runID uuid.UUID, results []pipeline.Result) (*evaluation.Run, error) {
	scores := make([]*evaluation.Score, 0, len(results))
	for _, r := range results {
		s, err := evaluation.NewScore(runID, r)
		if err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	if err := e.store.AddScores(ctx, runID, scores); err != nil {
		return nil, err
	}
	if err := e.store.Complete(ctx, runID, len(results)); err != nil {
		return nil, err
	}
	return e.store.GetByID(ctx, runID)
}

// failTimeout bounds how long marking a run failed may take.
const failTimeout = 10 * time.Second

// fail marks the run failed and returns the original error.
func (e *evaluator) fail(ctx context.Context, runID uuid.UUID, cause error) error {
	e.recorder.ObserveEvaluation(string(evaluation.StatusFailed))
	e.log.Error(ctx, "Evaluation failed", map[string]interface{}{
		"error":  cause.Error(),
		"run_id": runID,
	})
	if e.store != nil && runID != uuid.Nil {
		// The caller's context may be the reason for the failure.
		markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failTimeout)
		defer cancel()
		if err := e.store.Fail(markCtx, runID, cause.Error()); err != nil {
			e.log.Warn(ctx, "Failed to mark run as failed", map[string]interface{}{
				"error":  err.Error(),
				"run_id": runID,
			})
		}
	}
	return cause
}

// openHistory connects to the history database and returns its store.
// The returned close func is always safe to call.
func openHistory(cfg *Config, log logger.Logger) (evaluation.Store, func(), error) {
	noop := func() {}
	dbCfg := cfg.DatabaseSettings()
	if !dbCfg.Enabled() {
		return nil, noop, database.ErrDisabled
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, noop, fmt.Errorf("failed to get database instance: %w", err)
	}
	closeDB := func() { _ = sqlDB.Close() }

	// SQLite history files are created on demand; MySQL uses `wcx migrate up`.
	if dbCfg.Driver == database.DriverSQLite {
		if err := database.AutoMigrate(db); err != nil {
			closeDB()
			return nil, noop, err
		}
	}

	return evaluation.NewSQLStore(db, log), closeDB, nil
}

// configRunner reloads the config for every evaluation requested over HTTP.
type configRunner struct {
	store    evaluation.Store
	recorder *metrics.Recorder
	log      logger.Logger
}

func (r *configRunner) Evaluate(ctx context.Context) (*evaluation.Run, []pipeline.Result, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	return newEvaluator(cfg, r.store, r.recorder, r.log).Evaluate(ctx)
}
