package evaluation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

// SQLStore implements the Store interface using GORM.
// It runs against MySQL in deployments and SQLite for local history.
type SQLStore struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewSQLStore creates a new GORM-backed evaluation store.
func NewSQLStore(db *gorm.DB, log logger.Logger) *SQLStore {
	if log == nil {
		log = logger.Nop()
	}
	return &SQLStore{
		db:     db,
		logger: log,
	}
}

// Create creates a new run in the database.
func (s *SQLStore) Create(ctx context.Context, run *Run) error {
	if run.Status == "" {
		run.Status = StatusPending
	}

	if err := run.Validate(); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		s.logger.Error(ctx, "failed to create evaluation run", map[string]interface{}{
			"error":        err.Error(),
			"project_name": run.ProjectName,
		})
		return err
	}

	s.logger.Info(ctx, "evaluation run created", map[string]interface{}{
		"run_id":       run.ID,
		"project_name": run.ProjectName,
	})

	return nil
}

// GetByID retrieves a run by its ID.
func (s *SQLStore) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&run).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		s.logger.Error(ctx, "failed to get evaluation run by ID", map[string]interface{}{
			"error":  err.Error(),
			"run_id": id,
		})
		return nil, err
	}

	return &run, nil
}

// Update updates a run with the given setters.
func (s *SQLStore) Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error {
	run, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, setter := range setters {
		if err := setter(run); err != nil {
			return err
		}
	}

	return s.save(ctx, run, "updated")
}

// List retrieves a paginated list of runs, newest first.
func (s *SQLStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	var runs []*Run
	if limit <= 0 {
		limit = -1
	}
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&runs).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list evaluation runs", map[string]interface{}{
			"error":  err.Error(),
			"limit":  limit,
			"offset": offset,
		})
		return nil, err
	}

	return runs, nil
}

// Count returns the number of stored runs.
func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&Run{}).Count(&n).Error; err != nil {
		s.logger.Error(ctx, "failed to count evaluation runs", map[string]interface{}{
			"error": err.Error(),
		})
		return 0, err
	}
	return n, nil
}

// Start marks a run as running.
func (s *SQLStore) Start(ctx context.Context, id uuid.UUID) error {
	run, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := run.Start(); err != nil {
		return err
	}

	return s.save(ctx, run, "started")
}

// Complete marks a run as completed.
func (s *SQLStore) Complete(ctx context.Context, id uuid.UUID, appCount int) error {
	run, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := run.Complete(appCount); err != nil {
		return err
	}

	return s.save(ctx, run, "completed")
}

// Fail marks a run as failed.
func (s *SQLStore) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	run, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := run.Fail(reason); err != nil {
		return err
	}

	return s.save(ctx, run, "failed")
}

func (s *SQLStore) save(ctx context.Context, run *Run, action string) error {
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		s.logger.Error(ctx, "failed to save evaluation run", map[string]interface{}{
			"error":  err.Error(),
			"run_id": run.ID,
			"action": action,
		})
		return err
	}

	s.logger.Info(ctx, "evaluation run "+action, map[string]interface{}{
		"run_id": run.ID,
		"status": run.Status,
	})

	return nil
}

// AddScores stores the scores of a run in one transaction.
func (s *SQLStore) AddScores(ctx context.Context, runID uuid.UUID, scores []*Score) error {
	if len(scores) == 0 {
		return nil
	}

	if _, err := s.GetByID(ctx, runID); err != nil {
		return err
	}

	for _, sc := range scores {
		sc.RunID = runID
		if err := sc.Validate(); err != nil {
			return err
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&scores).Error
	})
	if err != nil {
		s.logger.Error(ctx, "failed to store evaluation scores", map[string]interface{}{
			"error":  err.Error(),
			"run_id": runID,
			"count":  len(scores),
		})
		return err
	}

	s.logger.Info(ctx, "evaluation scores stored", map[string]interface{}{
		"run_id": runID,
		"count":  len(scores),
	})

	return nil
}

// ListScores retrieves the scores of a run ordered by app id.
func (s *SQLStore) ListScores(ctx context.Context, runID uuid.UUID) ([]*Score, error) {
	var scores []*Score
	err := s.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("app_id ASC").
		Find(&scores).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list evaluation scores", map[string]interface{}{
			"error":  err.Error(),
			"run_id": runID,
		})
		return nil, err
	}

	return scores, nil
}

// ListScoresByApp retrieves an application's scores across runs, newest first.
func (s *SQLStore) ListScoresByApp(ctx context.Context, appID string, limit int) ([]*Score, error) {
	var scores []*Score
	if limit <= 0 {
		limit = -1
	}
	err := s.db.WithContext(ctx).
		Where("app_id = ?", appID).
		Order("created_at DESC").
		Limit(limit).
		Find(&scores).Error

	if err != nil {
		s.logger.Error(ctx, "failed to list scores by app", map[string]interface{}{
			"error":  err.Error(),
			"app_id": appID,
		})
		return nil, err
	}

	return scores, nil
}
