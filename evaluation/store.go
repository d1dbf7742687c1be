package evaluation

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence operations for runs and scores.
type Store interface {
	// Create creates a new run.
	Create(ctx context.Context, run *Run) error

	// GetByID retrieves a run by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)

	// Update applies setters to a run and saves it.
	Update(ctx context.Context, id uuid.UUID, setters ...UpdateSetter) error

	// List retrieves runs, newest first.
	List(ctx context.Context, limit, offset int) ([]*Run, error)

	// Count returns the number of stored runs.
	Count(ctx context.Context) (int64, error)

	// Start marks a run as running.
	Start(ctx context.Context, id uuid.UUID) error

	// Complete marks a run as completed.
	Complete(ctx context.Context, id uuid.UUID, appCount int) error

	// Fail marks a run as failed with the given reason.
	Fail(ctx context.Context, id uuid.UUID, reason string) error

	// AddScores stores the scores of a run in one transaction.
	AddScores(ctx context.Context, runID uuid.UUID, scores []*Score) error

	// ListScores retrieves the scores of a run ordered by app id.
	ListScores(ctx context.Context, runID uuid.UUID) ([]*Score, error)

	// ListScoresByApp retrieves an application's scores across runs, newest first.
	ListScoresByApp(ctx context.Context, appID string, limit int) ([]*Score, error)
}

// UpdateSetter is a function that updates a run field.
type UpdateSetter func(*Run) error
