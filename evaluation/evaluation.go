// Package evaluation persists evaluation runs and the per-application
// scores they produced.
package evaluation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrRunNotFound is returned when an evaluation run is not found.
	ErrRunNotFound = errors.New("evaluation run not found")

	// ErrInvalidProjectName is returned when project_name is not set.
	ErrInvalidProjectName = errors.New("project_name is required")

	// ErrInvalidStatus is returned when status is invalid.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrRunAlreadyStarted is returned when starting a run that has already started.
	ErrRunAlreadyStarted = errors.New("evaluation run already started")

	// ErrRunNotRunning is returned when finishing a run that is not running.
	ErrRunNotRunning = errors.New("evaluation run is not running")

	// ErrInvalidScore is returned when a score has no run or application.
	ErrInvalidScore = errors.New("score requires run_id and app_id")
)

// Status is the lifecycle state of an evaluation run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the run has finished.
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one invocation of the evaluation pipeline over a configured project.
type Run struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	ProjectName string     `json:"project_name" gorm:"type:varchar(255);not null;index:idx_runs_project"`
	Status      Status     `json:"status" gorm:"type:varchar(20);not null;default:'pending';index:idx_runs_status"`
	Formats     string     `json:"formats" gorm:"type:varchar(64)"`
	AppCount    int        `json:"app_count" gorm:"not null;default:0"`
	Error       string     `json:"error,omitempty" gorm:"type:text"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMS  *int64     `json:"duration_ms,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index:idx_runs_created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName pins the table name used by the migrations.
func (Run) TableName() string {
	return "evaluation_runs"
}

// BeforeCreate generates the run id.
func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Validate checks if the run has valid required fields.
func (r *Run) Validate() error {
	if strings.TrimSpace(r.ProjectName) == "" {
		return ErrInvalidProjectName
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// FormatList returns the export formats recorded for the run.
func (r *Run) FormatList() []string {
	if r.Formats == "" {
		return nil
	}
	return strings.Split(r.Formats, ",")
}

// Start moves a pending run to running.
func (r *Run) Start() error {
	if r.StartedAt != nil || r.Status != StatusPending {
		return ErrRunAlreadyStarted
	}
	now := time.Now()
	r.StartedAt = &now
	r.Status = StatusRunning
	return nil
}

// Complete marks a running run as completed with the number of scored apps.
func (r *Run) Complete(appCount int) error {
	if r.Status != StatusRunning {
		return ErrRunNotRunning
	}
	r.finish(StatusCompleted)
	r.AppCount = appCount
	return nil
}

// Fail marks a running run as failed with the reason.
func (r *Run) Fail(reason string) error {
	if r.Status != StatusRunning {
		return ErrRunNotRunning
	}
	r.finish(StatusFailed)
	r.Error = reason
	return nil
}

func (r *Run) finish(status Status) {
	now := time.Now()
	r.CompletedAt = &now
	r.Status = status
	if r.StartedAt != nil {
		d := now.Sub(*r.StartedAt).Milliseconds()
		r.DurationMS = &d
	}
}
