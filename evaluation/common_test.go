package evaluation

import (
	"testing"

	"gorm.io/gorm"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/testutil"
)

// setupTestStore creates a test database and evaluation store for testing.
func setupTestStore(t *testing.T) (*gorm.DB, Store) {
	db := testutil.SetupTestDB(t)
	testutil.AutoMigrate(t, db, &Run{}, &Score{})

	return db, NewSQLStore(db, logger.NewTestLogger())
}

// createRun creates a run with default values.
func createRun(project string, status Status) *Run {
	return &Run{
		ProjectName: project,
		Status:      status,
		Formats:     "csv,json",
	}
}
