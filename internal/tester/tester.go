package tester

import (
	"path/filepath"
	"testing"

	"github.com/erlandv/writenex/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup opens a fresh sqlite database in a per-test temp directory with
// all tables created.
func Setup(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "writenex.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
