// Package migrate runs one-shot schema upgrades against the store. Each
// upgrade is an ordered step gated by the persisted schema version, so a
// database is only ever migrated once, inside a single transaction.
package migrate

import (
	"errors"
	"fmt"

	"github.com/erlandv/writenex/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LatestVersion is the schema version this build writes.
const LatestVersion = 2

// Step is one schema upgrade. Apply runs inside a transaction together
// with the schema version bump; returning an error rolls both back.
type Step struct {
	Version int
	Name    string
	Apply   func(tx *gorm.DB) error
}

// Steps returns the ordered upgrade list.
func Steps() []Step {
	return []Step{
		{
			Version: 2,
			Name:    "multi-document upgrade",
			Apply:   upgradeToMultiDocument,
		},
	}
}

// Run executes every step newer than the persisted schema version. A step
// failure aborts the whole run; the database stays at the last committed
// version (fail-closed, better to block startup than lose history).
func Run(db *gorm.DB, steps []Step) error {
	meta, err := schemaVersion(db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, step := range steps {
		if step.Version <= meta.Version {
			continue
		}

		logrus.Infof("running schema migration %d: %s", step.Version, step.Name)
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := step.Apply(tx); err != nil {
				return err
			}
			return tx.Model(&model.SchemaMeta{}).
				Where("id = ?", meta.ID).
				Update("version", step.Version).Error
		})
		if err != nil {
			return fmt.Errorf("schema migration %d (%s): %w", step.Version, step.Name, err)
		}
		meta.Version = step.Version
	}

	return nil
}

func schemaVersion(db *gorm.DB) (*model.SchemaMeta, error) {
	var meta model.SchemaMeta
	err := db.First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		meta = model.SchemaMeta{ID: 1, Version: 0}
		if err := db.Create(&meta).Error; err != nil {
			return nil, err
		}
		return &meta, nil
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}
