package migrate

import (
	"errors"
	"strings"
	"time"

	"github.com/erlandv/writenex/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// MigratedDocumentID is the fixed id of the document synthesized from
	// a legacy single-document database.
	MigratedDocumentID = "doc-migrated"

	// legacyWorkingCopyKey is where the old schema kept the single
	// working copy.
	legacyWorkingCopyKey = "workingCopy"
)

// upgradeToMultiDocument converts a single-document database into the
// multi-document schema: the legacy working copy becomes a real document,
// every orphaned version row is re-parented to it, and the new document
// becomes the last active one. Fresh databases have neither a working
// copy nor orphaned versions, so the step is a no-op for them. Existence
// checks make re-entry safe even though the version gate already
// prevents it.
func upgradeToMultiDocument(tx *gorm.DB) error {
	var legacy model.Setting
	hasWorkingCopy := true
	err := tx.Where("id = ?", legacyWorkingCopyKey).First(&legacy).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hasWorkingCopy = false
	}

	var orphans int64
	if err := tx.Model(&model.Version{}).Where("document_id = ?", "").Count(&orphans).Error; err != nil {
		return err
	}

	if !hasWorkingCopy && orphans == 0 {
		return nil
	}

	var existing int64
	if err := tx.Model(&model.Document{}).Where("id = ?", MigratedDocumentID).Count(&existing).Error; err != nil {
		return err
	}
	if existing == 0 {
		title := "Untitled"
		if strings.TrimSpace(legacy.Value) != "" {
			title = "My Document"
		}
		now := time.Now()
		doc := &model.Document{
			ID:        MigratedDocumentID,
			Title:     title,
			Content:   legacy.Value,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(doc).Error; err != nil {
			return err
		}
	}

	if orphans > 0 {
		err := tx.Model(&model.Version{}).
			Where("document_id = ?", "").
			Update("document_id", MigratedDocumentID).Error
		if err != nil {
			return err
		}
	}

	if hasWorkingCopy {
		if err := tx.Where("id = ?", legacyWorkingCopyKey).Delete(&model.Setting{}).Error; err != nil {
			return err
		}
	}

	setting := &model.Setting{ID: model.LastActiveDocumentKey, Value: MigratedDocumentID}
	if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(setting).Error; err != nil {
		return err
	}

	logrus.Infof("migrated legacy store: %d versions re-parented to %s", orphans, MigratedDocumentID)
	return nil
}
