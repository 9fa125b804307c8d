package migrate

import (
	"testing"
	"time"

	"github.com/erlandv/writenex/internal/model"
	"github.com/erlandv/writenex/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedLegacy recreates a schema-v1 database: a single working copy kept
// under a settings key and version rows with no owning document.
func seedLegacy(t *testing.T, db *gorm.DB, content string, versionCount int) {
	t.Helper()

	require.NoError(t, db.Create(&model.SchemaMeta{ID: 1, Version: 1}).Error)
	if content != "" {
		require.NoError(t, db.Create(&model.Setting{ID: "workingCopy", Value: content}).Error)
	}
	for i := 0; i < versionCount; i++ {
		version := &model.Version{
			DocumentID: "",
			Content:    content,
			Timestamp:  time.Now().Add(time.Duration(i) * time.Second),
			Preview:    "legacy",
		}
		require.NoError(t, db.Create(version).Error)
	}
}

func TestRun_LegacyUpgrade(t *testing.T) {
	db := tester.Setup(t)
	seedLegacy(t, db, "# Notes", 3)

	require.NoError(t, Run(db, Steps()))

	var docs []*model.Document
	require.NoError(t, db.Find(&docs).Error)
	require.Len(t, docs, 1)
	assert.Equal(t, MigratedDocumentID, docs[0].ID)
	assert.Equal(t, "My Document", docs[0].Title)
	assert.Equal(t, "# Notes", docs[0].Content)
	assert.False(t, docs[0].CreatedAt.IsZero())

	var versions []*model.Version
	require.NoError(t, db.Find(&versions).Error)
	require.Len(t, versions, 3)
	for _, version := range versions {
		assert.Equal(t, MigratedDocumentID, version.DocumentID)
	}

	var active model.Setting
	require.NoError(t, db.Where("id = ?", model.LastActiveDocumentKey).First(&active).Error)
	assert.Equal(t, MigratedDocumentID, active.Value)

	// the legacy working copy location is gone
	var legacyCount int64
	require.NoError(t, db.Model(&model.Setting{}).Where("id = ?", "workingCopy").Count(&legacyCount).Error)
	assert.Equal(t, int64(0), legacyCount)

	var meta model.SchemaMeta
	require.NoError(t, db.First(&meta).Error)
	assert.Equal(t, LatestVersion, meta.Version)
}

func TestRun_LegacyUpgradeEmptyWorkingCopy(t *testing.T) {
	db := tester.Setup(t)
	seedLegacy(t, db, "", 2)

	require.NoError(t, Run(db, Steps()))

	var doc model.Document
	require.NoError(t, db.Where("id = ?", MigratedDocumentID).First(&doc).Error)
	assert.Equal(t, "Untitled", doc.Title)
	assert.Empty(t, doc.Content)
}

func TestRun_FreshDatabase(t *testing.T) {
	db := tester.Setup(t)

	require.NoError(t, Run(db, Steps()))

	// nothing to migrate, but the schema version is recorded
	var docCount int64
	require.NoError(t, db.Model(&model.Document{}).Count(&docCount).Error)
	assert.Equal(t, int64(0), docCount)

	var meta model.SchemaMeta
	require.NoError(t, db.First(&meta).Error)
	assert.Equal(t, LatestVersion, meta.Version)
}

func TestRun_RunsOnlyOnce(t *testing.T) {
	db := tester.Setup(t)
	seedLegacy(t, db, "# Notes", 1)

	require.NoError(t, Run(db, Steps()))
	require.NoError(t, Run(db, Steps()))

	var docCount int64
	require.NoError(t, db.Model(&model.Document{}).Count(&docCount).Error)
	assert.Equal(t, int64(1), docCount)
}

func TestRun_ReentrantStepIsGuarded(t *testing.T) {
	db := tester.Setup(t)
	seedLegacy(t, db, "# Notes", 1)

	// force the step to run twice despite the version gate
	require.NoError(t, Run(db, Steps()))
	require.NoError(t, db.Model(&model.SchemaMeta{}).Where("id = ?", 1).Update("version", 1).Error)
	require.NoError(t, Run(db, Steps()))

	var docCount int64
	require.NoError(t, db.Model(&model.Document{}).Count(&docCount).Error)
	assert.Equal(t, int64(1), docCount)
}

func TestRun_FailedStepCommitsNothing(t *testing.T) {
	db := tester.Setup(t)
	seedLegacy(t, db, "# Notes", 1)

	steps := []Step{
		{
			Version: 2,
			Name:    "poisoned upgrade",
			Apply: func(tx *gorm.DB) error {
				if err := upgradeToMultiDocument(tx); err != nil {
					return err
				}
				return assert.AnError
			},
		},
	}

	require.Error(t, Run(db, steps))

	// the transaction rolled the synthesized document back
	var docCount int64
	require.NoError(t, db.Model(&model.Document{}).Count(&docCount).Error)
	assert.Equal(t, int64(0), docCount)

	var meta model.SchemaMeta
	require.NoError(t, db.First(&meta).Error)
	assert.Equal(t, 1, meta.Version)
}
