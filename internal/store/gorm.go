package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erlandv/writenex/internal/migrate"
	"github.com/erlandv/writenex/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

// Open prepares the database for use: it creates missing tables and runs
// any pending schema migration exactly once. A migration failure aborts
// the open, committing nothing (fail-closed).
func Open(db *gorm.DB) (*GormStore, error) {
	if err := model.Migrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if err := migrate.Run(db, migrate.Steps()); err != nil {
		return nil, err
	}

	return NewGormStore(db), nil
}

// NewGormStore wraps an already-migrated handle. Tests and transactions
// use it directly; production code goes through Open.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}

func (g *GormStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	return g.db.WithContext(ctx).Create(doc).Error
}

func (g *GormStore) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &doc, nil
}

func (g *GormStore) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	var docs []*model.Document
	err := g.db.WithContext(ctx).Order("updated_at desc").Find(&docs).Error
	return docs, err
}

func (g *GormStore) UpdateDocument(ctx context.Context, id string, fields map[string]any) error {
	res := g.db.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) DeleteDocument(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Document{}).Error
}

func (g *GormStore) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Document{}).Count(&count).Error
	return count, err
}

func (g *GormStore) CreateVersion(ctx context.Context, version *model.Version) error {
	return g.db.WithContext(ctx).Create(version).Error
}

func (g *GormStore) GetVersion(ctx context.Context, id uint) (*model.Version, error) {
	var version model.Version
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&version).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &version, nil
}

func (g *GormStore) ListVersions(ctx context.Context, documentID string) ([]*model.Version, error) {
	var versions []*model.Version
	err := g.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("timestamp desc, id desc").
		Find(&versions).Error
	return versions, err
}

func (g *GormStore) CountVersions(ctx context.Context, documentID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Version{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	return count, err
}

func (g *GormStore) DeleteVersion(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Version{}).Error
}

func (g *GormStore) DeleteVersions(ctx context.Context, documentID string) error {
	return g.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&model.Version{}).Error
}

func (g *GormStore) DeleteOldestVersions(ctx context.Context, documentID string, n int) error {
	if n <= 0 {
		return nil
	}
	oldest := g.db.Model(&model.Version{}).
		Select("id").
		Where("document_id = ?", documentID).
		Order("timestamp asc, id asc").
		Limit(n)
	return g.db.WithContext(ctx).Where("id IN (?)", oldest).Delete(&model.Version{}).Error
}

func (g *GormStore) LatestVersionTime(ctx context.Context, documentID string) (time.Time, error) {
	var version model.Version
	err := g.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("timestamp desc, id desc").
		First(&version).Error
	if err != nil {
		return time.Time{}, notFound(err)
	}
	return version.Timestamp, nil
}

func (g *GormStore) ListVersionedDocumentIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := g.db.WithContext(ctx).Model(&model.Version{}).
		Distinct().
		Pluck("document_id", &ids).Error
	return ids, err
}

func (g *GormStore) CreateImage(ctx context.Context, image *model.Image) error {
	return g.db.WithContext(ctx).Create(image).Error
}

func (g *GormStore) GetImage(ctx context.Context, id uint) (*model.Image, error) {
	var image model.Image
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &image, nil
}

func (g *GormStore) PutSetting(ctx context.Context, setting *model.Setting) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(setting).Error
}

func (g *GormStore) GetSetting(ctx context.Context, key string) (*model.Setting, error) {
	var setting model.Setting
	err := g.db.WithContext(ctx).Where("id = ?", key).First(&setting).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &setting, nil
}

func (g *GormStore) DeleteSetting(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("id = ?", key).Delete(&model.Setting{}).Error
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
