package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erlandv/writenex/internal/model"
	"github.com/erlandv/writenex/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultTitle is used when a document is created without one.
const DefaultTitle = "Untitled"

// NewDocumentService creates a new DocumentService.
func NewDocumentService(store store.Store) *DocumentService {
	return &DocumentService{store: store}
}

// DocumentService owns the documents collection: id generation, timestamp
// bookkeeping and cascading deletion of a document's versions. It does not
// enforce the "last remaining document" rule, that policy belongs to the
// caller.
type DocumentService struct {
	store store.Store
}

// NewDocumentID generates a document id of the form
// doc-{creationTimeMillis}-{randomSuffix}.
func NewDocumentID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("doc-%d-%s", now.UnixMilli(), suffix)
}

// CreateDocument persists a new document with createdAt == updatedAt and
// returns the full entity.
func (d *DocumentService) CreateDocument(ctx context.Context, title, content string) (*model.Document, error) {
	if title == "" {
		title = DefaultTitle
	}

	now := time.Now()
	doc := &model.Document{
		ID:        NewDocumentID(now),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := d.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	logrus.Debugf("created document %s", doc.ID)
	return doc, nil
}

// GetDocument retrieves a document by id, ErrDocumentNotFound when absent.
func (d *DocumentService) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	doc, err := d.store.GetDocument(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	return doc, err
}

// GetAllDocuments returns every document, most recently edited first. The
// ordering is a product contract relied on by the document list view.
func (d *DocumentService) GetAllDocuments(ctx context.Context) ([]*model.Document, error) {
	return d.store.ListDocuments(ctx)
}

// DocumentUpdate carries the mutable fields of a document. Nil fields are
// left untouched; id and createdAt are immutable.
type DocumentUpdate struct {
	Title   *string
	Content *string
}

// UpdateDocument merges the given fields into a document. updatedAt is
// rewritten unconditionally, even when only non-content fields change.
func (d *DocumentService) UpdateDocument(ctx context.Context, id string, update DocumentUpdate) error {
	fields := map[string]any{"updated_at": time.Now()}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Content != nil {
		fields["content"] = *update.Content
	}

	err := d.store.UpdateDocument(ctx, id, fields)
	if errors.Is(err, store.ErrNotFound) {
		return ErrDocumentNotFound
	}
	return err
}

// DeleteDocument deletes a document and every version that references it,
// in one transaction so no orphaned versions survive a partial failure.
// Images referenced from the content are left alone, their lifecycle is
// independent of documents.
func (d *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return d.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DeleteDocument(ctx, id); err != nil {
			return err
		}
		return tx.DeleteVersions(ctx, id)
	})
}

// GetDocumentCount returns the number of documents.
func (d *DocumentService) GetDocumentCount(ctx context.Context) (int64, error) {
	return d.store.CountDocuments(ctx)
}
