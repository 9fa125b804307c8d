package store

import (
	"context"
	"time"

	"github.com/erlandv/writenex/internal/model"
)

// Store is the durable storage behind the repository and the version
// history engine. One logical operation maps to one call; multi-step
// writes that must be atomic go through Transaction.
type Store interface {
	DocumentStore
	VersionStore
	ImageStore
	SettingStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Close() error
}

type DocumentStore interface {
	// CreateDocument inserts a new document.
	CreateDocument(ctx context.Context, doc *model.Document) error
	// GetDocument retrieves a document by id, ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*model.Document, error)
	// ListDocuments retrieves all documents, most recently edited first.
	ListDocuments(ctx context.Context) ([]*model.Document, error)
	// UpdateDocument applies the given column values to one document.
	UpdateDocument(ctx context.Context, id string, fields map[string]any) error
	// DeleteDocument deletes a document row. Versions are not touched,
	// cascading is the repository's job.
	DeleteDocument(ctx context.Context, id string) error
	// CountDocuments returns the number of documents.
	CountDocuments(ctx context.Context) (int64, error)
}

type VersionStore interface {
	// CreateVersion inserts a new snapshot row.
	CreateVersion(ctx context.Context, version *model.Version) error
	// GetVersion retrieves a snapshot by id, ErrNotFound when absent.
	GetVersion(ctx context.Context, id uint) (*model.Version, error)
	// ListVersions retrieves every snapshot of a document, newest first.
	ListVersions(ctx context.Context, documentID string) ([]*model.Version, error)
	// CountVersions returns the number of snapshots of a document.
	CountVersions(ctx context.Context, documentID string) (int64, error)
	// DeleteVersion deletes a snapshot. Deleting a missing id is a no-op.
	DeleteVersion(ctx context.Context, id uint) error
	// DeleteVersions deletes every snapshot of a document.
	DeleteVersions(ctx context.Context, documentID string) error
	// DeleteOldestVersions deletes the n oldest snapshots of a document,
	// ordered by (timestamp, id) so pruning is deterministic under
	// timestamp ties.
	DeleteOldestVersions(ctx context.Context, documentID string, n int) error
	// LatestVersionTime returns the timestamp of a document's most recent
	// snapshot regardless of label, ErrNotFound when it has none.
	LatestVersionTime(ctx context.Context, documentID string) (time.Time, error)
	// ListVersionedDocumentIDs returns the ids of all documents that have
	// at least one snapshot.
	ListVersionedDocumentIDs(ctx context.Context) ([]string, error)
}

type ImageStore interface {
	// CreateImage inserts a new image blob.
	CreateImage(ctx context.Context, image *model.Image) error
	// GetImage retrieves an image by id, ErrNotFound when absent.
	GetImage(ctx context.Context, id uint) (*model.Image, error)
}

type SettingStore interface {
	// PutSetting inserts or overwrites a key-value pair.
	PutSetting(ctx context.Context, setting *model.Setting) error
	// GetSetting retrieves a value by key, ErrNotFound when absent.
	GetSetting(ctx context.Context, key string) (*model.Setting, error)
	// DeleteSetting removes a key. Deleting a missing key is a no-op.
	DeleteSetting(ctx context.Context, key string) error
}
