package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/erlandv/writenex/internal/compress"
	"github.com/erlandv/writenex/internal/model"
	"github.com/erlandv/writenex/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultVersionCap is the retention limit applied per document when
	// no cap is configured.
	DefaultVersionCap = 50

	// EmptyPreview is the preview of a version whose first line is empty.
	EmptyPreview = "(Empty)"

	previewMaxLen = 100
)

// NewVersionService creates a new VersionService. Content is encoded with
// the given codec before it is stored; cap <= 0 selects the default.
func NewVersionService(codec compress.Compress, store store.Store, cap int) *VersionService {
	if cap <= 0 {
		cap = DefaultVersionCap
	}
	return &VersionService{
		codec: codec,
		store: store,
		cap:   cap,
	}
}

// VersionService owns the version history: snapshot creation, bounded
// retention and chronological retrieval. Labeled versions are not exempt
// from the cap; pruning is uniform by (timestamp, id).
type VersionService struct {
	codec compress.Compress
	store store.Store
	cap   int
}

// SaveVersion inserts an immutable snapshot of content and enforces the
// retention cap for the document, both inside one transaction so a failed
// prune rolls the insert back rather than leaving the history over cap.
func (v *VersionService) SaveVersion(ctx context.Context, documentID, content, label string) (uint, error) {
	encoded, err := v.codec.Encode([]byte(content))
	if err != nil {
		return 0, err
	}

	version := &model.Version{
		DocumentID:  documentID,
		Content:     string(encoded),
		Timestamp:   time.Now(),
		Preview:     Preview(content),
		Label:       label,
		Compression: v.codec.Name(),
	}

	err = v.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.CreateVersion(ctx, version); err != nil {
			return err
		}

		count, err := tx.CountVersions(ctx, documentID)
		if err != nil {
			return err
		}
		if count > int64(v.cap) {
			return tx.DeleteOldestVersions(ctx, documentID, int(count)-v.cap)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.Debugf("saved version %d for document %s", version.ID, documentID)
	return version.ID, nil
}

// GetVersions returns every snapshot of a document, newest first, with
// content decoded.
func (v *VersionService) GetVersions(ctx context.Context, documentID string) ([]*model.Version, error) {
	versions, err := v.store.ListVersions(ctx, documentID)
	if err != nil {
		return nil, err
	}
	for _, version := range versions {
		if err := decodeVersion(version); err != nil {
			return nil, err
		}
	}
	return versions, nil
}

// GetVersion retrieves one snapshot with content decoded,
// ErrVersionNotFound when absent.
func (v *VersionService) GetVersion(ctx context.Context, id uint) (*model.Version, error) {
	version, err := v.store.GetVersion(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := decodeVersion(version); err != nil {
		return nil, err
	}
	return version, nil
}

// DeleteVersion deletes one snapshot. Deleting an id that does not exist
// is a no-op, not an error.
func (v *VersionService) DeleteVersion(ctx context.Context, id uint) error {
	return v.store.DeleteVersion(ctx, id)
}

// ClearAllVersions deletes every snapshot of a document. The coordinator
// takes a labeled safety snapshot right after, not instead of, this call.
func (v *VersionService) ClearAllVersions(ctx context.Context, documentID string) error {
	return v.store.DeleteVersions(ctx, documentID)
}

// GetLastVersionTimestamp returns the timestamp of the most recent
// snapshot regardless of label, or nil when the document has none. It
// backs the idle-snapshot minimum-gap heuristic.
func (v *VersionService) GetLastVersionTimestamp(ctx context.Context, documentID string) (*time.Time, error) {
	ts, err := v.store.LatestVersionTime(ctx, documentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// Preview derives the list-display string for a snapshot: the first line
// of content truncated to 100 characters with a trailing ellipsis, or
// "(Empty)" when the first line is blank.
func Preview(content string) string {
	line := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	line = strings.TrimSuffix(line, "\r")

	if strings.TrimSpace(line) == "" {
		return EmptyPreview
	}

	runes := []rune(line)
	if len(runes) > previewMaxLen {
		return string(runes[:previewMaxLen]) + "..."
	}
	return line
}

func decodeVersion(version *model.Version) error {
	codec, err := compress.FromName(version.Compression)
	if err != nil {
		return err
	}
	data, err := codec.Decode([]byte(version.Content))
	if err != nil {
		return err
	}
	version.Content = string(data)
	return nil
}
