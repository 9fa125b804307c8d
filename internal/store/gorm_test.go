package store

import (
	"context"
	"testing"
	"time"

	"github.com/erlandv/writenex/internal/model"
	"github.com/erlandv/writenex/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStore_DeleteOldestVersionsTieBreak(t *testing.T) {
	st := NewGormStore(tester.Setup(t))
	ctx := context.Background()

	// four snapshots sharing one timestamp: insertion order decides age
	ts := time.Now()
	var ids []uint
	for i := 0; i < 4; i++ {
		version := &model.Version{DocumentID: "doc-1-aaaa", Content: "same instant", Timestamp: ts}
		require.NoError(t, st.CreateVersion(ctx, version))
		ids = append(ids, version.ID)
	}

	require.NoError(t, st.DeleteOldestVersions(ctx, "doc-1-aaaa", 2))

	list, err := st.ListVersions(ctx, "doc-1-aaaa")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// the two lowest ids were pruned, newest-first listing keeps the rest
	assert.Equal(t, ids[3], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)
}

func TestGormStore_DeleteOldestVersionsZero(t *testing.T) {
	st := NewGormStore(tester.Setup(t))
	ctx := context.Background()

	require.NoError(t, st.CreateVersion(ctx, &model.Version{DocumentID: "doc-1-aaaa", Timestamp: time.Now()}))
	require.NoError(t, st.DeleteOldestVersions(ctx, "doc-1-aaaa", 0))

	count, err := st.CountVersions(ctx, "doc-1-aaaa")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormStore_NotFoundMapping(t *testing.T) {
	st := NewGormStore(tester.Setup(t))
	ctx := context.Background()

	_, err := st.GetDocument(ctx, "doc-0-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetVersion(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetImage(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetSetting(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.LatestVersionTime(ctx, "doc-0-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ListVersionedDocumentIDs(t *testing.T) {
	st := NewGormStore(tester.Setup(t))
	ctx := context.Background()

	for _, docID := range []string{"doc-1-aaaa", "doc-1-aaaa", "doc-2-bbbb"} {
		require.NoError(t, st.CreateVersion(ctx, &model.Version{DocumentID: docID, Timestamp: time.Now()}))
	}

	ids, err := st.ListVersionedDocumentIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"doc-1-aaaa", "doc-2-bbbb"}, ids)
}

func TestGormStore_TransactionRollsBack(t *testing.T) {
	st := NewGormStore(tester.Setup(t))
	ctx := context.Background()

	doc := &model.Document{ID: "doc-1-aaaa", Title: "t", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	err := st.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateDocument(ctx, doc); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = st.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
