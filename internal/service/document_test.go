package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/erlandv/writenex/internal/compress"
	"github.com/erlandv/writenex/internal/store"
	"github.com/erlandv/writenex/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.GormStore {
	return store.NewGormStore(tester.Setup(t))
}

func TestDocumentService_CreateDocument(t *testing.T) {
	docs := NewDocumentService(newTestStore(t))
	ctx := context.Background()

	doc, err := docs.CreateDocument(ctx, "Notes", "# Notes")
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.True(t, strings.HasPrefix(doc.ID, "doc-"))
	assert.Equal(t, "Notes", doc.Title)
	assert.Equal(t, "# Notes", doc.Content)
	assert.True(t, doc.CreatedAt.Equal(doc.UpdatedAt))

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, "Notes", got.Title)
	assert.Equal(t, "# Notes", got.Content)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
}

func TestDocumentService_CreateDocumentDefaultTitle(t *testing.T) {
	docs := NewDocumentService(newTestStore(t))

	doc, err := docs.CreateDocument(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, doc.Title)
}

func TestDocumentService_GetDocumentMissing(t *testing.T) {
	docs := NewDocumentService(newTestStore(t))

	_, err := docs.GetDocument(context.Background(), "doc-0-missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_UpdateDocument(t *testing.T) {
	docs := NewDocumentService(newTestStore(t))
	ctx := context.Background()

	doc, err := docs.CreateDocument(ctx, "Notes", "v1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	content := "v2"
	require.NoError(t, docs.UpdateDocument(ctx, doc.ID, DocumentUpdate{Content: &content}))

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
	assert.Equal(t, "Notes", got.Title)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	// a title-only change still bumps updatedAt
	previous := got.UpdatedAt
	time.Sleep(5 * time.Millisecond)
	title := "Renamed"
	require.NoError(t, docs.UpdateDocument(ctx, doc.ID, DocumentUpdate{Title: &title}))

	got, err = docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "v2", got.Content)
	assert.True(t, got.UpdatedAt.After(previous))
}

func TestDocumentService_UpdateDocumentMissing(t *testing.T) {
	docs := NewDocumentService(newTestStore(t))

	content := "x"
	err := docs.UpdateDocument(context.Background(), "doc-0-missing", DocumentUpdate{Content: &content})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestDocumentService_GetAllDocumentsOrdering(t *testing.T) {
	docs := NewDocumentService(newTestStore(t))
	ctx := context.Background()

	first, err := docs.CreateDocument(ctx, "first", "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := docs.CreateDocument(ctx, "second", "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	third, err := docs.CreateDocument(ctx, "third", "")
	require.NoError(t, err)

	// editing the oldest moves it to the front
	time.Sleep(5 * time.Millisecond)
	content := "edited"
	require.NoError(t, docs.UpdateDocument(ctx, first.ID, DocumentUpdate{Content: &content}))

	all, err := docs.GetAllDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, third.ID, all[1].ID)
	assert.Equal(t, second.ID, all[2].ID)
}

func TestDocumentService_DeleteDocumentCascades(t *testing.T) {
	st := newTestStore(t)
	docs := NewDocumentService(st)
	versions := NewVersionService(compress.NewNop(), st, 0)
	ctx := context.Background()

	doc, err := docs.CreateDocument(ctx, "doomed", "content")
	require.NoError(t, err)
	other, err := docs.CreateDocument(ctx, "survivor", "content")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := versions.SaveVersion(ctx, doc.ID, "snapshot", "")
		require.NoError(t, err)
	}
	_, err = versions.SaveVersion(ctx, other.ID, "kept", "")
	require.NoError(t, err)

	require.NoError(t, docs.DeleteDocument(ctx, doc.ID))

	_, err = docs.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	gone, err := versions.GetVersions(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := versions.GetVersions(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestDocumentService_GetDocumentCount(t *testing.T) {
	docs := NewDocumentService(newTestStore(t))
	ctx := context.Background()

	count, err := docs.GetDocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	_, err = docs.CreateDocument(ctx, "a", "")
	require.NoError(t, err)
	_, err = docs.CreateDocument(ctx, "b", "")
	require.NoError(t, err)

	count, err = docs.GetDocumentCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
