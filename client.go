// Package writenex is the persistence and version-history engine behind
// the writenex Markdown editor: durable multi-document storage, bounded
// per-document snapshot history, debounced autosave and a one-shot
// migration from the legacy single-document schema.
package writenex

import (
	"context"
	"errors"
	"fmt"

	"github.com/erlandv/writenex/internal/autosave"
	"github.com/erlandv/writenex/internal/compress"
	"github.com/erlandv/writenex/internal/config"
	"github.com/erlandv/writenex/internal/jobs"
	"github.com/erlandv/writenex/internal/model"
	"github.com/erlandv/writenex/internal/service"
	"github.com/erlandv/writenex/internal/store"
)

// ErrLastDocument rejects deleting the last remaining document. The rule
// lives here rather than in the repository: the repository stays a plain
// CRUD layer and the facade owns the product policy.
var ErrLastDocument = errors.New("cannot delete the last remaining document")

// Client bundles the engine's services over one opened store. It is the
// in-process surface the UI layer talks to.
type Client struct {
	store store.Store

	Documents   *service.DocumentService
	Versions    *service.VersionService
	Images      *service.ImageService
	Settings    *service.SettingService
	Coordinator *autosave.Coordinator

	runner *jobs.Runner
}

// Open opens the configured database, runs any pending schema migration
// and wires the services. A migration failure aborts the open; the caller
// should degrade to read-only rather than crash.
func Open(cfg config.Config) (*Client, error) {
	db, err := config.GetDb(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	st, err := store.Open(db)
	if err != nil {
		return nil, err
	}

	codec, err := compress.FromName(cfg.Compression)
	if err != nil {
		return nil, err
	}

	docs := service.NewDocumentService(st)
	versions := service.NewVersionService(codec, st, cfg.VersionCap)

	runner := jobs.NewRunner(nil, []jobs.CronJob{
		jobs.NewRetentionSweeper(st, versionCap(cfg)),
	})
	if err := runner.Run(); err != nil {
		return nil, fmt.Errorf("start background jobs: %w", err)
	}

	return &Client{
		store:     st,
		Documents: docs,
		Versions:  versions,
		Images:    service.NewImageService(codec, st),
		Settings:  service.NewSettingService(st),
		Coordinator: autosave.NewCoordinator(docs, versions, autosave.Options{
			Debounce:  cfg.AutosaveDebounce,
			IdleAfter: cfg.IdleSnapshotAfter,
			MinGap:    cfg.SnapshotMinGap,
		}),
		runner: runner,
	}, nil
}

// Close flushes the active editing session, stops background jobs and
// closes the store.
func (c *Client) Close() error {
	if err := c.Coordinator.Close(context.Background()); err != nil {
		return err
	}
	c.runner.Stop()
	return c.store.Close()
}

// ActiveDocument resolves the document the session should open: the
// last-active setting when it still points at a real document, otherwise
// the most recently edited one, otherwise a freshly created default. It
// records its choice so the next load goes straight there.
func (c *Client) ActiveDocument(ctx context.Context) (*model.Document, error) {
	id, err := c.Settings.GetSetting(ctx, model.LastActiveDocumentKey)
	if err != nil {
		return nil, err
	}
	if id != "" {
		doc, err := c.Documents.GetDocument(ctx, id)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, service.ErrDocumentNotFound) {
			return nil, err
		}
	}

	all, err := c.Documents.GetAllDocuments(ctx)
	if err != nil {
		return nil, err
	}

	var doc *model.Document
	if len(all) > 0 {
		doc = all[0]
	} else {
		doc, err = c.Documents.CreateDocument(ctx, "", "")
		if err != nil {
			return nil, err
		}
	}

	if err := c.Settings.SaveSetting(ctx, model.LastActiveDocumentKey, doc.ID); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetActiveDocument switches the editing session to the given document
// and persists it as the last active one.
func (c *Client) SetActiveDocument(ctx context.Context, id string) error {
	if err := c.Coordinator.OpenDocument(ctx, id); err != nil {
		return err
	}
	return c.Settings.SaveSetting(ctx, model.LastActiveDocumentKey, id)
}

// DeleteDocument deletes a document and its versions, refusing to remove
// the last one.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	count, err := c.Documents.GetDocumentCount(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastDocument
	}
	return c.Documents.DeleteDocument(ctx, id)
}

func versionCap(cfg config.Config) int {
	if cfg.VersionCap <= 0 {
		return service.DefaultVersionCap
	}
	return cfg.VersionCap
}
