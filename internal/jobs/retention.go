package jobs

import (
	"context"

	"github.com/erlandv/writenex/internal/store"
	"github.com/sirupsen/logrus"
)

// RetentionSweeper re-enforces the per-document version cap in the
// background. SaveVersion already prunes inside its own transaction; the
// sweeper is the safety net for anything that slipped past it, and the
// prune is idempotent so running it again is always safe.
type RetentionSweeper struct {
	store store.Store
	cap   int
}

func NewRetentionSweeper(store store.Store, cap int) *RetentionSweeper {
	return &RetentionSweeper{store: store, cap: cap}
}

func (s *RetentionSweeper) Name() string {
	return "retention-sweeper"
}

func (s *RetentionSweeper) Schedule() string {
	return "@every 10m"
}

func (s *RetentionSweeper) Run() {
	ctx := context.Background()

	ids, err := s.store.ListVersionedDocumentIDs(ctx)
	if err != nil {
		logrus.Errorf("retention sweep: listing documents failed: %v", err)
		return
	}

	for _, id := range ids {
		count, err := s.store.CountVersions(ctx, id)
		if err != nil {
			logrus.Errorf("retention sweep: counting versions of %s failed: %v", id, err)
			continue
		}
		if count <= int64(s.cap) {
			continue
		}

		over := int(count) - s.cap
		if err := s.store.DeleteOldestVersions(ctx, id, over); err != nil {
			logrus.Errorf("retention sweep: pruning %s failed: %v", id, err)
			continue
		}
		logrus.Infof("retention sweep: pruned %d versions of %s", over, id)
	}
}
