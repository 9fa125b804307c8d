package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/erlandv/writenex/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	// LabelManualSave marks snapshots taken by an explicit save action.
	LabelManualSave = "Manual Save"
	// LabelBeforeClear marks safety snapshots taken right before a
	// destructive clear.
	LabelBeforeClear = "Before Clear"
)

// ErrNoActiveDocument is returned when a snapshot is requested before any
// document has been opened.
var ErrNoActiveDocument = errors.New("no active document")

// Options tunes the coordinator's two timers. Zero values select the
// product defaults.
type Options struct {
	// Debounce is the quiet period after the last edit before content is
	// written to the repository.
	Debounce time.Duration
	// IdleAfter is how long the user must be idle before an automatic
	// snapshot becomes due.
	IdleAfter time.Duration
	// MinGap is the minimum spacing between automatic snapshots of the
	// same document.
	MinGap time.Duration
	// Probe is how often the idle checker wakes up.
	Probe time.Duration
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = 3 * time.Second
	}
	if o.IdleAfter <= 0 {
		o.IdleAfter = 30 * time.Second
	}
	if o.MinGap <= 0 {
		o.MinGap = 5 * time.Minute
	}
	if o.Probe <= 0 {
		o.Probe = 5 * time.Second
	}
	return o
}

// NewCoordinator creates a coordinator and starts its idle checker.
func NewCoordinator(docs *service.DocumentService, versions *service.VersionService, opts Options) *Coordinator {
	c := &Coordinator{
		docs:     docs,
		versions: versions,
		sched:    NewScheduler(),
		opts:     opts.withDefaults(),
		pending:  make(map[string]string),
		done:     make(chan struct{}),
	}
	go c.idleLoop()
	return c
}

// Coordinator decouples continuous content autosave from discrete version
// snapshotting for the active document session. Content writes are
// debounced and retried on the next cycle when they fail; snapshot
// failures are logged and never gate editing.
type Coordinator struct {
	docs     *service.DocumentService
	versions *service.VersionService
	sched    *Scheduler
	opts     Options

	mu       sync.Mutex
	docID    string
	content  string
	edited   bool // edits since the last snapshot of this session
	lastEdit time.Time
	pending  map[string]string // unsaved content per document

	done    chan struct{}
	closing sync.Once
}

// OpenDocument makes a document the active session. Any previous session
// is flushed first: its pending content write runs synchronously and, if
// it was edited since its last snapshot, a flush-on-switch snapshot is
// taken. Losing the last few seconds of edits on switch is not accepted.
func (c *Coordinator) OpenDocument(ctx context.Context, id string) error {
	c.flushSession(ctx)

	doc, err := c.docs.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.docID = doc.ID
	c.content = doc.Content
	if unsaved, ok := c.pending[doc.ID]; ok {
		// a failed autosave from an earlier session of this document
		// still holds newer content than the store
		c.content = unsaved
	}
	c.edited = false
	c.lastEdit = time.Time{}
	return nil
}

// OnEdit records the current editor content and (re)starts the autosave
// debounce. It never blocks on storage.
func (c *Coordinator) OnEdit(content string) {
	c.mu.Lock()
	if c.docID == "" {
		c.mu.Unlock()
		return
	}
	docID := c.docID
	c.content = content
	c.pending[docID] = content
	c.edited = true
	c.lastEdit = time.Now()
	c.mu.Unlock()

	c.scheduleAutosave(docID)
}

// Flush writes the active session's pending content synchronously.
func (c *Coordinator) Flush(ctx context.Context) error {
	c.mu.Lock()
	docID := c.docID
	c.mu.Unlock()
	if docID == "" {
		return nil
	}

	c.sched.Cancel(autosaveKey(docID))
	return c.saveContent(ctx, docID)
}

// Snapshot flushes pending content and records a version with the given
// label. An empty label marks an automatic snapshot.
func (c *Coordinator) Snapshot(ctx context.Context, label string) (uint, error) {
	c.mu.Lock()
	docID := c.docID
	c.mu.Unlock()
	if docID == "" {
		return 0, ErrNoActiveDocument
	}

	if err := c.Flush(ctx); err != nil {
		// content will be retried by the debounce cycle; the snapshot
		// still captures the in-memory content
		logrus.Warnf("content flush before snapshot failed: %v", err)
	}

	c.mu.Lock()
	content := c.content
	c.mu.Unlock()

	id, err := c.versions.SaveVersion(ctx, docID, content, label)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if c.docID == docID {
		c.edited = false
	}
	c.mu.Unlock()
	return id, nil
}

// ManualSave records an explicitly requested snapshot.
func (c *Coordinator) ManualSave(ctx context.Context) (uint, error) {
	return c.Snapshot(ctx, LabelManualSave)
}

// PrepareClear records a safety snapshot immediately before the caller
// clears the editor content.
func (c *Coordinator) PrepareClear(ctx context.Context) (uint, error) {
	return c.Snapshot(ctx, LabelBeforeClear)
}

// ClearHistory wipes the active document's version list and then records
// one labeled safety snapshot of the current content, so the history is
// never left entirely empty of a recovery point.
func (c *Coordinator) ClearHistory(ctx context.Context) error {
	c.mu.Lock()
	docID := c.docID
	c.mu.Unlock()
	if docID == "" {
		return ErrNoActiveDocument
	}

	if err := c.versions.ClearAllVersions(ctx, docID); err != nil {
		return err
	}
	_, err := c.Snapshot(ctx, LabelBeforeClear)
	return err
}

// Close stops the idle checker and flushes the active session.
func (c *Coordinator) Close(ctx context.Context) error {
	c.closing.Do(func() {
		close(c.done)
	})

	c.flushSession(ctx)
	c.sched.Stop()
	return nil
}

func (c *Coordinator) flushSession(ctx context.Context) {
	c.mu.Lock()
	docID := c.docID
	content := c.content
	edited := c.edited
	c.mu.Unlock()
	if docID == "" {
		return
	}

	c.sched.Cancel(autosaveKey(docID))
	if err := c.saveContent(ctx, docID); err != nil {
		logrus.Warnf("flush of %s failed: %v", docID, err)
	}

	if edited {
		if _, err := c.versions.SaveVersion(ctx, docID, content, ""); err != nil {
			logrus.Warnf("flush-on-switch snapshot for %s failed: %v", docID, err)
		}
	}
}

func (c *Coordinator) scheduleAutosave(docID string) {
	c.sched.ScheduleDebounced(autosaveKey(docID), c.opts.Debounce, func() {
		_ = c.saveContent(context.Background(), docID)
	})
}

func (c *Coordinator) saveContent(ctx context.Context, docID string) error {
	c.mu.Lock()
	content, ok := c.pending[docID]
	c.mu.Unlock()
	if !ok {
		return nil
	}

	err := c.docs.UpdateDocument(ctx, docID, service.DocumentUpdate{Content: &content})
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			// document was deleted underneath the session, nothing left
			// to save into
			c.mu.Lock()
			delete(c.pending, docID)
			c.mu.Unlock()
			return err
		}
		logrus.Warnf("autosave for %s failed, retrying on next cycle: %v", docID, err)
		c.scheduleAutosave(docID)
		return err
	}

	c.mu.Lock()
	if c.pending[docID] == content {
		delete(c.pending, docID)
	}
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) idleLoop() {
	ticker := time.NewTicker(c.opts.Probe)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.maybeSnapshot(context.Background())
		}
	}
}

// maybeSnapshot takes an automatic snapshot once the user has been idle
// for IdleAfter and at least MinGap has passed since the document's last
// snapshot of any label.
func (c *Coordinator) maybeSnapshot(ctx context.Context) {
	c.mu.Lock()
	docID := c.docID
	content := c.content
	edited := c.edited
	lastEdit := c.lastEdit
	c.mu.Unlock()

	if docID == "" || !edited {
		return
	}
	if time.Since(lastEdit) < c.opts.IdleAfter {
		return
	}

	last, err := c.versions.GetLastVersionTimestamp(ctx, docID)
	if err != nil {
		logrus.Warnf("idle snapshot check for %s failed: %v", docID, err)
		return
	}
	if last != nil && time.Since(*last) < c.opts.MinGap {
		return
	}

	if _, err := c.versions.SaveVersion(ctx, docID, content, ""); err != nil {
		logrus.Warnf("idle snapshot for %s failed: %v", docID, err)
		return
	}

	c.mu.Lock()
	if c.docID == docID {
		c.edited = false
	}
	c.mu.Unlock()
}

func autosaveKey(docID string) string {
	return "autosave:" + docID
}
