// Package deck keeps the exam filter dropdowns and the exam card deck in step
// with the server.
package deck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Its-donkey/examdeck/internal/ui/dom"
	"github.com/Its-donkey/examdeck/internal/ui/model"
	"github.com/Its-donkey/examdeck/internal/ui/state"
	"github.com/Its-donkey/examdeck/logging"
)

// ErrSuperseded is returned when a response arrives after a newer request of the
// same kind was issued. The response is dropped.
var ErrSuperseded = errors.New("deck: response superseded by a newer request")

// ErrNotStarted is returned by refreshes issued before Start resolved the page.
var ErrNotStarted = errors.New("deck: controller not started")

// API is the server side of the filter page.
type API interface {
	UpdateFilters(ctx context.Context, sel model.Selection) (model.FilterOptions, error)
	GetExams(ctx context.Context, sel model.Selection) ([]model.Exam, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithDispatcher sets how event handlers run their refresh. Browser callbacks must
// not block, so the default starts a goroutine.
func WithDispatcher(dispatch func(func())) Option {
	return func(c *Controller) {
		if dispatch != nil {
			c.dispatch = dispatch
		}
	}
}

// WithRequestTimeout bounds each refresh. Zero means no extra bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// Controller owns the page elements and the request sequences.
type Controller struct {
	doc      dom.Document
	api      API
	logger   *logging.Logger
	dispatch func(func())
	timeout  time.Duration

	// mu serialises DOM writes and guards els, started and releases.
	mu       sync.Mutex
	els      dom.Elements
	started  bool
	releases []func()

	filterSeq state.Sequence
	examSeq   state.Sequence
	exams     *state.ExamCache
}

// New creates a controller. Call Start to bind it to the page.
func New(doc dom.Document, api API, opts ...Option) *Controller {
	c := &Controller{
		doc:      doc,
		api:      api,
		dispatch: func(fn func()) { go fn() },
		exams:    state.NewExamCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start resolves the page elements, wires the change and click handlers and
// dispatches the initial filter sync. ctx bounds every refresh the handlers issue.
func (c *Controller) Start(ctx context.Context) error {
	els, err := dom.Resolve(c.doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("deck: controller already started")
	}
	c.els = els
	c.started = true
	for _, sel := range els.Selects() {
		c.releases = append(c.releases, sel.OnChange(func() {
			c.dispatch(func() { _ = c.RefreshExams(ctx) })
		}))
	}
	c.releases = append(c.releases, els.UpdateButton.OnClick(func() {
		c.dispatch(func() {
			_ = c.RefreshFilters(ctx)
			_ = c.RefreshExams(ctx)
		})
	}))
	c.mu.Unlock()

	c.logger.Info("deck", "controller started", nil)
	c.dispatch(func() { _ = c.RefreshFilters(ctx) })
	return nil
}

// Close unregisters every handler Start installed.
func (c *Controller) Close() {
	c.mu.Lock()
	releases := c.releases
	c.releases = nil
	c.mu.Unlock()
	for _, release := range releases {
		release()
	}
}

// ReadSelection returns the current dropdown values.
func (c *Controller) ReadSelection() model.Selection {
	c.mu.Lock()
	els, started := c.els, c.started
	c.mu.Unlock()
	if !started {
		return model.Selection{}
	}
	sel := ReadSelection(els)
	c.logger.Debug("selection", "read selection", map[string]any{
		"examBoard": sel.ExamBoard,
		"level":     sel.Level,
		"subject":   sel.Subject,
	})
	return sel
}

// Exams returns the exams most recently rendered.
func (c *Controller) Exams() []model.Exam {
	return c.exams.Snapshot()
}

// RefreshFilters posts the selection to update-filters and merges the answer into
// the dropdowns. Responses to older calls are dropped with ErrSuperseded.
func (c *Controller) RefreshFilters(ctx context.Context) error {
	if !c.isStarted() {
		return ErrNotStarted
	}
	seq := c.filterSeq.Next()
	sel := c.ReadSelection()

	ctx, cancel := c.bound(ctx)
	defer cancel()
	opts, err := c.api.UpdateFilters(ctx, sel)
	if err != nil {
		c.logger.Error("filters", "filter sync failed", err, map[string]any{"seq": seq})
		return fmt.Errorf("refresh filters: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.filterSeq.IsLatest(seq) {
		c.logger.Debug("filters", "dropped stale filter response", map[string]any{"seq": seq, "latest": c.filterSeq.Last()})
		return ErrSuperseded
	}
	added := MergeFilterOptions(c.els, opts)
	c.logger.Debug("filters", "filters merged", map[string]any{
		"seq":        seq,
		"examBoards": added.ExamBoards,
		"levels":     added.Levels,
		"subjects":   added.Subjects,
	})
	return nil
}

// RefreshExams posts the selection to get-exams and replaces the card deck with
// the answer. Responses to older calls are dropped with ErrSuperseded.
func (c *Controller) RefreshExams(ctx context.Context) error {
	if !c.isStarted() {
		return ErrNotStarted
	}
	seq := c.examSeq.Next()
	sel := c.ReadSelection()

	ctx, cancel := c.bound(ctx)
	defer cancel()
	exams, err := c.api.GetExams(ctx, sel)
	if err != nil {
		c.logger.Error("exams", "exam sync failed", err, map[string]any{"seq": seq})
		return fmt.Errorf("refresh exams: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.examSeq.IsLatest(seq) {
		c.logger.Debug("exams", "dropped stale exam response", map[string]any{"seq": seq, "latest": c.examSeq.Last()})
		return ErrSuperseded
	}
	RenderExams(c.els.CardDeck, exams)
	c.exams.Update(exams)
	c.logger.Debug("exams", "card deck rendered", map[string]any{"seq": seq, "cards": len(exams)})
	return nil
}

func (c *Controller) isStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

func (c *Controller) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}
