// Package worker runs the redraw loop: one goroutine takes triggers off the
// queue in order, applies them and publishes the resulting plans. Redraws
// never overlap.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/skillwheel/internal/adapters/mq/queue"
	"github.com/okian/skillwheel/internal/adapters/repository"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/internal/domain/types"
	"github.com/okian/skillwheel/pkg/logger"
	"github.com/okian/skillwheel/pkg/metrics"
)

// Queue defines how the worker receives triggers.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Trigger
}

// Datasets serves the current dataset snapshot.
type Datasets interface {
	Current() *repository.Snapshot
}

// Sessions holds viewer selections.
type Sessions interface {
	Get(ctx context.Context, id string) (repository.Session, error)
	Update(ctx context.Context, id string, fn func(selection.Selection) (selection.Selection, error)) (repository.Session, error)
	UpdateAll(ctx context.Context, fn func(selection.Selection) selection.Selection) []repository.Session
}

// Publisher delivers plans to live viewers.
type Publisher interface {
	Publish(sessionID string, p plan.Plan) int
	Sessions() []string
}

// Worker processes redraw triggers.
type Worker interface {
	// Run starts the loop until ctx is cancelled, Shutdown is called or the
	// queue is closed.
	Run(ctx context.Context)

	// Shutdown stops the loop and waits for it to exit.
	Shutdown(ctx context.Context) error
}

// Redrawer is the single redraw worker.
type Redrawer struct {
	queue     Queue
	datasets  Datasets
	sessions  Sessions
	builder   *plan.Builder
	publisher Publisher
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewRedrawer creates the redraw worker.
func NewRedrawer(q Queue, datasets Datasets, sessions Sessions, builder *plan.Builder, publisher Publisher, opts ...Option) *Redrawer {
	w := &Redrawer{
		queue:     q,
		datasets:  datasets,
		sessions:  sessions,
		builder:   builder,
		publisher: publisher,
		name:      "redrawer",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("redrawer"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "redrawer" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run consumes triggers one at a time.
func (w *Redrawer) Run(ctx context.Context) {
	defer close(w.done)

	triggers := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case t, ok := <-triggers:
			if !ok {
				return
			}
			if err := w.process(ctx, t); err != nil {
				w.logger.Warn(ctx, "trigger not applied",
					logger.String("kind", string(t.Kind)),
					logger.String("session", t.SessionID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the loop and waits for the current redraw to finish.
func (w *Redrawer) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *Redrawer) Done() <-chan struct{} { return w.done }

func (w *Redrawer) process(ctx context.Context, t queue.Trigger) error { //nolint:gocritic // hugeParam: triggers are values
	switch t.Kind {
	case model.TriggerClick:
		return w.click(ctx, t)
	case model.TriggerReload:
		w.reload(ctx)
		return nil
	default:
		metrics.RecordErrorByComponent("worker", "unknown_trigger")
		return fmt.Errorf("unknown trigger kind %q", t.Kind)
	}
}

func (w *Redrawer) click(ctx context.Context, t queue.Trigger) error { //nolint:gocritic // hugeParam: triggers are values
	snap := w.datasets.Current()
	sess, err := w.sessions.Update(ctx, t.SessionID, func(sel selection.Selection) (selection.Selection, error) {
		return sel.Select(snap.Index, selection.Target{Ring: t.Ring, Name: t.Name, Index: t.Index})
	})
	if err != nil {
		metrics.RecordClick(string(t.Ring), "rejected")
		metrics.RecordErrorByComponent("worker", "click")
		return fmt.Errorf("apply click: %w", err)
	}
	metrics.RecordClick(string(t.Ring), "applied")
	w.redraw(ctx, snap, sess, model.TriggerClick)
	return nil
}

// reload re-resolves every session against the new dataset, then pushes a
// fresh plan to every live viewer since all of their layouts moved.
func (w *Redrawer) reload(ctx context.Context) {
	snap := w.datasets.Current()
	changed := w.sessions.UpdateAll(ctx, snap.Index.Resolve)
	if len(changed) > 0 {
		w.logger.Info(ctx, "stale selections cleared",
			logger.Int("sessions", len(changed)),
			logger.Int("version", int(snap.Version)))
	}
	for _, id := range w.publisher.Sessions() {
		sess, err := w.sessions.Get(ctx, id)
		if err != nil {
			continue
		}
		w.redraw(ctx, snap, sess, model.TriggerReload)
	}
}

func (w *Redrawer) redraw(ctx context.Context, snap *repository.Snapshot, sess repository.Session, trigger model.TriggerKind) {
	start := time.Now()
	p := w.builder.BuildIndexed(snap.Index, sess.Selection)
	metrics.RecordRedraw(string(trigger), float64(time.Since(start).Microseconds())/1000)
	metrics.RecordCurves(string(types.CurveMesh), len(p.Curves(types.CurveMesh)))
	metrics.RecordCurves(string(types.CurveHighlight), len(p.Curves(types.CurveHighlight)))

	viewers := w.publisher.Publish(sess.ID, p)
	w.logger.Debug(ctx, "redraw published",
		logger.String("session", sess.ID),
		logger.String("selection", p.Selection.String()),
		logger.Int("viewers", viewers))
}
