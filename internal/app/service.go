// Package service wires the diagram core to its stores, the redraw worker and
// the live hub, and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/skillwheel/internal/adapters/http/live"
	"github.com/okian/skillwheel/internal/adapters/mq/queue"
	"github.com/okian/skillwheel/internal/adapters/mq/worker"
	"github.com/okian/skillwheel/internal/adapters/render"
	"github.com/okian/skillwheel/internal/adapters/repository"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/pkg/logger"
	"github.com/okian/skillwheel/pkg/metrics"
)

const (
	defaultQueueSize   = 1024
	defaultMaxSessions = 10_000
	defaultDebounce    = time.Second
	stopTimeout        = 5 * time.Second
)

// DatasetView is the dataset being served together with its version.
type DatasetView struct {
	Version     uint64        `json:"version"`
	Source      string        `json:"source"`
	LoadedAt    time.Time     `json:"loadedAt"`
	Competences model.Dataset `json:"competences"`
}

// SessionView is a session with its resolved selection and current plan.
type SessionView struct {
	ID        string              `json:"id"`
	Selection selection.Selection `json:"selection"`
	Plan      plan.Plan           `json:"plan"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// Service serves chord diagrams for one dataset and many viewers.
type Service struct {
	mu sync.RWMutex

	// Core components
	datasets *repository.DatasetStore
	sessions *repository.SessionStore
	queue    *queue.InMemoryQueue
	redrawer *worker.Redrawer
	hub      *live.Hub
	builder  *plan.Builder

	// Configuration
	datasetPath string
	dataset     model.Dataset
	watch       bool
	debounce    time.Duration
	planOpts    []plan.Option
	svgOpts     []render.Option
	queueSize   int
	maxSessions int

	// State
	started bool
	cancel  context.CancelFunc
	bg      sync.WaitGroup

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		debounce:    defaultDebounce,
		queueSize:   defaultQueueSize,
		maxSessions: defaultMaxSessions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset and starts the redraw worker and, when enabled, the
// dataset watcher. Starting a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting skillwheel service...")

	ds, source, err := s.initialDataset()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	s.builder = plan.NewBuilder(s.planOpts...)
	s.datasets = repository.NewDatasetStore(ds, source)
	s.sessions = repository.NewSessionStore(repository.WithMaxSessions(s.maxSessions))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.hub = live.NewHub()
	s.redrawer = worker.NewRedrawer(s.queue, s.datasets, s.sessions, s.builder, s.hub,
		worker.WithLogger(s.logger.Named("redrawer")))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.redrawer.Run(runCtx)

	if s.watch && s.datasetPath != "" {
		w := repository.NewWatcher(s.datasetPath, s.onReload,
			repository.WithDebounce(s.debounce),
			repository.WithWatcherLogger(s.logger.Named("dataset-watcher")))
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error(runCtx, "dataset watcher stopped", logger.Error(err))
				metrics.RecordErrorByComponent("service", "watcher")
			}
		}()
	}

	s.started = true
	snap := s.datasets.Current()
	s.logger.Info(ctx, "skillwheel service started",
		logger.String("source", snap.Source),
		logger.Int("competences", len(snap.Dataset)),
		logger.Int("skills", len(snap.Index.Skills())),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxSessions", s.maxSessions),
		logger.Bool("watch", s.watch && s.datasetPath != ""),
	)
	return nil
}

func (s *Service) initialDataset() (model.Dataset, string, error) {
	switch {
	case s.datasetPath != "":
		ds, err := repository.LoadFile(s.datasetPath)
		return ds, s.datasetPath, err
	case s.dataset != nil:
		return s.dataset, "inline", nil
	default:
		return repository.Sample(), repository.SampleSource, nil
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping skillwheel service...")

	if err := s.redrawer.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "redrawer did not stop cleanly", logger.Error(err))
	}
	_ = s.queue.Close()
	s.cancel()
	s.bg.Wait()

	s.started = false
	s.logger.Info(ctx, "skillwheel service stopped")
}

// snapshot returns the current dataset snapshot.
func (s *Service) snapshot() (*repository.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.datasets.Current(), nil
}

// Dataset returns the dataset being served.
func (s *Service) Dataset(_ context.Context) (DatasetView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return DatasetView{}, err
	}
	return viewOf(snap), nil
}

// UniqueSkills returns the skill ring in first-seen order.
func (s *Service) UniqueSkills(_ context.Context) ([]model.Skill, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Index.Skills(), nil
}

// SelectionFor builds a selection from a skill or competence name. Both empty
// is Idle; both set is ErrAmbiguousSelection; a name not in the dataset wraps
// selection.ErrUnknownNode. A non-nil index pins the competence's ring position.
func (s *Service) SelectionFor(_ context.Context, skill, competence string, index *int) (selection.Selection, error) {
	if skill != "" && competence != "" {
		return selection.Idle(), ErrAmbiguousSelection
	}
	snap, err := s.snapshot()
	if err != nil {
		return selection.Idle(), err
	}
	switch {
	case skill != "":
		return selection.Idle().Click(snap.Index, model.RingSkill, skill)
	case competence != "":
		return selection.Idle().Select(snap.Index, selection.Target{Ring: model.RingCompetence, Name: competence, Index: index})
	default:
		return selection.Idle(), nil
	}
}

// Connections lists the counterparts of sel in the current dataset.
func (s *Service) Connections(_ context.Context, sel selection.Selection) ([]selection.Connection, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Index.Connections(sel), nil
}

// Render builds a plan for sel without touching any session.
func (s *Service) Render(_ context.Context, sel selection.Selection) (plan.Plan, error) {
	snap, err := s.snapshot()
	if err != nil {
		return plan.Plan{}, err
	}
	metrics.RecordRender("json")
	return s.builder.BuildIndexed(snap.Index, sel), nil
}

// RenderSVG renders sel as an SVG document. A non-nil link wraps every node
// in an anchor.
func (s *Service) RenderSVG(ctx context.Context, sel selection.Selection, link render.LinkFunc) ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	opts := s.svgOpts
	if link != nil {
		opts = append(append([]render.Option(nil), s.svgOpts...), render.WithLinks(link))
	}
	svg := render.NewSVG(opts...)
	s.builder.BuildIndexed(snap.Index, sel).Paint(svg)
	metrics.RecordRender("svg")
	s.logger.Debug(ctx, "svg rendered", logger.String("selection", sel.String()))
	return svg.Bytes(), nil
}

// CreateSession starts a new viewer session with nothing selected.
func (s *Service) CreateSession(ctx context.Context) (SessionView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return SessionView{}, err
	}
	sess := s.sessions.Create(ctx)
	s.logger.Debug(ctx, "session created", logger.String("session", sess.ID))
	return s.sessionView(snap, sess), nil
}

// Session returns a session's resolved selection and plan.
func (s *Service) Session(ctx context.Context, id string) (SessionView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return SessionView{}, err
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return s.sessionView(snap, sess), nil
}

// SessionPlan returns the current plan of a session.
func (s *Service) SessionPlan(ctx context.Context, id string) (plan.Plan, error) {
	v, err := s.Session(ctx, id)
	if err != nil {
		return plan.Plan{}, err
	}
	return v.Plan, nil
}

// Click queues a node click for a session. The ring, session and node are
// checked against the current dataset before queueing; the selection itself
// changes when the redraw worker applies the trigger.
func (s *Service) Click(ctx context.Context, id string, target selection.Target) error {
	ring := target.Ring
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if !ring.Valid() {
		metrics.RecordClick("unknown", "invalid")
		return fmt.Errorf("%w: %q", selection.ErrUnknownRing, ring)
	}
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return err
	}
	if _, err := selection.Idle().Select(snap.Index, target); err != nil {
		metrics.RecordClick(string(ring), "invalid")
		return err
	}

	t := model.Trigger{Kind: model.TriggerClick, SessionID: id, Ring: ring, Name: target.Name, Index: target.Index, At: time.Now()}
	if err := s.queue.TryEnqueue(ctx, t); err != nil {
		metrics.RecordClick(string(ring), "rejected")
		if errors.Is(err, queue.ErrFull) {
			return fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return err
	}
	metrics.RecordClick(string(ring), "queued")
	return nil
}

// Subscribe streams a session's plans as the redraw worker produces them.
func (s *Service) Subscribe(ctx context.Context, id string) (*live.Subscription, error) {
	if _, err := s.snapshot(); err != nil {
		return nil, err
	}
	if _, err := s.sessions.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(id), nil
}

// Hub returns the live hub. It is nil before Start.
func (s *Service) Hub() *live.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// ReloadDataset re-reads the configured dataset file and publishes it.
func (s *Service) ReloadDataset(ctx context.Context) (DatasetView, error) {
	if _, err := s.snapshot(); err != nil {
		return DatasetView{}, err
	}
	if s.datasetPath == "" {
		return DatasetView{}, ErrNoDatasetPath
	}
	ds, err := repository.LoadFile(s.datasetPath)
	if err != nil {
		metrics.RecordDatasetReload("error")
		return DatasetView{}, err
	}
	return viewOf(s.apply(ctx, ds, s.datasetPath)), nil
}

func (s *Service) onReload(ctx context.Context, ds model.Dataset) {
	s.apply(ctx, ds, s.datasetPath)
}

// apply publishes ds and asks the redraw worker to refresh every viewer.
func (s *Service) apply(ctx context.Context, ds model.Dataset, source string) *repository.Snapshot {
	snap := s.datasets.Replace(ds, source)
	metrics.RecordDatasetReload("ok")
	s.logger.Info(ctx, "dataset published",
		logger.String("source", source),
		logger.Int("version", int(snap.Version)),
		logger.Int("competences", len(snap.Dataset)))

	t := model.Trigger{Kind: model.TriggerReload, At: time.Now()}
	if err := s.queue.TryEnqueue(ctx, t); err != nil {
		// Sessions still resolve against the new dataset on their next read.
		s.logger.Warn(ctx, "reload redraw not queued", logger.Error(err))
	}
	return snap
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"queueSize":   s.queueSize,
		"maxSessions": s.maxSessions,
		"watch":       s.watch && s.datasetPath != "",
	}

	if s.started {
		snap := s.datasets.Current()
		queueLen := s.queue.Len(ctx)
		sessions := s.sessions.Count(ctx)

		stats["queueLength"] = queueLen
		stats["sessions"] = sessions
		stats["liveConnections"] = s.hub.Connections()
		stats["datasetVersion"] = snap.Version
		stats["datasetSource"] = snap.Source
		stats["competences"] = len(snap.Dataset)
		stats["skills"] = len(snap.Index.Skills())

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateActiveSessions(sessions)
	}

	return stats
}

func (s *Service) sessionView(snap *repository.Snapshot, sess repository.Session) SessionView { //nolint:gocritic // hugeParam: sessions are values
	p := s.builder.BuildIndexed(snap.Index, sess.Selection)
	return SessionView{
		ID:        sess.ID,
		Selection: p.Selection,
		Plan:      p,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func viewOf(snap *repository.Snapshot) DatasetView {
	return DatasetView{
		Version:     snap.Version,
		Source:      snap.Source,
		LoadedAt:    snap.LoadedAt,
		Competences: snap.Dataset,
	}
}
