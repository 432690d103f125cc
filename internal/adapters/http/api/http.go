// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/skillwheel/internal/adapters/http/live"
	"github.com/okian/skillwheel/internal/adapters/render"
	service "github.com/okian/skillwheel/internal/app"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	StatsProvider

	// Read operations over the current dataset.
	Dataset(ctx context.Context) (service.DatasetView, error)
	UniqueSkills(ctx context.Context) ([]model.Skill, error)
	SelectionFor(ctx context.Context, skill, competence string, index *int) (selection.Selection, error)
	Connections(ctx context.Context, sel selection.Selection) ([]selection.Connection, error)
	Render(ctx context.Context, sel selection.Selection) (plan.Plan, error)
	RenderSVG(ctx context.Context, sel selection.Selection, link render.LinkFunc) ([]byte, error)
	ReloadDataset(ctx context.Context) (service.DatasetView, error)

	// Sessions.
	CreateSession(ctx context.Context) (service.SessionView, error)
	Session(ctx context.Context, id string) (service.SessionView, error)
	SessionPlan(ctx context.Context, id string) (plan.Plan, error)
	Click(ctx context.Context, id string, target selection.Target) error
	Hub() *live.Hub
}

// Server wires HTTP routes for the diagram API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	diagramHandler  *DiagramHandler
	sessionsHandler *SessionsHandler
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	live   []live.Option
	logger logger.Logger
}

// WithClickRate limits clicks per live connection.
func WithClickRate(perSecond float64, burst int) Option {
	return func(o *serverOptions) {
		o.live = append(o.live, live.WithClickRate(perSecond, burst))
	}
}

// WithLogger sets the logger used by the handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers. deps must be started
// so its live hub exists.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := serverOptions{logger: logger.Get().Named("api")}
	for _, opt := range opts {
		opt(&o)
	}
	liveOpts := append([]live.Option{
		live.WithErrorCodes(ErrorCode),
		live.WithLogger(o.logger.Named("live")),
	}, o.live...)

	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		diagramHandler:  NewDiagramHandler(deps, o.logger),
		sessionsHandler: NewSessionsHandler(deps, live.NewHandler(deps.Hub(), deps, liveOpts...), o.logger),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/dataset", MetricsMiddleware(s.diagramHandler.HandleDataset, "dataset"))
	mux.HandleFunc("POST /api/dataset/reload", MetricsMiddleware(s.diagramHandler.HandleReload, "dataset_reload"))
	mux.HandleFunc("GET /api/skills", MetricsMiddleware(s.diagramHandler.HandleSkills, "skills"))
	mux.HandleFunc("GET /api/connections", MetricsMiddleware(s.diagramHandler.HandleConnections, "connections"))
	mux.HandleFunc("GET /api/plan", MetricsMiddleware(s.diagramHandler.HandlePlan, "plan"))
	mux.HandleFunc("GET /api/diagram.svg", MetricsMiddleware(s.diagramHandler.HandleSVG, "diagram_svg"))

	mux.HandleFunc("POST /api/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions_create"))
	mux.HandleFunc("GET /api/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "sessions_get"))
	mux.HandleFunc("POST /api/sessions/{id}/clicks", MetricsMiddleware(s.sessionsHandler.HandleClick, "sessions_click"))
	// No metrics wrapper: the upgrade needs the raw writer's Hijacker.
	mux.HandleFunc("GET /api/sessions/{id}/live", s.sessionsHandler.HandleLive)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes the matching error response.
func writeFailure(ctx context.Context, w http.ResponseWriter, l logger.Logger, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		l.Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}
