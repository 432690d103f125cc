package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/internal/domain/types"
	"github.com/okian/skillwheel/pkg/logger"
)

const svgPath = "/api/diagram.svg"

// DiagramHandler serves the stateless diagram endpoints.
type DiagramHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewDiagramHandler creates a new diagram handler.
func NewDiagramHandler(deps Dependencies, l logger.Logger) *DiagramHandler {
	return &DiagramHandler{deps: deps, logger: l}
}

type skillsResponse struct {
	Count  int           `json:"count"`
	Skills []model.Skill `json:"skills"`
}

type connectionsResponse struct {
	Selection   selection.Selection    `json:"selection"`
	Connections []selection.Connection `json:"connections"`
}

// HandleDataset handles GET /api/dataset requests.
func (h *DiagramHandler) HandleDataset(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Dataset(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("dataset", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleReload handles POST /api/dataset/reload requests.
func (h *DiagramHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.ReloadDataset(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("reload dataset", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSkills handles GET /api/skills requests.
func (h *DiagramHandler) HandleSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.deps.UniqueSkills(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("skills", err))
		return
	}
	writeJSON(w, http.StatusOK, skillsResponse{Count: len(skills), Skills: skills})
}

// HandleConnections handles GET /api/connections requests. A selection is
// required.
func (h *DiagramHandler) HandleConnections(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("connections", err))
		return
	}
	if sel.IsIdle() {
		writeFailure(r.Context(), w, h.logger, NewKind("connections: skill or competence required", ErrBadRequest))
		return
	}
	conns, err := h.deps.Connections(r.Context(), sel)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("connections", err))
		return
	}
	writeJSON(w, http.StatusOK, connectionsResponse{Selection: sel, Connections: conns})
}

// HandlePlan handles GET /api/plan requests. No selection renders Idle.
func (h *DiagramHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("plan", err))
		return
	}
	p, err := h.deps.Render(r.Context(), sel)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("plan", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleSVG handles GET /api/diagram.svg requests. Every node links back to
// this endpoint with itself selected.
func (h *DiagramHandler) HandleSVG(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selection(r)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("diagram", err))
		return
	}
	body, err := h.deps.RenderSVG(r.Context(), sel, NodeLink)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("diagram", err))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// selection reads ?skill= or ?competence=, the latter optionally pinned to a
// ring position with ?index=.
func (h *DiagramHandler) selection(r *http.Request) (selection.Selection, error) {
	q := r.URL.Query()
	var index *int
	if raw := q.Get("index"); raw != "" {
		i, err := strconv.Atoi(raw)
		if err != nil || i < 0 {
			return selection.Idle(), NewKind("index must be a non-negative integer", ErrBadRequest)
		}
		index = &i
	}
	return h.deps.SelectionFor(r.Context(), q.Get("skill"), q.Get("competence"), index)
}

// NodeLink builds the stateless link that selects n. Competence links carry
// the ring position so namesakes stay apart.
func NodeLink(n types.Node) string {
	q := url.Values{}
	q.Set(string(n.Ring), n.Label)
	if n.Ring == model.RingCompetence {
		q.Set("index", strconv.Itoa(n.Index))
	}
	return svgPath + "?" + q.Encode()
}
