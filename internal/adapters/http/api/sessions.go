package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/skillwheel/internal/adapters/http/live"
	"github.com/okian/skillwheel/internal/domain/model"
	"github.com/okian/skillwheel/internal/domain/selection"
	"github.com/okian/skillwheel/pkg/logger"
)

// maxClickBody bounds click request bodies.
const maxClickBody = 4 << 10

// SessionsHandler serves viewer sessions.
type SessionsHandler struct {
	deps   Dependencies
	live   *live.Handler
	logger logger.Logger
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies, lh *live.Handler, l logger.Logger) *SessionsHandler {
	return &SessionsHandler{deps: deps, live: lh, logger: l}
}

// clickRequest mirrors the OpenAPI schema for POST /api/sessions/{id}/clicks.
type clickRequest struct {
	Ring  model.RingKind `json:"ring"`
	Name  string         `json:"name"`
	Index *int           `json:"index,omitempty"`
}

func (c clickRequest) validate() error {
	switch {
	case !c.Ring.Valid():
		return NewKind("click: ring must be skill or competence", ErrBadRequest)
	case strings.TrimSpace(c.Name) == "":
		return NewKind("click: missing name", ErrBadRequest)
	case c.Index != nil && *c.Index < 0:
		return NewKind("click: index must not be negative", ErrBadRequest)
	}
	return nil
}

func (c clickRequest) target() selection.Target {
	return selection.Target{Ring: c.Ring, Name: c.Name, Index: c.Index}
}

type createdResponse struct {
	ID string `json:"id"`
}

type ackResponse struct {
	Status string `json:"status"`
}

// HandleCreate handles POST /api/sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("create session", err))
		return
	}
	w.Header().Set("Location", "/api/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, createdResponse{ID: view.ID})
}

// HandleGet handles GET /api/sessions/{id} requests.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("session", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleClick handles POST /api/sessions/{id}/clicks requests. The click is
// queued; the new plan reaches live viewers once redrawn.
func (h *SessionsHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClickBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFailure(r.Context(), w, h.logger, WrapKind("click: invalid json", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(r.Context(), w, h.logger, err)
		return
	}
	if err := h.deps.Click(r.Context(), r.PathValue("id"), req.target()); err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("click", err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}

// HandleLive handles GET /api/sessions/{id}/live WebSocket upgrades.
func (h *SessionsHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.deps.Session(r.Context(), id); err != nil {
		writeFailure(r.Context(), w, h.logger, Wrap("live", err))
		return
	}
	h.live.Serve(w, r, id)
}
