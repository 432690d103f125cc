// Package live pushes freshly built plans to viewers over WebSocket and feeds
// their clicks back into the redraw queue.
package live

import (
	"sort"
	"sync"

	"github.com/okian/skillwheel/internal/domain/plan"
	"github.com/okian/skillwheel/pkg/metrics"
)

// Subscription receives the plans published for one session. Only the latest
// plan is kept: a slow viewer skips intermediate redraws.
type Subscription struct {
	session string
	ch      chan plan.Plan
	hub     *Hub
	once    sync.Once
}

// C returns the delivery channel.
func (s *Subscription) C() <-chan plan.Plan { return s.ch }

// Session returns the subscribed session id.
func (s *Subscription) Session() string { return s.session }

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}

// Hub fans plans out to the subscriptions of each session.
type Hub struct {
	mu    sync.Mutex
	subs  map[string]map[*Subscription]struct{}
	count int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a new subscription for session.
func (h *Hub) Subscribe(session string) *Subscription {
	s := &Subscription{session: session, ch: make(chan plan.Plan, 1), hub: h}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[session]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[session] = set
	}
	set[s] = struct{}{}
	h.count++
	metrics.UpdateLiveConnections(h.count)
	return s
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[s.session]
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.session)
	}
	h.count--
	metrics.UpdateLiveConnections(h.count)
}

// Publish delivers p to every subscription of session, replacing any plan
// not yet picked up. It returns the number of subscriptions reached.
func (h *Hub) Publish(session string, p plan.Plan) int { //nolint:gocritic // hugeParam: plans are values
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[session]
	for s := range set {
		select {
		case <-s.ch:
		default:
		}
		s.ch <- p
		metrics.RecordLivePush()
	}
	return len(set)
}

// Sessions returns the ids with at least one subscription, sorted.
func (h *Hub) Sessions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.subs))
	for id := range h.subs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Connections returns the number of open subscriptions.
func (h *Hub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.count
}
