package model

import "time"

// TriggerKind names what caused a redraw.
type TriggerKind string

// Trigger kinds.
const (
	TriggerClick  TriggerKind = "click"
	TriggerReload TriggerKind = "reload"
)

// Trigger is a single redraw request flowing through the redraw queue.
type Trigger struct {
	Kind      TriggerKind
	SessionID string   // set for clicks
	Ring      RingKind // ring of the clicked node
	Name      string   // clicked skill or competence name
	Index     *int     // ring position of the clicked node, when known
	At        time.Time
}
