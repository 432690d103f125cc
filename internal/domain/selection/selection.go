// Package selection holds the click-driven selection state and resolves which
// skills and competences are connected to the selected node.
package selection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/skillwheel/internal/domain/model"
)

// Sentinel errors.
var (
	ErrUnknownRing  = errors.New("unknown ring")
	ErrUnknownNode  = errors.New("unknown node")
	ErrUnknownState = errors.New("unknown selection state")
)

// State is the selection state machine's current state.
type State int

// Selection states.
const (
	StateIdle State = iota
	StateSkillSelected
	StateCompetenceSelected
)

func (s State) String() string {
	switch s {
	case StateSkillSelected:
		return "skill"
	case StateCompetenceSelected:
		return "competence"
	default:
		return "idle"
	}
}

// Selection is an immutable value holding at most one selected skill or
// competence. Every transition returns a new value; the zero value is Idle.
//
// A competence selection may be pinned to its ring position, which tells apart
// competences sharing a name. An unpinned one stands for the first equal
// competence of the dataset.
type Selection struct {
	state      State
	skill      model.Skill
	competence model.Competence
	pos        int
}

// Idle returns the empty selection.
func Idle() Selection { return Selection{} }

// OfSkill returns a selection of s.
func OfSkill(s model.Skill) Selection {
	return Selection{state: StateSkillSelected, skill: s}
}

// OfCompetence returns an unpinned selection of c.
func OfCompetence(c model.Competence) Selection {
	return OfCompetenceAt(c, -1)
}

// OfCompetenceAt returns a selection of c pinned to ring position i. A
// negative i leaves it unpinned.
func OfCompetenceAt(c model.Competence, i int) Selection {
	if i < 0 {
		i = -1
	}
	return Selection{state: StateCompetenceSelected, competence: c, pos: i}
}

// State returns the current state.
func (s Selection) State() State { return s.state }

// IsIdle reports whether nothing is selected.
func (s Selection) IsIdle() bool { return s.state == StateIdle }

// Skill returns the selected skill, if any.
func (s Selection) Skill() (model.Skill, bool) {
	return s.skill, s.state == StateSkillSelected
}

// Competence returns the selected competence, if any.
func (s Selection) Competence() (model.Competence, bool) {
	return s.competence, s.state == StateCompetenceSelected
}

// Position returns the ring position a competence selection is pinned to.
func (s Selection) Position() (int, bool) {
	return s.pos, s.state == StateCompetenceSelected && s.pos >= 0
}

// Clear drops any selection.
func (s Selection) Clear() Selection { return Idle() }

// SelectSkill clears the current selection and selects sk.
func (s Selection) SelectSkill(sk model.Skill) Selection {
	return OfSkill(sk)
}

// SelectCompetence clears the current selection and selects c.
func (s Selection) SelectCompetence(c model.Competence) Selection {
	return OfCompetence(c)
}

// Equal compares selections by value.
func (s Selection) Equal(o Selection) bool {
	if s.state != o.state {
		return false
	}
	switch s.state {
	case StateSkillSelected:
		return s.skill == o.skill
	case StateCompetenceSelected:
		return s.pos == o.pos && s.competence.Equal(o.competence)
	default:
		return true
	}
}

func (s Selection) String() string {
	switch s.state {
	case StateSkillSelected:
		return "skill:" + s.skill.Name
	case StateCompetenceSelected:
		return "competence:" + s.competence.Name
	default:
		return "idle"
	}
}

type selectionJSON struct {
	State      string            `json:"state"`
	Skill      *model.Skill      `json:"skill,omitempty"`
	Competence *model.Competence `json:"competence,omitempty"`
	Index      *int              `json:"index,omitempty"`
}

// MarshalJSON renders the selection as {"state": ..., "skill"|"competence": ...}.
func (s Selection) MarshalJSON() ([]byte, error) {
	out := selectionJSON{State: s.state.String()}
	switch s.state {
	case StateSkillSelected:
		sk := s.skill
		out.Skill = &sk
	case StateCompetenceSelected:
		c := s.competence
		out.Competence = &c
		if i, ok := s.Position(); ok {
			out.Index = &i
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the form written by MarshalJSON. A state without its
// entity decodes as Idle.
func (s *Selection) UnmarshalJSON(b []byte) error {
	var in selectionJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch {
	case in.State == StateSkillSelected.String() && in.Skill != nil:
		*s = OfSkill(*in.Skill)
	case in.State == StateCompetenceSelected.String() && in.Competence != nil:
		pos := -1
		if in.Index != nil {
			pos = *in.Index
		}
		*s = OfCompetenceAt(*in.Competence, pos)
	case in.State == StateIdle.String() || in.State == "":
		*s = Idle()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, in.State)
	}
	return nil
}

// Target names a clicked node. Index, when set, pins the ring position and
// must agree with Name; otherwise the first node called Name is meant.
type Target struct {
	Ring  model.RingKind `json:"ring"`
	Name  string         `json:"name"`
	Index *int           `json:"index,omitempty"`
}

// At returns a copy of t pinned to ring position i.
func (t Target) At(i int) Target {
	t.Index = &i
	return t
}

func (t Target) String() string {
	if t.Index != nil {
		return fmt.Sprintf("%s %q at %d", t.Ring, t.Name, *t.Index)
	}
	return fmt.Sprintf("%s %q", t.Ring, t.Name)
}

// Click applies a click on the first node called name. See Select.
func (s Selection) Click(idx *Index, ring model.RingKind, name string) (Selection, error) {
	return s.Select(idx, Target{Ring: ring, Name: name})
}

// Select applies a node click to s. The target must name a node of the current
// index; an unknown node leaves s untouched and errors. Competence selections
// come back pinned to the clicked position.
func (s Selection) Select(idx *Index, t Target) (Selection, error) {
	switch t.Ring {
	case model.RingSkill:
		i, ok := idx.SkillIndex(t.Name)
		if !ok || (t.Index != nil && *t.Index != i) {
			return s, fmt.Errorf("%w: %s", ErrUnknownNode, t)
		}
		return s.Clear().SelectSkill(model.Skill{Name: t.Name}), nil
	case model.RingCompetence:
		ds := idx.Dataset()
		i := ds.IndexByName(t.Name)
		if t.Index != nil {
			i = *t.Index
		}
		if i < 0 || i >= len(ds) || ds[i].Name != t.Name {
			return s, fmt.Errorf("%w: %s", ErrUnknownNode, t)
		}
		return OfCompetenceAt(ds[i], i), nil
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownRing, t.Ring)
	}
}
