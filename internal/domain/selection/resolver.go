package selection

import (
	"github.com/okian/skillwheel/internal/domain/dedupe"
	"github.com/okian/skillwheel/internal/domain/model"
)

// Connection links the selected node to one counterpart.
type Connection struct {
	Skill           string         `json:"skill"`
	SkillIndex      int            `json:"skillIndex"`
	Competence      string         `json:"competence"`
	CompetenceIndex int            `json:"competenceIndex"`
	Relation        model.Relation `json:"relation"`
}

// Index is the per-redraw lookup structure: the dataset, its unique skills and
// a name->position map built once, so resolving never rescans the skill ring.
type Index struct {
	ds       model.Dataset
	skills   []model.Skill
	skillIdx map[string]int
}

// NewIndex deduplicates the skills of ds and indexes them.
func NewIndex(ds model.Dataset) *Index {
	skills := dedupe.UniqueSkills(ds)
	return &Index{ds: ds, skills: skills, skillIdx: dedupe.IndexSkills(skills)}
}

// Dataset returns the indexed dataset.
func (x *Index) Dataset() model.Dataset { return x.ds }

// Skills returns the unique skills in ring order.
func (x *Index) Skills() []model.Skill { return x.skills }

// SkillIndex returns the ring position of the named skill.
func (x *Index) SkillIndex(name string) (int, bool) {
	i, ok := x.skillIdx[name]
	return i, ok
}

// Resolve maps sel onto the indexed dataset. A selection whose skill or
// competence is no longer present resolves to Idle.
func (x *Index) Resolve(sel Selection) Selection {
	if sk, ok := sel.Skill(); ok {
		if _, found := x.skillIdx[sk.Name]; !found {
			return Idle()
		}
		return sel
	}
	if c, ok := sel.Competence(); ok {
		i := x.CompetenceIndex(sel)
		if i < 0 {
			return Idle()
		}
		if pos, pinned := sel.Position(); pinned && pos != i {
			return OfCompetenceAt(c, i)
		}
		return sel
	}
	return Idle()
}

// CompetenceIndex returns the ring position of a competence selection: its
// pinned position while that still holds the same competence, otherwise the
// first equal competence. It is -1 when no such competence is left.
func (x *Index) CompetenceIndex(sel Selection) int {
	c, ok := sel.Competence()
	if !ok {
		return -1
	}
	if i, pinned := sel.Position(); pinned && i < len(x.ds) && x.ds[i].Equal(c) {
		return i
	}
	return x.ds.IndexOf(c)
}

// Connections lists the counterparts of the resolved selection.
//
// For a selected skill: every competence referencing it, in dataset order.
// For a selected competence: its mainSkills then otherSkills.
// Idle (or stale) selections have no connections.
func (x *Index) Connections(sel Selection) []Connection {
	sel = x.Resolve(sel)
	switch sel.State() {
	case StateSkillSelected:
		sk, _ := sel.Skill()
		skillIdx := x.skillIdx[sk.Name]
		var out []Connection
		for i, c := range x.ds {
			rel, ok := c.RelationTo(sk.Name)
			if !ok {
				continue
			}
			out = append(out, Connection{
				Skill:           sk.Name,
				SkillIndex:      skillIdx,
				Competence:      c.Name,
				CompetenceIndex: i,
				Relation:        rel,
			})
		}
		return out
	case StateCompetenceSelected:
		c, _ := sel.Competence()
		ci := x.CompetenceIndex(sel)
		names := c.Skills()
		out := make([]Connection, 0, len(names))
		for _, name := range names {
			rel, _ := c.RelationTo(name)
			out = append(out, Connection{
				Skill:           name,
				SkillIndex:      x.skillIdx[name],
				Competence:      c.Name,
				CompetenceIndex: ci,
				Relation:        rel,
			})
		}
		return out
	default:
		return nil
	}
}
