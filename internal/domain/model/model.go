// Package model contains domain models passed between layers.
package model

import "slices"

// Competence is a named capability that references primary and secondary skills.
// Identity is structural: two competences with the same name and skill lists are the same competence.
type Competence struct {
	Name        string   `json:"name" yaml:"name" toml:"name"`
	MainSkills  []string `json:"mainSkills" yaml:"mainSkills" toml:"mainSkills"`
	OtherSkills []string `json:"otherSkills" yaml:"otherSkills" toml:"otherSkills"`
}

// Skills returns mainSkills followed by otherSkills.
func (c Competence) Skills() []string {
	out := make([]string, 0, len(c.MainSkills)+len(c.OtherSkills))
	out = append(out, c.MainSkills...)
	return append(out, c.OtherSkills...)
}

// References reports whether the competence lists skill in either list.
func (c Competence) References(skill string) bool {
	return slices.Contains(c.MainSkills, skill) || slices.Contains(c.OtherSkills, skill)
}

// RelationTo classifies how the competence references skill. A skill present in
// mainSkills is main even if it also shows up in otherSkills.
func (c Competence) RelationTo(skill string) (Relation, bool) {
	switch {
	case slices.Contains(c.MainSkills, skill):
		return RelationMain, true
	case slices.Contains(c.OtherSkills, skill):
		return RelationOther, true
	default:
		return RelationNeutral, false
	}
}

// Equal compares two competences by value.
func (c Competence) Equal(o Competence) bool {
	return c.Name == o.Name &&
		slices.Equal(c.MainSkills, o.MainSkills) &&
		slices.Equal(c.OtherSkills, o.OtherSkills)
}

// Skill is derived from competences and identified only by its name.
type Skill struct {
	Name string `json:"name"`
}

// Dataset is the ordered sequence of competences feeding a redraw.
type Dataset []Competence

// IndexOf returns the position of the first competence equal to c, or -1.
func (d Dataset) IndexOf(c Competence) int {
	return slices.IndexFunc(d, c.Equal)
}

// IndexByName returns the position of the first competence named name, or -1.
func (d Dataset) IndexByName(name string) int {
	return slices.IndexFunc(d, func(c Competence) bool { return c.Name == name })
}

// SkillMentions counts every skill reference across the dataset, duplicates included.
func (d Dataset) SkillMentions() int {
	n := 0
	for _, c := range d {
		n += len(c.MainSkills) + len(c.OtherSkills)
	}
	return n
}

// RingKind names one of the two concentric rings.
type RingKind string

// Ring kinds.
const (
	RingSkill      RingKind = "skill"
	RingCompetence RingKind = "competence"
)

// Valid reports whether r is a known ring.
func (r RingKind) Valid() bool {
	return r == RingSkill || r == RingCompetence
}

// Relation tells how a skill and a competence are linked; it also picks the curve colour.
type Relation string

// Relations.
const (
	RelationMain    Relation = "main"
	RelationOther   Relation = "other"
	RelationNeutral Relation = "neutral"
)
