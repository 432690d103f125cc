// Package dedupe derives the unique skill set referenced by a dataset.
package dedupe

import "github.com/okian/skillwheel/internal/domain/model"

// Deduper records names and remembers the order in which they were first seen.
type Deduper interface {
	// SeenAndRecord reports whether name was already recorded and records it if not.
	SeenAndRecord(name string) bool

	// Index returns the first-seen position of name.
	Index(name string) (int, bool)

	// Names returns the recorded names in first-seen order.
	Names() []string

	Size() int
}

// orderedSet implements Deduper with a slice for order and a map for lookups.
// It is not safe for concurrent use; every redraw builds its own.
type orderedSet struct {
	index map[string]int
	names []string
}

// NewOrderedSet creates an empty Deduper.
func NewOrderedSet(opts ...Option) Deduper {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &orderedSet{
		index: make(map[string]int, cfg.capacityHint),
		names: make([]string, 0, cfg.capacityHint),
	}
}

func (s *orderedSet) SeenAndRecord(name string) bool {
	if _, ok := s.index[name]; ok {
		return true
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	return false
}

func (s *orderedSet) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

func (s *orderedSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *orderedSet) Size() int {
	return len(s.names)
}

// Record flattens mainSkills then otherSkills of every competence, in dataset
// order, into a Deduper.
func Record(ds model.Dataset) Deduper {
	set := NewOrderedSet(WithCapacityHint(ds.SkillMentions()))
	for _, c := range ds {
		for _, name := range c.MainSkills {
			set.SeenAndRecord(name)
		}
		for _, name := range c.OtherSkills {
			set.SeenAndRecord(name)
		}
	}
	return set
}

// UniqueSkills returns every skill named in ds exactly once, in first-occurrence order.
func UniqueSkills(ds model.Dataset) []model.Skill {
	names := Record(ds).Names()
	skills := make([]model.Skill, len(names))
	for i, name := range names {
		skills[i] = model.Skill{Name: name}
	}
	return skills
}

// IndexSkills maps each skill name to its ring position.
func IndexSkills(skills []model.Skill) map[string]int {
	idx := make(map[string]int, len(skills))
	for i, s := range skills {
		if _, ok := idx[s.Name]; !ok {
			idx[s.Name] = i
		}
	}
	return idx
}
