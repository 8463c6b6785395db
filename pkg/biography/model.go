// Package biography defines the value records produced by an extraction run
// and the aggregator that assembles them. All records are built once per run
// and never mutated afterwards.
package biography

import "sort"

// DateLocation is a parsed date-plus-place record. Zero fields mean the
// piece of information was not present. Month and Day are only ever set
// together with Year.
type DateLocation struct {
	Year    int    `json:"year,omitempty"`
	Month   int    `json:"month,omitempty"`
	Day     int    `json:"day,omitempty"`
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// IsZero reports whether the record carries no information at all.
func (d DateLocation) IsZero() bool {
	return d == DateLocation{}
}

// HasDate reports whether at least a year was extracted.
func (d DateLocation) HasDate() bool {
	return d.Year != 0
}

// TimelineEvent is a (year, description) pair derived from body text.
type TimelineEvent struct {
	Year        int    `json:"year"`
	Description string `json:"description"`
}

// Timeline is an event sequence kept sorted ascending by year.
type Timeline []TimelineEvent

// Relation is one role-tagged edge from the subject to a named person.
type Relation struct {
	Role   string `json:"role"`
	Target string `json:"target"`
}

// RelationGraph holds the subject's named relationships and the full set of
// person-like names detected in the text. RelatedPersons is always a
// superset of the relation targets.
type RelationGraph struct {
	Subject        string     `json:"subject"`
	Relations      []Relation `json:"relations,omitempty"`
	RelatedPersons []string   `json:"related_persons,omitempty"`
}

// Empty reports whether no relation and no related person was found.
// This is a normal outcome, not an error.
func (g RelationGraph) Empty() bool {
	return len(g.Relations) == 0 && len(g.RelatedPersons) == 0
}

// Targets returns the role-tagged target names in relation order.
func (g RelationGraph) Targets() []string {
	out := make([]string, 0, len(g.Relations))
	for _, r := range g.Relations {
		out = append(out, r.Target)
	}
	return out
}

// BasicInfo carries the normalized infobox facts.
type BasicInfo struct {
	Birth    DateLocation      `json:"birth,omitzero"`
	Death    DateLocation      `json:"death,omitzero"`
	DeathAge int               `json:"death_age,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Record is the immutable result of one extraction run.
type Record struct {
	PersonName      string        `json:"person_name"`
	BasicInfo       BasicInfo     `json:"basic_info"`
	Timeline        Timeline      `json:"timeline,omitempty"`
	Relations       RelationGraph `json:"relations"`
	Categories      []string      `json:"categories,omitempty"`
	EventsPerDecade map[int]int   `json:"events_per_decade,omitempty"`
}

// sortedCopy returns a stable year-ascending copy of the timeline,
// preserving first-seen order among equal years.
func sortedCopy(t Timeline) Timeline {
	out := make(Timeline, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
