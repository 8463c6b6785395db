package extract

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"biograph/pkg/biography"
)

// Marker is one relation rule: a literal text pattern that directly follows
// a name span, and the role it assigns to that name.
type Marker struct {
	Marker string
	Role   string
}

// DefaultMarkers returns the built-in relation catalogue. The ordering is
// stable; extractors evaluate markers in this order.
func DefaultMarkers() []Marker {
	return []Marker{
		{Marker: "を父", Role: "父"},
		{Marker: "を母", Role: "母"},
		{Marker: "を妻", Role: "妻"},
		{Marker: "を夫", Role: "夫"},
		{Marker: "を師", Role: "師"},
	}
}

// RelationExtractor scans body text for the marker catalogue and collects
// the full set of person-like names through a pluggable detector.
type RelationExtractor struct {
	markers  []Marker
	detector PersonDetector
	log      *slog.Logger
}

// NewRelationExtractor builds an extractor with the default marker
// catalogue. detector may be nil, in which case the coarse script heuristic
// is used. logger may be nil.
func NewRelationExtractor(detector PersonDetector, logger *slog.Logger) *RelationExtractor {
	if detector == nil {
		detector = ScriptDetector{}
	}
	return &RelationExtractor{markers: DefaultMarkers(), detector: detector, log: logger}
}

// WithMarkers replaces the marker catalogue.
func (e *RelationExtractor) WithMarkers(markers []Marker) *RelationExtractor {
	e.markers = markers
	return e
}

// Extract builds the relation graph for subject from normalized body text.
// An empty graph is a normal outcome: a marker with no qualifying preceding
// name span is silently skipped, and text without markers yields no edges.
// Role-tagged targets are always folded into the related-person set, so the
// set stays a superset of the targets.
func (e *RelationExtractor) Extract(subject, body string) biography.RelationGraph {
	graph := biography.RelationGraph{Subject: subject}
	seenEdge := make(map[biography.Relation]struct{})

	for _, m := range e.markers {
		for _, pos := range indexAll(body, m.Marker) {
			name := precedingNameSpan(body, pos)
			if name == "" {
				continue
			}
			edge := biography.Relation{Role: m.Role, Target: name}
			if _, dup := seenEdge[edge]; dup {
				continue
			}
			seenEdge[edge] = struct{}{}
			graph.Relations = append(graph.Relations, edge)
		}
	}

	persons := make(map[string]struct{})
	for _, name := range e.detector.DetectNames(body) {
		persons[name] = struct{}{}
	}
	for _, r := range graph.Relations {
		persons[r.Target] = struct{}{}
	}
	graph.RelatedPersons = sortedKeys(persons)

	if e.log != nil && len(graph.Relations) > 0 {
		e.log.Debug("relations extracted",
			"subject", subject, "edges", len(graph.Relations))
	}
	return graph
}

// precedingNameSpan walks backwards from pos over optional whitespace and
// collects the contiguous name-like span (kanji, katakana, Latin letters,
// interpunct, long vowel mark) that directly precedes it. Hiragana stops
// the walk: particles and inflections bound the span.
func precedingNameSpan(body string, pos int) string {
	end := pos
	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(body[:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(body[:start])
		if !isNameRune(r) {
			break
		}
		start -= size
	}
	return strings.Trim(body[start:end], "・")
}

func indexAll(s, substr string) []int {
	if substr == "" {
		return nil
	}
	var out []int
	for from := 0; ; {
		i := strings.Index(s[from:], substr)
		if i < 0 {
			return out
		}
		out = append(out, from+i)
		from += i + len(substr)
	}
}
