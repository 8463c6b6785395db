package extract

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"biograph/pkg/biography"
	"biograph/pkg/jptext"
)

// Plausible calendar range for a biography. Numeric spans outside it are
// silently discarded as false positives (phone numbers, ages, page numbers).
const (
	minPlausibleYear = 1000
	maxPlausibleYear = 2100
)

// maxDescriptionRunes caps event descriptions.
const maxDescriptionRunes = 200

// yearRule is one step of the ordered year scan. Earlier rules claim their
// matched span so later rules do not re-fire inside it.
type yearRule struct {
	name    string
	pattern *regexp.Regexp
	// years returns the event years this match stands for.
	years func(m []string) []int
}

var eraStartYears = map[string]int{
	"明治": 1868,
	"大正": 1912,
	"昭和": 1926,
	"平成": 1989,
	"令和": 2019,
}

var yearRules = []yearRule{
	{
		// A range such as 1905年-1910年 or 1905-1910年 yields a single
		// event anchored at its leading year.
		name:    "range",
		pattern: regexp.MustCompile(`(\d{4})年?\s*[-–〜~]\s*(\d{4})年`),
		years: func(m []string) []int {
			return []int{atoi(m[1])}
		},
	},
	{
		name:    "western",
		pattern: regexp.MustCompile(`(\d{4})年`),
		years: func(m []string) []int {
			return []int{atoi(m[1])}
		},
	},
	{
		name:    "era",
		pattern: regexp.MustCompile(`(明治|大正|昭和|平成|令和)(元|\d{1,2})年`),
		years: func(m []string) []int {
			n := 1
			if m[2] != "元" {
				n = atoi(m[2])
			}
			return []int{eraStartYears[m[1]] + n - 1}
		},
	},
}

// TimelineExtractor scans normalized body text for year mentions and
// attaches the enclosing sentence as the event description.
type TimelineExtractor struct {
	log *slog.Logger
}

// NewTimelineExtractor returns an extractor. logger may be nil.
func NewTimelineExtractor(logger *slog.Logger) *TimelineExtractor {
	return &TimelineExtractor{log: logger}
}

// yearMatch is one accepted token occurrence: where it sits in the body and
// the years it stands for.
type yearMatch struct {
	span  span
	rule  string
	years []int
}

// Extract returns the event sequence sorted ascending by year. Text with no
// valid year token yields an empty sequence, never an error. Re-running on
// identical text yields an identical sequence.
//
// Two passes: the first walks the rules in priority order so earlier rules
// claim their spans, the second emits events in body position order. Events
// must be positional before dedupe and the year sort, otherwise equal-year
// events from different rules would come out in rule order instead of
// document order.
func (e *TimelineExtractor) Extract(body string) biography.Timeline {
	var matches []yearMatch
	claimed := make([]span, 0, 8)

	for _, r := range yearRules {
		for _, idx := range r.pattern.FindAllStringSubmatchIndex(body, -1) {
			s := span{start: idx[0], end: idx[1]}
			if s.overlapsAny(claimed) {
				continue
			}
			if precededByDigit(body, s.start) {
				// Part of a longer number; not a year token.
				continue
			}
			claimed = append(claimed, s)
			matches = append(matches, yearMatch{
				span:  s,
				rule:  r.name,
				years: r.years(submatches(body, idx)),
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].span.start < matches[j].span.start })

	var events biography.Timeline
	for _, m := range matches {
		for _, year := range m.years {
			if year < minPlausibleYear || year > maxPlausibleYear {
				if e.log != nil {
					e.log.Debug("discarding implausible year token",
						"rule", m.rule, "year", year)
				}
				continue
			}
			events = append(events, biography.TimelineEvent{
				Year:        year,
				Description: enclosingSentence(body, m.span.start, m.span.end),
			})
		}
	}

	events = dedupeConsecutive(events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Year < events[j].Year })
	return events
}

type span struct{ start, end int }

func (s span) overlapsAny(spans []span) bool {
	for _, o := range spans {
		if s.start < o.end && o.start < s.end {
			return true
		}
	}
	return false
}

func submatches(s string, idx []int) []string {
	m := make([]string, 0, len(idx)/2)
	for i := 0; i < len(idx); i += 2 {
		if idx[i] < 0 {
			m = append(m, "")
			continue
		}
		m = append(m, s[idx[i]:idx[i+1]])
	}
	return m
}

func precededByDigit(s string, pos int) bool {
	if pos == 0 {
		return false
	}
	c := s[pos-1]
	return c >= '0' && c <= '9'
}

// enclosingSentence returns the clause around [start,end), bounded by the
// nearest sentence-terminal punctuation on either side, trimmed and capped.
func enclosingSentence(body string, start, end int) string {
	left := start
	for left > 0 {
		r, size := utf8.DecodeLastRuneInString(body[:left])
		if jptext.IsSentenceTerminal(r) {
			break
		}
		left -= size
	}
	right := end
	for right < len(body) {
		r, size := utf8.DecodeRuneInString(body[right:])
		right += size
		if jptext.IsSentenceTerminal(r) {
			break
		}
	}
	desc := strings.TrimSpace(body[left:right])
	if runes := []rune(desc); len(runes) > maxDescriptionRunes {
		desc = string(runes[:maxDescriptionRunes])
	}
	return desc
}

func dedupeConsecutive(events biography.Timeline) biography.Timeline {
	if len(events) < 2 {
		return events
	}
	out := events[:1]
	for _, ev := range events[1:] {
		if ev == out[len(out)-1] {
			continue
		}
		out = append(out, ev)
	}
	return out
}
