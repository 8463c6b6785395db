// Package extract turns normalized biography text into structured facts:
// a birth/death date-and-place record, a year-anchored event timeline, and
// a named relationship graph. All extractors degrade gracefully: a missing
// fact surfaces as absence, never as a failure of the whole run.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"biograph/pkg/biography"
)

// ErrNoDate reports that no date pattern matched, or that matched text
// failed calendar validation. Callers treat it as absence.
var ErrNoDate = errors.New("no date found in cell")

// TwoTokenPolicy selects how a two-token location residue maps onto fields.
// The source data is inconsistent here: death cells read country+city while
// some birth cells read country+region, so the mapping is configurable
// instead of hard-coded.
type TwoTokenPolicy int

const (
	// CountryCity maps two tokens to country + city.
	CountryCity TwoTokenPolicy = iota
	// CountryRegion maps two tokens to country + region.
	CountryRegion
)

// dateRule pairs a date pattern with a handler building year/month/day from
// the submatches. Rules are tried in order against the normalized cell;
// the first match wins.
type dateRule struct {
	name    string
	pattern *regexp.Regexp
	build   func(m []string) (year, month, day int)
}

var dateRules = []dateRule{
	{
		name:    "japanese",
		pattern: regexp.MustCompile(`(\d{4})年\s*(\d{1,2})月\s*(\d{1,2})日`),
		build: func(m []string) (int, int, int) {
			return atoi(m[1]), atoi(m[2]), atoi(m[3])
		},
	},
	{
		name:    "iso",
		pattern: regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`),
		build: func(m []string) (int, int, int) {
			return atoi(m[1]), atoi(m[2]), atoi(m[3])
		},
	},
}

var agePattern = regexp.MustCompile(`(\d{1,3})歳没`)

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// DateLocationExtractor parses one composite infobox cell
// (date + optional age at death + trailing location).
type DateLocationExtractor struct {
	policy TwoTokenPolicy
	log    *slog.Logger
}

// NewDateLocationExtractor returns an extractor with the given two-token
// policy. logger may be nil for silent operation.
func NewDateLocationExtractor(policy TwoTokenPolicy, logger *slog.Logger) *DateLocationExtractor {
	return &DateLocationExtractor{policy: policy, log: logger}
}

// Extract parses the cell into a DateLocation plus the age-at-death marker
// (0 when absent). When no date pattern matches, or the matched text is not
// a real calendar date, the whole sub-record collapses to ErrNoDate even if
// age or location were individually extractable; partial findings are only
// reported through the logger.
func (e *DateLocationExtractor) Extract(cell string) (biography.DateLocation, int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return biography.DateLocation{}, 0, fmt.Errorf("empty cell: %w", ErrNoDate)
	}

	age := 0
	if m := agePattern.FindStringSubmatch(cell); m != nil {
		age = atoi(m[1])
	}

	var matched *dateRule
	var year, month, day int
	for i := range dateRules {
		if m := dateRules[i].pattern.FindStringSubmatch(cell); m != nil {
			matched = &dateRules[i]
			year, month, day = dateRules[i].build(m)
			break
		}
	}
	if matched == nil {
		e.warnNoDate(cell, age)
		return biography.DateLocation{}, 0, ErrNoDate
	}

	// A regex match alone does not guarantee a valid calendar date
	// (e.g. 1955年2月30日). Validate through the date parser.
	normalized := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
	if _, err := dateparse.ParseStrict(normalized); err != nil {
		e.warnNoDate(cell, age)
		return biography.DateLocation{}, 0, fmt.Errorf("%q is not a calendar date: %w", normalized, ErrNoDate)
	}

	dl := biography.DateLocation{Year: year, Month: month, Day: day}
	e.assignLocation(&dl, locationTokens(cell))
	return dl, age, nil
}

func (e *DateLocationExtractor) warnNoDate(cell string, age int) {
	if e.log != nil {
		e.log.Warn("no parseable date in cell; discarding sub-record",
			"cell", cell, "age_marker", age)
	}
}

// locationTokens strips every date and age pattern from the cell and
// whitespace-tokenizes the residue. Stripping goes by pattern, not by match
// position, so a cell carrying the same date in two formats loses both.
func locationTokens(cell string) []string {
	residue := cell
	for _, r := range dateRules {
		residue = r.pattern.ReplaceAllString(residue, " ")
	}
	residue = agePattern.ReplaceAllString(residue, " ")
	return strings.Fields(residue)
}

// assignLocation maps token arity onto location fields:
// 0 tokens → nothing, 1 → city, 2 → per policy, ≥3 → country+region+city
// with extra tokens dropped.
func (e *DateLocationExtractor) assignLocation(dl *biography.DateLocation, tokens []string) {
	switch len(tokens) {
	case 0:
		if e.log != nil {
			e.log.Debug("no location tokens in cell")
		}
	case 1:
		dl.City = tokens[0]
	case 2:
		dl.Country = tokens[0]
		if e.policy == CountryRegion {
			dl.Region = tokens[1]
		} else {
			dl.City = tokens[1]
		}
	default:
		dl.Country = tokens[0]
		dl.Region = tokens[1]
		dl.City = tokens[2]
	}
}
