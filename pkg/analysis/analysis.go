// Package analysis derives reporting statistics from an extracted timeline:
// activity periods, turning points, and word frequencies for the word-cloud
// feed. Rendering itself lives outside this module.
package analysis

import (
	"sort"
	"strings"

	"biograph/pkg/biography"
	"biograph/pkg/jptext"
)

// Period is a span of continuous activity in the timeline.
type Period struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// maxPeriodGap is the largest year gap still merged into one period.
const maxPeriodGap = 3

// ActivityPeriods merges the sorted unique event years into spans,
// joining years no more than three apart.
func ActivityPeriods(t biography.Timeline) []Period {
	if len(t) == 0 {
		return nil
	}
	yearSet := make(map[int]struct{}, len(t))
	for _, ev := range t {
		yearSet[ev.Year] = struct{}{}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	var periods []Period
	start := years[0]
	for i := 0; i < len(years); i++ {
		if i+1 < len(years) && years[i+1]-years[i] > maxPeriodGap {
			periods = append(periods, Period{Start: start, End: years[i]})
			start = years[i+1]
		}
	}
	periods = append(periods, Period{Start: start, End: years[len(years)-1]})
	return periods
}

// TurningPoint is an event whose description matches one of the catalogued
// event kinds.
type TurningPoint struct {
	Year        int    `json:"year"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

// Turning point kinds.
const (
	KindCareerChange = "career_change"
	KindSuccess      = "success"
	KindFailure      = "failure"
)

var turningPointKeywords = []struct {
	kind  string
	words []string
}{
	{KindCareerChange, []string{
		"就任", "退任", "転職", "入社", "卒業", "入学", "就職", "退職",
		"異動", "昇進", "転籍", "出向",
	}},
	{KindSuccess, []string{
		"受賞", "成功", "発表", "出版", "達成", "開発", "設立", "創設",
		"創立", "完成", "発売", "公開", "貢献",
	}},
	{KindFailure, []string{
		"失敗", "敗北", "撤退", "辞任", "逮捕", "解任", "辞職", "倒産",
		"解散", "不祥事", "事故", "事件", "死去", "死亡", "解雇",
	}},
}

// TurningPoints returns catalogued events in timeline order. The first
// matching kind wins for an event matching several catalogues.
func TurningPoints(t biography.Timeline) []TurningPoint {
	var out []TurningPoint
	for _, ev := range t {
		if kind, ok := eventKind(ev.Description); ok {
			out = append(out, TurningPoint{Year: ev.Year, Description: ev.Description, Kind: kind})
		}
	}
	return out
}

func eventKind(description string) (string, bool) {
	for _, cat := range turningPointKeywords {
		for _, w := range cat.words {
			if strings.Contains(description, w) {
				return cat.kind, true
			}
		}
	}
	return "", false
}

// WordCounter tokenizes event descriptions and counts base forms,
// skipping symbols, particles, auxiliaries and numerals.
type WordCounter struct {
	analyzer *jptext.Analyzer
}

// NewWordCounter wraps the given analyzer.
func NewWordCounter(a *jptext.Analyzer) *WordCounter {
	return &WordCounter{analyzer: a}
}

// Count returns base-form frequencies across all event descriptions.
func (c *WordCounter) Count(t biography.Timeline) map[string]int {
	if len(t) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, ev := range t {
		for _, tok := range c.analyzer.Tokenize(ev.Description) {
			switch tok.POS() {
			case "記号", "助詞", "助動詞":
				continue
			}
			if tok.IsNumeric() {
				continue
			}
			word := tok.Surface
			if tok.BaseForm != "" && tok.BaseForm != "*" {
				word = tok.BaseForm
			}
			counts[word]++
		}
	}
	return counts
}
