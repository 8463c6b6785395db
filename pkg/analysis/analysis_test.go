package analysis

import (
	"reflect"
	"testing"

	"biograph/pkg/biography"
	"biograph/pkg/jptext"
)

func TestActivityPeriodsMergesSmallGaps(t *testing.T) {
	timeline := biography.Timeline{
		{Year: 1900, Description: "a"},
		{Year: 1902, Description: "b"},
		{Year: 1903, Description: "c"},
		{Year: 1910, Description: "d"},
		{Year: 1903, Description: "duplicate year"},
	}

	got := ActivityPeriods(timeline)
	want := []Period{{Start: 1900, End: 1903}, {Start: 1910, End: 1910}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestActivityPeriodsBoundaryGap(t *testing.T) {
	// A gap of exactly three years still merges; four splits.
	got := ActivityPeriods(biography.Timeline{
		{Year: 1900}, {Year: 1903}, {Year: 1907},
	})
	want := []Period{{Start: 1900, End: 1903}, {Start: 1907, End: 1907}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestActivityPeriodsEmptyTimeline(t *testing.T) {
	if got := ActivityPeriods(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestTurningPoints(t *testing.T) {
	timeline := biography.Timeline{
		{Year: 1902, Description: "特許庁に就職した。"},
		{Year: 1905, Description: "特殊相対性理論を発表した。"},
		{Year: 1921, Description: "ノーベル物理学賞を受賞した。"},
		{Year: 1933, Description: "研究所の所長を辞任した。"},
		{Year: 1940, Description: "これといった出来事のない年。"},
	}

	got := TurningPoints(timeline)
	want := []TurningPoint{
		{Year: 1902, Description: "特許庁に就職した。", Kind: KindCareerChange},
		{Year: 1905, Description: "特殊相対性理論を発表した。", Kind: KindSuccess},
		{Year: 1921, Description: "ノーベル物理学賞を受賞した。", Kind: KindSuccess},
		{Year: 1933, Description: "研究所の所長を辞任した。", Kind: KindFailure},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestTurningPointsFirstKindWins(t *testing.T) {
	// 就職 (career) and 成功 (success) in one event: career is catalogued
	// first and wins.
	got := TurningPoints(biography.Timeline{
		{Year: 1950, Description: "就職し、事業でも成功した。"},
	})
	if len(got) != 1 || got[0].Kind != KindCareerChange {
		t.Errorf("got %+v, want one career_change point", got)
	}
}

func TestWordCounterFiltersParticles(t *testing.T) {
	analyzer, err := jptext.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	c := NewWordCounter(analyzer)

	counts := c.Count(biography.Timeline{
		{Year: 1921, Description: "ノーベル物理学賞を受賞した。"},
		{Year: 1922, Description: "受賞を記念した。"},
	})

	if counts["受賞"] != 2 {
		t.Errorf("受賞 count: got %d, want 2", counts["受賞"])
	}
	for _, particle := range []string{"を", "た", "。"} {
		if _, ok := counts[particle]; ok {
			t.Errorf("particle %q must be filtered out", particle)
		}
	}
}

func TestWordCounterEmptyTimeline(t *testing.T) {
	analyzer, err := jptext.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	if got := NewWordCounter(analyzer).Count(nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
