package extract

import (
	"testing"

	"biograph/pkg/jptext"
)

func TestScriptDetectorFindsNames(t *testing.T) {
	d := ScriptDetector{}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "interpunct joined transliteration",
			text: "アルベルト・アインシュタインはスイスに移った。",
			want: []string{"アルベルト・アインシュタイン", "スイス"},
		},
		{
			name: "short kanji run",
			text: "のちに漱石とすごした。",
			want: []string{"漱石"},
		},
		{
			name: "hiragana only",
			text: "これといったなまえはない。",
			want: nil,
		},
		{
			name: "long kanji compound rejected",
			text: "特殊相対性理論についてのべた。",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.DetectNames(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestScriptDetectorDeduplicatesAndSorts(t *testing.T) {
	d := ScriptDetector{}

	got := d.DetectNames("ウルムのアインシュタイン。再びアインシュタイン。")
	seen := map[string]int{}
	for _, name := range got {
		seen[name]++
	}
	for name, n := range seen {
		if n > 1 {
			t.Errorf("name %q appears %d times", name, n)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Errorf("names not sorted: %v", got)
		}
	}
}

func TestKagomeDetectorFindsPersonNames(t *testing.T) {
	analyzer, err := jptext.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	d := NewKagomeDetector(analyzer)

	got := d.DetectNames("夏目漱石は小説家である。")
	found := false
	for _, name := range got {
		if name == "夏目漱石" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 夏目漱石 in %v", got)
	}
}

func TestKagomeDetectorIgnoresPlainNouns(t *testing.T) {
	analyzer, err := jptext.NewAnalyzer()
	if err != nil {
		t.Fatalf("NewAnalyzer failed: %v", err)
	}
	d := NewKagomeDetector(analyzer)

	if got := d.DetectNames("物理学の理論を研究する。"); len(got) != 0 {
		t.Errorf("expected no names, got %v", got)
	}
}
