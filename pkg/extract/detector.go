package extract

import (
	"sort"
	"strings"
	"unicode"

	"biograph/pkg/jptext"
)

// PersonDetector finds person-like name spans in running text. The default
// implementation is a coarse script-run heuristic, not a trained model; it
// sits behind this interface so a stronger detector can replace it without
// touching the relation-role logic.
type PersonDetector interface {
	DetectNames(text string) []string
}

// scriptClass buckets a rune for name segmentation. Hiragana deliberately
// acts as a separator: particles and inflections are hiragana, while names
// are kanji, katakana, or transliterations joined by the interpunct.
type scriptClass int

const (
	classOther scriptClass = iota
	classHan
	classKana // katakana, including the long vowel mark
	classLatin
)

func classify(r rune) scriptClass {
	switch {
	case unicode.In(r, unicode.Han):
		return classHan
	case unicode.In(r, unicode.Katakana) || r == 'ー':
		return classKana
	case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
		return classLatin
	}
	return classOther
}

// isNameRune reports whether r can be part of a name span. The interpunct ・
// joins the parts of transliterated foreign names.
func isNameRune(r rune) bool {
	return classify(r) != classOther || r == '・'
}

// ScriptDetector is the default coarse detector: it segments text at script
// transitions and keeps spans that look like names: katakana runs of three
// or more runes, any span containing an interpunct, and short kanji runs.
type ScriptDetector struct{}

// DetectNames returns the unique name-like spans in text, sorted.
func (ScriptDetector) DetectNames(text string) []string {
	seen := make(map[string]struct{})
	for _, seg := range nameSegments(text) {
		if looksLikeName(seg) {
			seen[seg] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// nameSegments splits text into maximal same-script runs, keeping runs
// joined across the interpunct.
func nameSegments(text string) []string {
	var segs []string
	var current strings.Builder
	var currentClass scriptClass

	flush := func() {
		if current.Len() > 0 {
			segs = append(segs, strings.Trim(current.String(), "・"))
			current.Reset()
		}
		currentClass = classOther
	}

	runes := []rune(text)
	for i, r := range runes {
		c := classify(r)
		switch {
		case r == '・':
			// Joins two name parts; a dangling interpunct is trimmed on flush.
			if current.Len() > 0 && i+1 < len(runes) && isNameRune(runes[i+1]) {
				current.WriteRune(r)
			} else {
				flush()
			}
		case c == classOther:
			flush()
		case current.Len() == 0 || c == currentClass || strings.HasSuffix(current.String(), "・"):
			current.WriteRune(r)
			currentClass = c
		default:
			flush()
			current.WriteRune(r)
			currentClass = c
		}
	}
	flush()
	return segs
}

func looksLikeName(seg string) bool {
	runes := []rune(seg)
	if len(runes) < 2 {
		return false
	}
	if strings.ContainsRune(seg, '・') {
		return true
	}
	kana, han := 0, 0
	for _, r := range runes {
		switch classify(r) {
		case classKana:
			kana++
		case classHan:
			han++
		}
	}
	if kana == len(runes) {
		return len(runes) >= 3
	}
	// Japanese personal names are short kanji runs; longer runs are almost
	// always compound nouns.
	if han == len(runes) {
		return len(runes) <= 4
	}
	return false
}

// KagomeDetector tags person names with the IPA dictionary
// (名詞/固有名詞/人名), joining consecutive tagged tokens and the interpunct
// between them. It is the stronger drop-in for ScriptDetector.
type KagomeDetector struct {
	analyzer *jptext.Analyzer
}

// NewKagomeDetector wraps the given analyzer.
func NewKagomeDetector(a *jptext.Analyzer) *KagomeDetector {
	return &KagomeDetector{analyzer: a}
}

// DetectNames returns unique dictionary-tagged person names, sorted.
func (d *KagomeDetector) DetectNames(text string) []string {
	tokens := d.analyzer.Tokenize(text)
	seen := make(map[string]struct{})
	var current strings.Builder

	flush := func() {
		name := strings.Trim(current.String(), "・")
		if len([]rune(name)) >= 2 {
			seen[name] = struct{}{}
		}
		current.Reset()
	}

	for i, tok := range tokens {
		switch {
		case tok.IsPersonName():
			current.WriteString(tok.Surface)
		case tok.Surface == "・" && current.Len() > 0 && i+1 < len(tokens) && tokens[i+1].IsPersonName():
			current.WriteString(tok.Surface)
		default:
			flush()
		}
	}
	flush()
	return sortedKeys(seen)
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
