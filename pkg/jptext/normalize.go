package jptext

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var (
	// Footnote and citation markers left behind by the upstream extraction,
	// e.g. [1], [注 2], [要出典].
	reFootnote = regexp.MustCompile(`\[[^\[\]]{0,16}\]`)
	// Runs of ASCII whitespace and ideographic space (U+3000).
	reSpaces = regexp.MustCompile("[ \t\r\n　]+")

	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// NormalizeField prepares a raw infobox cell value for extraction: footnote
// markers are stripped, half-width katakana is widened while full-width ASCII
// and digits are narrowed, and whitespace runs collapse to a single space.
func NormalizeField(raw string) string {
	s := reFootnote.ReplaceAllString(raw, "")
	s = width.Fold.String(s)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeBody applies the same cleanup to running article text.
// Sentence-terminal punctuation is preserved so later stages can find
// clause bounds.
func NormalizeBody(raw string) string {
	return NormalizeField(raw)
}

// StripRuby removes ruby annotations (<rt>...</rt>, <rp>...</rp>) from HTML
// before text extraction. Readability keeps furigana otherwise, which
// duplicates every annotated word (e.g. "漢字" becomes "漢字かんじ").
// Operates on bytes; the tags involved are pure ASCII.
func StripRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	return reRP.ReplaceAll(cleaned, []byte{})
}

// SplitSentences splits text on Japanese sentence delimiters (。！？), their
// ASCII equivalents, and newlines. Delimiters stay attached to the sentence
// they terminate.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if IsSentenceTerminal(r) || r == '\n' {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}
	return sentences
}

// IsSentenceTerminal reports whether r ends a Japanese or ASCII sentence.
func IsSentenceTerminal(r rune) bool {
	switch r {
	case '。', '！', '？', '.', '!', '?':
		return true
	}
	return false
}
