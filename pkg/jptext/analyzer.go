package jptext

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is a single analyzed unit of text.
type Token struct {
	Surface  string   // the text as it appears (e.g. "行っ")
	BaseForm string   // the dictionary form (e.g. "行く")
	Reading  string   // katakana pronunciation
	Features []string // raw IPA dictionary features
}

// IPA feature layout:
// 0: part of speech, 1-3: sub-POS, 4: conjugation type,
// 5: conjugation form, 6: base form, 7: reading, 8: pronunciation.

// POS returns the primary part of speech, or "" when unavailable.
func (t Token) POS() string {
	if len(t.Features) > 0 {
		return t.Features[0]
	}
	return ""
}

// IsPersonName reports whether the IPA dictionary tagged this token as a
// person proper noun (名詞/固有名詞/人名).
func (t Token) IsPersonName() bool {
	return len(t.Features) > 2 &&
		t.Features[0] == "名詞" && t.Features[1] == "固有名詞" && t.Features[2] == "人名"
}

// IsNumeric reports whether the token is a numeral (名詞/数).
func (t Token) IsNumeric() bool {
	return len(t.Features) > 1 && t.Features[1] == "数"
}

// Analyzer wraps the kagome tokenizer with the IPA dictionary.
type Analyzer struct {
	t *tokenizer.Tokenizer
}

// NewAnalyzer creates a tokenizer instance. The IPA dictionary is embedded,
// so this never touches the network or disk.
func NewAnalyzer() (*Analyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Analyzer{t: t}, nil
}

// Tokenize breaks text into tokens with readings and base forms.
// Whitespace-only tokens are dropped.
func (a *Analyzer) Tokenize(text string) []Token {
	raw := a.t.Tokenize(text)
	result := make([]Token, 0, len(raw))

	for _, token := range raw {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		features := token.Features()
		base := token.Surface
		if len(features) > 6 && features[6] != "*" {
			base = features[6]
		}
		reading := ""
		if len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}

		result = append(result, Token{
			Surface:  token.Surface,
			BaseForm: base,
			Reading:  reading,
			Features: features,
		})
	}
	return result
}
