// Package report renders an extraction run as JSON and as a standalone HTML
// page built from Markdown. Absent facts are omitted entirely, never shown
// as empty rows.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"biograph/pkg/analysis"
	"biograph/pkg/biography"
)

// Document bundles the record with its derived statistics.
type Document struct {
	Record          biography.Record        `json:"record"`
	ActivityPeriods []analysis.Period       `json:"activity_periods,omitempty"`
	TurningPoints   []analysis.TurningPoint `json:"turning_points,omitempty"`
	WordFrequencies map[string]int          `json:"word_frequencies,omitempty"`
}

// WriteJSON writes the document as indented UTF-8 JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode report json: %w", err)
	}
	return nil
}

// Markdown renders the document as a Markdown report. Sections with no
// content are skipped.
func Markdown(doc *Document) string {
	var b strings.Builder
	rec := doc.Record

	fmt.Fprintf(&b, "# %s\n\n", rec.PersonName)

	writeBasicInfo(&b, rec.BasicInfo)
	writeTimeline(&b, rec.Timeline)
	writeRelations(&b, rec.Relations)
	writePeriods(&b, doc.ActivityPeriods)
	writeTurningPoints(&b, doc.TurningPoints)
	writeWordFrequencies(&b, doc.WordFrequencies)

	if len(rec.Categories) > 0 {
		b.WriteString("## カテゴリ\n\n")
		for _, c := range rec.Categories {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteHTML converts the Markdown report to a standalone HTML page.
func WriteHTML(w io.Writer, doc *Document) error {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	var body strings.Builder
	if err := md.Convert([]byte(Markdown(doc)), &body); err != nil {
		return fmt.Errorf("convert report markdown: %w", err)
	}

	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`, htmlEscape(doc.Record.PersonName), body.String())
	if err != nil {
		return fmt.Errorf("write report html: %w", err)
	}
	return nil
}

func writeBasicInfo(b *strings.Builder, info biography.BasicInfo) {
	type row struct{ key, value string }
	var rows []row

	if s := formatDateLocation(info.Birth); s != "" {
		rows = append(rows, row{"生年月日", s})
	}
	if s := formatDateLocation(info.Death); s != "" {
		rows = append(rows, row{"没年月日", s})
	}
	if info.DeathAge > 0 {
		rows = append(rows, row{"享年", fmt.Sprintf("%d歳", info.DeathAge)})
	}
	for _, key := range sortedKeys(info.Fields) {
		rows = append(rows, row{key, info.Fields[key]})
	}
	if len(rows) == 0 {
		return
	}

	b.WriteString("## 基本情報\n\n")
	b.WriteString("| 項目 | 内容 |\n|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", r.key, r.value)
	}
	b.WriteString("\n")
}

func writeTimeline(b *strings.Builder, t biography.Timeline) {
	if len(t) == 0 {
		return
	}
	b.WriteString("## 年表\n\n")
	for _, ev := range t {
		fmt.Fprintf(b, "- **%d年**: %s\n", ev.Year, ev.Description)
	}
	b.WriteString("\n")
}

func writeRelations(b *strings.Builder, g biography.RelationGraph) {
	if g.Empty() {
		return
	}
	b.WriteString("## 人物関係\n\n")
	for _, r := range g.Relations {
		fmt.Fprintf(b, "- %s: %s\n", r.Role, r.Target)
	}
	if len(g.RelatedPersons) > 0 {
		fmt.Fprintf(b, "\n関連人物: %s\n", strings.Join(g.RelatedPersons, "、"))
	}
	b.WriteString("\n")
}

func writePeriods(b *strings.Builder, periods []analysis.Period) {
	if len(periods) == 0 {
		return
	}
	b.WriteString("## 活動期間\n\n")
	for _, p := range periods {
		if p.Start == p.End {
			fmt.Fprintf(b, "- %d年\n", p.Start)
		} else {
			fmt.Fprintf(b, "- %d年〜%d年\n", p.Start, p.End)
		}
	}
	b.WriteString("\n")
}

func writeTurningPoints(b *strings.Builder, points []analysis.TurningPoint) {
	if len(points) == 0 {
		return
	}
	labels := map[string]string{
		analysis.KindCareerChange: "転機",
		analysis.KindSuccess:      "功績",
		analysis.KindFailure:      "苦難",
	}
	b.WriteString("## 転換点\n\n")
	for _, p := range points {
		fmt.Fprintf(b, "- **%d年** [%s] %s\n", p.Year, labels[p.Kind], p.Description)
	}
	b.WriteString("\n")
}

// topWords is how many word-frequency entries the report shows.
const topWords = 20

func writeWordFrequencies(b *strings.Builder, freqs map[string]int) {
	if len(freqs) == 0 {
		return
	}
	type entry struct {
		word  string
		count int
	}
	entries := make([]entry, 0, len(freqs))
	for w, n := range freqs {
		entries = append(entries, entry{w, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].word < entries[j].word
	})
	if len(entries) > topWords {
		entries = entries[:topWords]
	}

	b.WriteString("## 頻出語\n\n")
	for _, e := range entries {
		fmt.Fprintf(b, "- %s (%d)\n", e.word, e.count)
	}
	b.WriteString("\n")
}

func formatDateLocation(d biography.DateLocation) string {
	if d.IsZero() {
		return ""
	}
	var parts []string
	switch {
	case d.Year != 0 && d.Month != 0 && d.Day != 0:
		parts = append(parts, fmt.Sprintf("%d年%d月%d日", d.Year, d.Month, d.Day))
	case d.Year != 0:
		parts = append(parts, fmt.Sprintf("%d年", d.Year))
	}
	for _, p := range []string{d.Country, d.Region, d.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
