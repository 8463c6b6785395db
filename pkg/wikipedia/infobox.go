package wikipedia

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"biograph/pkg/jptext"
)

// Infobox is the key/value panel of a biography page. Name holds the header
// row text (or the page title when the panel is missing); Fields maps the
// row label to the flattened cell text.
type Infobox struct {
	Name   string
	Fields map[string]string
}

// Field aliases for the two cells the extraction core cares about.
var (
	birthAliases = []string{"生誕", "誕生日", "生年月日"}
	deathAliases = []string{"死没", "死亡日", "没年月日"}
)

// BirthCell returns the raw composite birth cell, or "" when absent.
func (ib *Infobox) BirthCell() string { return ib.lookup(birthAliases) }

// DeathCell returns the raw composite death cell, or "" when absent.
func (ib *Infobox) DeathCell() string { return ib.lookup(deathAliases) }

func (ib *Infobox) lookup(aliases []string) string {
	for _, key := range aliases {
		if v, ok := ib.Fields[key]; ok {
			return v
		}
	}
	return ""
}

// ParseInfobox extracts the first table.infobox from the page HTML. A page
// without an infobox yields an Infobox with the page title as Name and no
// fields; that is not an error.
func ParseInfobox(pageHTML, pageTitle string) (*Infobox, error) {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	ib := &Infobox{Name: pageTitle, Fields: map[string]string{}}
	table := findInfoboxTable(doc)
	if table == nil {
		return ib, nil
	}

	first := true
	for _, row := range descendants(table, atom.Tr) {
		th := firstChildElem(row, atom.Th)
		td := firstChildElem(row, atom.Td)
		if first && th != nil && td == nil {
			if name := jptext.NormalizeField(cellText(th)); name != "" {
				ib.Name = name
			}
		}
		first = false
		if th == nil || td == nil {
			continue
		}
		key := jptext.NormalizeField(cellText(th))
		if key == "" {
			continue
		}
		ib.Fields[key] = jptext.NormalizeField(cellText(td))
	}
	return ib, nil
}

func findInfoboxTable(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		for _, a := range n.Attr {
			if a.Key == "class" && strings.Contains(a.Val, "infobox") {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findInfoboxTable(c); t != nil {
			return t
		}
	}
	return nil
}

func descendants(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == a {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func firstChildElem(n *html.Node, a atom.Atom) *html.Node {
	for _, d := range descendants(n, a) {
		return d
	}
	return nil
}

// cellText flattens a cell to space-joined text. Footnote sups, style and
// script bodies are dropped; <br> becomes a space so stacked lines stay
// separable.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode:
			switch n.DataAtom {
			case atom.Sup, atom.Style, atom.Script, atom.Rt, atom.Rp:
				return
			case atom.Br:
				b.WriteString(" ")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Td, atom.Th, atom.Li, atom.P, atom.Div:
				b.WriteString(" ")
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
