package wikipedia

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"biograph/pkg/jptext"
)

// Section headings dropped before body extraction. Bibliographies, footnote
// lists and see-also blocks are dense with years and names but say nothing
// about the subject's life.
var excludedSectionKeywords = []string{
	"著作",
	"参考文献",
	"関連文献",
	"作品",
	"書誌情報",
	"選集",
	"全集",
	"共著",
	"脚注",
	"注釈",
	"出典",
	"関連項目",
}

// BodyText reduces rendered page HTML to the running article prose. Ruby
// annotations are stripped first, excluded sections are cut, then
// readability pulls the main text.
func BodyText(pageHTML, pageTitle string) (string, error) {
	cleaned, err := dropExcludedSections(jptext.StripRuby([]byte(pageHTML)))
	if err != nil {
		return "", fmt.Errorf("prune sections: %w", err)
	}

	pageURL, _ := url.Parse("https://ja.wikipedia.org/wiki/" + url.PathEscape(pageTitle))
	article, err := readability.FromReader(bytes.NewReader(cleaned), pageURL)
	if err != nil {
		return "", fmt.Errorf("extract body text: %w", err)
	}
	return jptext.NormalizeBody(article.TextContent), nil
}

// dropExcludedSections removes every heading whose text contains an excluded
// keyword, together with the sibling nodes up to the next heading of the
// same or higher level.
func dropExcludedSections(pageHTML []byte) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	var prune func(n *html.Node)
	prune = func(n *html.Node) {
		c := n.FirstChild
		for c != nil {
			next := c.NextSibling
			if lvl := headingLevel(c); lvl > 0 && isExcludedHeading(c) {
				for c != nil {
					stop := c.NextSibling
					n.RemoveChild(c)
					c = stop
					if c != nil {
						if l := headingLevel(c); l > 0 && l <= lvl {
							break
						}
					}
				}
				next = c
			} else {
				prune(c)
			}
			c = next
		}
	}
	prune(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func isExcludedHeading(n *html.Node) bool {
	text := nodeText(n)
	for _, kw := range excludedSectionKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
