package goquery

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
)

// WalkText visits the text nodes under sel in document order and returns
// the trimmed fragments accepted by keep. Text inside script, style and
// noscript elements is skipped.
func WalkText(sel *goquery.Selection, keep func(fragment string) bool) []string {
	var out []string
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		switch n.Type {
		case nethtml.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		case nethtml.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" && (keep == nil || keep(t)) {
				out = append(out, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

// FirstParagraph returns the text of the first p element in an HTML
// fragment with tags stripped and entities decoded. Text the parser left
// encoded, such as a double-escaped &amp;amp;, is decoded once more.
func FirstParagraph(fragment string) string {
	doc, err := Parse(fragment)
	if err != nil {
		return ""
	}
	p := doc.Find("p").First()
	if p.Length() == 0 {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(p.Text()))
}

// CollapseSpace replaces every run of whitespace with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
