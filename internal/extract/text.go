package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// cleanText trims s and collapses internal whitespace runs to single spaces.
func cleanText(s string) string {
	return collapseSpaces(strings.TrimSpace(s))
}

func collapseSpaces(s string) string {
	var b strings.Builder
	lastSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return b.String()
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\u00a0':
		return true
	}
	return false
}

// selectionText is the cleaned text content of the first node in sel.
func selectionText(sel *goquery.Selection) string {
	return cleanText(sel.First().Text())
}

// textSegments returns the non-empty trimmed text nodes under sel in
// document order, skipping script and style content.
func textSegments(sel *goquery.Selection) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := cleanText(n.Data); s != "" {
				out = append(out, s)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
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

// trimKey strips the label decoration found on detail list keys: trailing
// colons, whitespace and bidi marks.
func trimKey(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == ':' || r == '\u200e' || r == '\u200f' || isSpace(r)
	})
}
