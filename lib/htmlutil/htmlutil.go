package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GetVisibleText concatenates the text under node, skipping the contents of
// script, style and noscript elements.
func GetVisibleText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	if node.Type == html.ElementNode {
		switch node.DataAtom {
		case atom.Script, atom.Style, atom.Noscript:
			return
		}
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		// keeps words in sibling block elements apart
		if child.Type == html.ElementNode {
			buffer.WriteByte(' ')
		}
		child = child.NextSibling
	}
}

// FilterAttrMatch keeps the nodes of sel whose attribute `attr` matches re.
func FilterAttrMatch(sel *goquery.Selection, attr string, re *regexp.Regexp) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		value, exists := s.Attr(attr)
		return exists && re.MatchString(value)
	})
}

// HasAttrFold reports whether any descendant of sel matching selector has the
// attribute `attr` equal to value, ignoring case.
func HasAttrFold(sel *goquery.Selection, selector, attr, value string) bool {
	found := false
	sel.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr(attr, "")), value) {
			found = true
			return false
		}
		return true
	})
	return found
}
