// Package document wraps goquery to give the extractor a parsed, read-only
// view of an HTML page.
package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page. It is never mutated after Parse returns.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from raw HTML. Malformed markup is recovered the
// way browsers do it; Parse never fails.
func Parse(rawHTML string) *Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// Only a failing reader can get here, never bad markup.
		doc = goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return &Document{doc: doc}
}

// SelectFirst returns the first element matching m in document order.
// Compiled cascadia selectors satisfy goquery.Matcher.
func (d *Document) SelectFirst(m goquery.Matcher) (*goquery.Selection, bool) {
	sel := d.doc.FindMatcher(m).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return sel, true
}
