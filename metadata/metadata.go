// Package metadata selects link-preview fields out of a parsed document
// using a fixed set of OpenGraph and favicon lookup rules.
package metadata

import (
	"log/slog"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/preview/document"
	"github.com/use-agent/preview/resolver"
)

// Kind identifies one metadata field.
type Kind int

const (
	Title Kind = iota
	Image
	Icon
)

// Kinds lists every Kind in result order.
var Kinds = []Kind{Title, Image, Icon}

func (k Kind) String() string {
	switch k {
	case Title:
		return "title"
	case Image:
		return "image"
	case Icon:
		return "icon"
	default:
		return "unknown"
	}
}

// rule is the lookup for one Kind: the first element matching selector
// supplies attr, which is resolved against the base URL when absolutize is set.
type rule struct {
	selector   cascadia.Selector
	attr       string
	absolutize bool
}

var rules = map[Kind]rule{
	Title: {selector: cascadia.MustCompile(`meta[property="og:title"]`), attr: "content"},
	Image: {selector: cascadia.MustCompile(`meta[property="og:image"]`), attr: "content", absolutize: true},
	Icon:  {selector: cascadia.MustCompile(`link[rel="shortcut icon"]`), attr: "href", absolutize: true},
}

// Result holds the extracted fields. A nil field means the rule found no
// usable value. Image and Icon are always absolute when set.
type Result struct {
	Title *string
	Image *string
	Icon  *string
}

// Get returns the field for k.
func (r Result) Get(k Kind) *string {
	switch k {
	case Title:
		return r.Title
	case Image:
		return r.Image
	case Icon:
		return r.Icon
	}
	return nil
}

// Extract runs every rule against doc. It never fails; fields that cannot be
// found or resolved are left nil.
func Extract(doc *document.Document, base *resolver.BaseURL) Result {
	return Result{
		Title: Lookup(doc, base, Title),
		Image: Lookup(doc, base, Image),
		Icon:  Lookup(doc, base, Icon),
	}
}

// Lookup runs the rule for a single Kind.
func Lookup(doc *document.Document, base *resolver.BaseURL, k Kind) *string {
	r, ok := rules[k]
	if !ok {
		return nil
	}

	sel, found := doc.SelectFirst(r.selector)
	if !found {
		return nil
	}
	value, exists := sel.Attr(r.attr)
	if !exists {
		return nil
	}
	if !r.absolutize {
		return &value
	}

	abs, err := resolver.Resolve(value, base)
	if err != nil {
		// A broken asset link drops the field, not the extraction.
		slog.Debug("metadata: dropping unresolvable value",
			"kind", k.String(),
			"value", value,
			"base", base.String(),
			"error", err,
		)
		return nil
	}
	return &abs
}
