package parser

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Locator resolves one field value from a detail document.
type Locator interface {
	Locate(doc *goquery.Document) (string, bool)
}

// TextLocator reads the collapsed text of the first element matching Selector.
type TextLocator struct {
	Selector string
}

func (l TextLocator) Locate(doc *goquery.Document) (string, bool) {
	sel := doc.Find(l.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	text := CollapseWhitespace(sel.Text())
	return text, text != ""
}

// AttrLocator reads an attribute of the first element matching Selector.
type AttrLocator struct {
	Selector   string
	Attr       string
	ResolveURL bool
}

func (l AttrLocator) Locate(doc *goquery.Document) (string, bool) {
	sel := doc.Find(l.Selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	value, ok := sel.Attr(l.Attr)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	if l.ResolveURL {
		value = resolveAgainst(doc.Url, value)
	}
	return value, true
}

// XPathLocator evaluates Expr and returns the first node whose Attr (or
// inner text when Attr is empty) matches Match. A nil Match accepts any
// non-empty value.
type XPathLocator struct {
	Expr       string
	Attr       string
	Match      *regexp.Regexp
	ResolveURL bool
}

func (l XPathLocator) Locate(doc *goquery.Document) (string, bool) {
	if len(doc.Nodes) == 0 {
		return "", false
	}
	nodes, err := htmlquery.QueryAll(doc.Nodes[0], l.Expr)
	if err != nil {
		return "", false
	}
	for _, node := range nodes {
		var value string
		if l.Attr == "" {
			value = CollapseWhitespace(htmlquery.InnerText(node))
		} else {
			value = strings.TrimSpace(htmlquery.SelectAttr(node, l.Attr))
		}
		if value == "" {
			continue
		}
		if l.Match != nil && !l.Match.MatchString(value) {
			continue
		}
		if l.ResolveURL {
			value = resolveAgainst(doc.Url, value)
		}
		return value, true
	}
	return "", false
}

// LabelLocator looks a value up in the labelled details section.
type LabelLocator struct {
	Section DetailSection
	Label   string
}

func (l LabelLocator) Locate(doc *goquery.Document) (string, bool) {
	return LookupDetail(doc, l.Section, l.Label)
}

func resolveAgainst(base *url.URL, ref string) string {
	if base == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
