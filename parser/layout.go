package parser

import (
	"fmt"
	"regexp"
)

// Field identifies one of the record fields resolved by a locator.
type Field int

const (
	FieldTitle Field = iota
	FieldSubTitle
	FieldAboutBook
	FieldAuthor
	FieldAboutAuthor
	FieldPublisher
	FieldPublicationDate
	FieldLengthInPages
	FieldISBN
	FieldImageLink
)

var fieldNames = map[Field]string{
	FieldTitle:           "book_title",
	FieldSubTitle:        "book_sub_title",
	FieldAboutBook:       "about_book",
	FieldAuthor:          "author",
	FieldAboutAuthor:     "about_author",
	FieldPublisher:       "publisher",
	FieldPublicationDate: "publication_date",
	FieldLengthInPages:   "length_in_pages",
	FieldISBN:            "ISBN",
	FieldImageLink:       "image_link",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// Built-in layout names.
const (
	LayoutServerRendered = "server"
	LayoutClientRendered = "client"
)

// Layout describes where a site keeps each piece of book data, on the
// search results view as well as on the detail page.
type Layout struct {
	Name string

	// Fields maps every record field to the locator that resolves it.
	// A field without a locator is always NotFound.
	Fields map[Field]Locator
	// SplitPublisherDate treats the publisher value as "<publisher> (<date>)".
	SplitPublisherDate bool

	// SearchPath is appended to the base URL with the escaped keyword
	// substituted for %s.
	SearchPath string
	// ResultLinks selects candidate anchors on the results view.
	ResultLinks string
	// BookPath matches the path of a book detail URL.
	BookPath *regexp.Regexp

	// Browser-driven search flow.
	ConsentButton string
	SearchInput   string
	ResultsMarker string
	// DetailMarker signals a rendered detail page is ready.
	DetailMarker string
}

var bookPathPattern = regexp.MustCompile(`^/books/`)

// ServerRenderedLayout matches the server-rendered catalogue pages.
func ServerRenderedLayout() *Layout {
	details := DetailSection{
		Selector:      "div#product-details-content",
		EntrySelector: "div.pdp-about-item",
		Style:         PairEntry,
		LabelSelector: "strong",
		ValueSelector: "span",
	}
	return &Layout{
		Name: LayoutServerRendered,
		Fields: map[Field]Locator{
			FieldTitle:           TextLocator{Selector: "h1.book-title"},
			FieldSubTitle:        TextLocator{Selector: "h2.book-subtitle"},
			FieldAboutBook:       TextLocator{Selector: "div#book-description-content"},
			FieldAuthor:          TextLocator{Selector: "span.author-name"},
			FieldAboutAuthor:     TextLocator{Selector: "div#author-bio-content"},
			FieldPublisher:       LabelLocator{Section: details, Label: "Publisher"},
			FieldPublicationDate: LabelLocator{Section: details, Label: "Publication Date"},
			FieldLengthInPages:   LabelLocator{Section: details, Label: "Pages"},
			FieldISBN:            LabelLocator{Section: details, Label: "ISBN-13"},
			FieldImageLink:       AttrLocator{Selector: "div.book-cover-container img", Attr: "src", ResolveURL: true},
		},
		SearchPath:   "/search/books/Category-Health-Fitness/_/N-fn4/Ntt-%s",
		ResultLinks:  "ul.book-grid-listing a[href]",
		BookPath:     bookPathPattern,
		DetailMarker: "h1.book-title",
	}
}

// ClientRenderedLayout matches the script-rendered storefront reached
// through the browser.
func ClientRenderedLayout() *Layout {
	details := DetailSection{
		Selector:      "div.product-details",
		EntrySelector: "li",
		Style:         InlineEntry,
	}
	return &Layout{
		Name: LayoutClientRendered,
		Fields: map[Field]Locator{
			FieldTitle:         TextLocator{Selector: "div.product-info h1"},
			FieldSubTitle:      TextLocator{Selector: "div.product-info h2.subtitle"},
			FieldAboutBook:     TextLocator{Selector: "div.product-description"},
			FieldAuthor:        TextLocator{Selector: "div.product-info a.contributor-name"},
			FieldAboutAuthor:   TextLocator{Selector: "div.about-author"},
			FieldPublisher:     LabelLocator{Section: details, Label: "Publisher"},
			FieldLengthInPages: LabelLocator{Section: details, Label: "Pages"},
			FieldISBN:          LabelLocator{Section: details, Label: "ISBN13"},
			FieldImageLink: XPathLocator{
				Expr:       `//div[contains(concat(' ', normalize-space(@class), ' '), ' product-image ')]//a[@href]`,
				Attr:       "href",
				Match:      regexp.MustCompile(`(?i)[-_](?:hr|hires|large)\.(?:jpe?g|png|webp)(?:\?.*)?$`),
				ResolveURL: true,
			},
		},
		SplitPublisherDate: true,
		SearchPath:         "/search/books/_/N-/Ntt-%s",
		ResultLinks:        "div.search-results a[href]",
		BookPath:           bookPathPattern,
		ConsentButton:      "#onetrust-accept-btn-handler",
		SearchInput:        "input[name='search']",
		ResultsMarker:      "div.search-results a[href^='/books/']",
		DetailMarker:       "div.product-info h1",
	}
}

// LayoutFor returns the named built-in layout.
func LayoutFor(name string) (*Layout, error) {
	switch name {
	case LayoutServerRendered:
		return ServerRenderedLayout(), nil
	case LayoutClientRendered:
		return ClientRenderedLayout(), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}
