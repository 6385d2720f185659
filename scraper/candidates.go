package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-book-metadata/parser"
)

// Candidates returns the absolute book URLs linked from a results view in
// page order, each at most once. Links to other hosts and non-book paths
// are ignored.
func Candidates(doc *goquery.Document, base *url.URL, layout *parser.Layout) []string {
	if doc == nil || base == nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})

	doc.Find(layout.ResultLinks).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if !strings.EqualFold(resolved.Host, base.Host) {
			return
		}
		if layout.BookPath != nil && !layout.BookPath.MatchString(resolved.Path) {
			return
		}
		resolved.Fragment = ""

		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	return links
}
