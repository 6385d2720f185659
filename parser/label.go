package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// EntryStyle describes how a details entry carries its label and value.
type EntryStyle int

const (
	// PairEntry keeps the label in a child element and the value in the
	// element right after it, e.g. <strong>Publisher:</strong><span>Acme</span>.
	PairEntry EntryStyle = iota
	// InlineEntry keeps both in the entry text, e.g. "Publisher: Acme".
	InlineEntry
)

// DetailSection locates the labelled key/value list on a detail page.
type DetailSection struct {
	Selector      string
	EntrySelector string
	Style         EntryStyle
	// LabelSelector and ValueSelector apply to PairEntry only.
	LabelSelector string
	ValueSelector string
}

type detailEntry struct {
	label string
	value string
}

// LookupDetail returns the value of the first entry in section whose label
// contains label. It reports false when the section is absent, nothing
// matches, the matching value is empty, or the traversal fails.
func LookupDetail(doc *goquery.Document, section DetailSection, label string) (value string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("detail lookup failed",
				slog.String("label", label),
				slog.Any("panic", r),
			)
			value, ok = "", false
		}
	}()

	if doc == nil {
		return "", false
	}
	container := doc.Find(section.Selector).First()
	if container.Length() == 0 {
		return "", false
	}

	for _, entry := range section.entries(container) {
		if !strings.Contains(entry.label, label) {
			continue
		}
		value = CollapseWhitespace(entry.value)
		return value, value != ""
	}
	return "", false
}

// entries builds the ordered (label, value) index of the section.
func (s DetailSection) entries(container *goquery.Selection) []detailEntry {
	var out []detailEntry
	container.Find(s.EntrySelector).Each(func(_ int, item *goquery.Selection) {
		switch s.Style {
		case InlineEntry:
			text := item.Text()
			idx := strings.Index(text, ":")
			if idx < 0 {
				return
			}
			out = append(out, detailEntry{
				label: strings.TrimSpace(text[:idx]),
				value: text[idx+1:],
			})
		default:
			labelSel := item.Find(s.LabelSelector).First()
			if labelSel.Length() == 0 {
				return
			}
			valueSel := labelSel.NextAllFiltered(s.ValueSelector).First()
			if valueSel.Length() == 0 {
				return
			}
			out = append(out, detailEntry{
				label: strings.TrimSpace(labelSel.Text()),
				value: valueSel.Text(),
			})
		}
	})
	return out
}
