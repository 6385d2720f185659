// Package parser turns book detail documents into records.
package parser

import (
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-book-metadata/models"
)

// optionalFields are resolved independently; a miss only affects that field.
var optionalFields = []Field{
	FieldSubTitle,
	FieldAboutBook,
	FieldAuthor,
	FieldAboutAuthor,
	FieldPublisher,
	FieldPublicationDate,
	FieldLengthInPages,
	FieldISBN,
	FieldImageLink,
}

// Extract builds the record for the detail page at bookURL. It returns a
// *MissingRequiredField error when the title cannot be located.
func Extract(doc *goquery.Document, bookURL string, layout *Layout) (*models.BookRecord, error) {
	if doc == nil {
		return nil, &MissingRequiredField{Field: FieldTitle.String(), URL: bookURL}
	}

	title, ok := locate(doc, layout, FieldTitle)
	if !ok {
		return nil, &MissingRequiredField{Field: FieldTitle.String(), URL: bookURL}
	}

	record := models.NewBookRecord(bookURL)
	record.Title = title

	values := make(map[Field]string, len(optionalFields))
	for _, field := range optionalFields {
		value, ok := locate(doc, layout, field)
		if !ok {
			slog.Debug("field not found", slog.String("field", field.String()), slog.String("url", bookURL))
			continue
		}
		values[field] = value
	}

	record.SubTitle = valueOr(values, FieldSubTitle)
	record.AboutBook = valueOr(values, FieldAboutBook)
	record.Author = valueOr(values, FieldAuthor)
	record.AboutAuthor = valueOr(values, FieldAboutAuthor)
	record.Publisher = valueOr(values, FieldPublisher)
	record.PublicationDate = valueOr(values, FieldPublicationDate)
	record.LengthInPages = valueOr(values, FieldLengthInPages)
	record.ISBN = valueOr(values, FieldISBN)
	record.ImageLink = valueOr(values, FieldImageLink)

	if layout.SplitPublisherDate {
		if raw, ok := values[FieldPublisher]; ok {
			record.Publisher, record.PublicationDate = SplitPublisherDate(raw)
		}
	}

	return record, nil
}

func locate(doc *goquery.Document, layout *Layout, field Field) (value string, ok bool) {
	locator, exists := layout.Fields[field]
	if !exists || locator == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			value, ok = "", false
		}
	}()
	return locator.Locate(doc)
}

func valueOr(values map[Field]string, field Field) string {
	if value, ok := values[field]; ok {
		return value
	}
	return models.NotFound
}
