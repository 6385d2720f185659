// Package models defines data structures for the scraper.
package models

import (
	"fmt"
	"time"
)

// NotFound is stored in any field whose source data could not be located.
const NotFound = "Not found"

// Columns lists the output columns in their fixed order.
var Columns = []string{
	"book_title",
	"book_sub_title",
	"about_book",
	"author",
	"about_author",
	"publisher",
	"publication_date",
	"length_in_pages",
	"ISBN",
	"image_link",
	"book_link",
}

// BookRecord is one book as extracted from its detail page.
type BookRecord struct {
	Title           string `csv:"book_title" json:"book_title"`
	SubTitle        string `csv:"book_sub_title" json:"book_sub_title"`
	AboutBook       string `csv:"about_book" json:"about_book"`
	Author          string `csv:"author" json:"author"`
	AboutAuthor     string `csv:"about_author" json:"about_author"`
	Publisher       string `csv:"publisher" json:"publisher"`
	PublicationDate string `csv:"publication_date" json:"publication_date"`
	LengthInPages   string `csv:"length_in_pages" json:"length_in_pages"`
	ISBN            string `csv:"ISBN" json:"ISBN"`
	ImageLink       string `csv:"image_link" json:"image_link"`
	BookLink        string `csv:"book_link" json:"book_link"`
}

// NewBookRecord returns a record for bookURL with every other field set to NotFound.
func NewBookRecord(bookURL string) *BookRecord {
	return &BookRecord{
		Title:           NotFound,
		SubTitle:        NotFound,
		AboutBook:       NotFound,
		Author:          NotFound,
		AboutAuthor:     NotFound,
		Publisher:       NotFound,
		PublicationDate: NotFound,
		LengthInPages:   NotFound,
		ISBN:            NotFound,
		ImageLink:       NotFound,
		BookLink:        bookURL,
	}
}

// Row returns the record values in Columns order.
func (b *BookRecord) Row() []string {
	return []string{
		b.Title,
		b.SubTitle,
		b.AboutBook,
		b.Author,
		b.AboutAuthor,
		b.Publisher,
		b.PublicationDate,
		b.LengthInPages,
		b.ISBN,
		b.ImageLink,
		b.BookLink,
	}
}

// BookRecordFromRow rebuilds a record from a row in Columns order.
func BookRecordFromRow(row []string) (*BookRecord, error) {
	if len(row) != len(Columns) {
		return nil, fmt.Errorf("row has %d columns, want %d", len(row), len(Columns))
	}
	return &BookRecord{
		Title:           row[0],
		SubTitle:        row[1],
		AboutBook:       row[2],
		Author:          row[3],
		AboutAuthor:     row[4],
		Publisher:       row[5],
		PublicationDate: row[6],
		LengthInPages:   row[7],
		ISBN:            row[8],
		ImageLink:       row[9],
		BookLink:        row[10],
	}, nil
}

// KeywordReport summarises the crawl of one keyword.
type KeywordReport struct {
	Keyword    string
	State      string
	Candidates int
	Duplicates int
	Extracted  int
	Failed     int
	Err        error
}

// RunResult holds the overall result of a collection run.
type RunResult struct {
	RunID          string
	Records        []*BookRecord
	Keywords       []KeywordReport
	StartTime      time.Time
	EndTime        time.Time
	RequestCount   int
	ErrorCount     int
	DuplicateCount int
	KeywordsFailed int
	FailedURLs     []string
	ErrorsByType   map[string]int
}
