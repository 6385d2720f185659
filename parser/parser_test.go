package parser

import (
	"testing"

	"github.com/aluiziolira/go-book-metadata/models"
)

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *models.BookRecord
		wantErr bool
	}{
		{
			name:    "valid record",
			record:  &models.BookRecord{Title: "Born to Run", BookLink: "http://example.test/books/1"},
			wantErr: false,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: true,
		},
		{
			name:    "missing title",
			record:  &models.BookRecord{Title: "", BookLink: "http://example.test/books/1"},
			wantErr: true,
		},
		{
			name:    "sentinel title",
			record:  &models.BookRecord{Title: models.NotFound, BookLink: "http://example.test/books/1"},
			wantErr: true,
		},
		{
			name:    "missing link",
			record:  &models.BookRecord{Title: "Born to Run"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.record)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitPublisherDate(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantPublisher string
		wantDate      string
	}{
		{
			name:          "publisher with date",
			input:         "Acme Press (March 2020)",
			wantPublisher: "Acme Press",
			wantDate:      "March 2020",
		},
		{
			name:          "publisher only",
			input:         "Acme Press",
			wantPublisher: "Acme Press",
			wantDate:      models.NotFound,
		},
		{
			name:          "splits on first parenthesis",
			input:         "Acme (UK) Press (May 2021)",
			wantPublisher: "Acme",
			wantDate:      "UK) Press (May 2021",
		},
		{
			name:          "missing closing parenthesis",
			input:         "Acme Press (June 2019",
			wantPublisher: "Acme Press",
			wantDate:      "June 2019",
		},
		{
			name:          "surrounding whitespace",
			input:         "  Acme Press   ( April 2018 )  ",
			wantPublisher: "Acme Press",
			wantDate:      "April 2018",
		},
		{
			name:          "date only",
			input:         "(2020)",
			wantPublisher: models.NotFound,
			wantDate:      "2020",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher, date := SplitPublisherDate(tt.input)
			if publisher != tt.wantPublisher || date != tt.wantDate {
				t.Errorf("SplitPublisherDate(%q) = (%q, %q), want (%q, %q)", tt.input, publisher, date, tt.wantPublisher, tt.wantDate)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "line breaks",
			input:    "First line\nsecond line\r\nthird",
			expected: "First line second line third",
		},
		{
			name:     "surrounding whitespace",
			input:    "  \t Born to Run  ",
			expected: "Born to Run",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CollapseWhitespace(tt.input); result != tt.expected {
				t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLayoutFor(t *testing.T) {
	for _, name := range []string{LayoutServerRendered, LayoutClientRendered} {
		layout, err := LayoutFor(name)
		if err != nil {
			t.Fatalf("LayoutFor(%q): %v", name, err)
		}
		if layout.Name != name {
			t.Fatalf("layout name = %q, want %q", layout.Name, name)
		}
		if _, ok := layout.Fields[FieldTitle]; !ok {
			t.Fatalf("layout %q has no title locator", name)
		}
	}
	if _, err := LayoutFor("tabloid"); err == nil {
		t.Fatalf("expected error for unknown layout")
	}
}
