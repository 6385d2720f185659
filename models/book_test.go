package models

import "testing"

func TestNewBookRecordDefaultsToNotFound(t *testing.T) {
	r := NewBookRecord("https://example.test/books/1")

	row := r.Row()
	if len(row) != len(Columns) {
		t.Fatalf("row has %d values, want %d", len(row), len(Columns))
	}
	for i, value := range row[:len(row)-1] {
		if value != NotFound {
			t.Errorf("%s = %q, want %q", Columns[i], value, NotFound)
		}
	}
	if r.BookLink != "https://example.test/books/1" {
		t.Fatalf("book link = %q", r.BookLink)
	}
}

func TestBookRecordFromRow(t *testing.T) {
	if _, err := BookRecordFromRow([]string{"only", "two"}); err == nil {
		t.Fatalf("expected error for short row")
	}

	want := NewBookRecord("https://example.test/books/2")
	want.Title = "Title"
	want.ISBN = "9780000000002"

	got, err := BookRecordFromRow(want.Row())
	if err != nil {
		t.Fatalf("from row: %v", err)
	}
	if *got != *want {
		t.Fatalf("record = %+v, want %+v", got, want)
	}
}
