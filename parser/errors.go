package parser

import "fmt"

// MissingRequiredField indicates a detail page lacked a field a record
// cannot exist without.
type MissingRequiredField struct {
	Field string
	URL   string
}

func (e *MissingRequiredField) Error() string {
	return fmt.Sprintf("missing_required_field: %s not found on %s", e.Field, e.URL)
}
