package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names a column of the fixed catalog schema
type Field string

const (
	FieldShowID      Field = "show_id"
	FieldType        Field = "type"
	FieldTitle       Field = "title"
	FieldDirector    Field = "director"
	FieldCast        Field = "cast"
	FieldCountry     Field = "country"
	FieldDateAdded   Field = "date_added"
	FieldReleaseYear Field = "release_year"
	FieldRating      Field = "rating"
	FieldDuration    Field = "duration"
	FieldListedIn    Field = "listed_in"
	FieldDescription Field = "description"

	// FieldYearAdded is derived and never read from the source
	FieldYearAdded Field = "year_added"
)

// SourceFields lists every column the loader accepts, in canonical order
var SourceFields = []Field{
	FieldShowID, FieldType, FieldTitle, FieldDirector, FieldCast, FieldCountry,
	FieldDateAdded, FieldReleaseYear, FieldRating, FieldDuration, FieldListedIn,
	FieldDescription,
}

// RequiredSourceFields must appear in the source header
var RequiredSourceFields = []Field{
	FieldType, FieldCountry, FieldDateAdded, FieldReleaseYear,
	FieldRating, FieldDuration, FieldListedIn,
}

// NumericFields are the integer-typed columns summarized by describe
var NumericFields = []Field{FieldReleaseYear, FieldYearAdded}

// ParseField resolves a header or field name against the schema.
func ParseField(name string) (Field, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, " ", "_")
	for _, f := range SourceFields {
		if string(f) == key {
			return f, nil
		}
	}
	if key == string(FieldYearAdded) {
		return FieldYearAdded, nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// IsNumeric reports whether the field holds integers
func (f Field) IsNumeric() bool {
	return f == FieldReleaseYear || f == FieldYearAdded
}

// Value returns the text value of field f on t.
// Date and numeric fields are rendered in their canonical text form.
func (f Field) Value(t Title) string {
	switch f {
	case FieldShowID:
		return t.ShowID
	case FieldType:
		return string(t.Type)
	case FieldTitle:
		return t.Name
	case FieldDirector:
		return t.Director
	case FieldCast:
		return t.Cast
	case FieldCountry:
		return t.Country
	case FieldDateAdded:
		if !t.DateAdded.IsZero() {
			return t.DateAdded.Format("2006-01-02")
		}
		return strings.TrimSpace(t.DateAddedText)
	case FieldReleaseYear:
		return strconv.Itoa(t.ReleaseYear)
	case FieldRating:
		return t.Rating
	case FieldDuration:
		return t.Duration
	case FieldListedIn:
		return t.ListedIn
	case FieldDescription:
		return t.Description
	case FieldYearAdded:
		if t.YearAdded == 0 {
			return ""
		}
		return strconv.Itoa(t.YearAdded)
	default:
		return ""
	}
}

// Number returns the integer value of a numeric field
func (f Field) Number(t Title) (int, bool) {
	switch f {
	case FieldReleaseYear:
		return t.ReleaseYear, true
	case FieldYearAdded:
		return t.YearAdded, t.YearAdded != 0
	default:
		return 0, false
	}
}

// IsMissing reports whether the source value of f is absent on t
func (f Field) IsMissing(t Title) bool {
	if f == FieldDateAdded {
		return !t.HasDateAdded()
	}
	if f == FieldReleaseYear {
		return false
	}
	return strings.TrimSpace(f.Value(t)) == ""
}
