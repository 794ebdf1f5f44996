package domain

import (
	"fmt"
	"strings"
	"time"
)

// Title represents one row of the media catalog
type Title struct {
	ShowID        string    `json:"show_id,omitempty" csv:"show_id"`
	Type          TitleType `json:"type" csv:"type"`
	Name          string    `json:"title,omitempty" csv:"title"`
	Director      string    `json:"director,omitempty" csv:"director"`
	Cast          string    `json:"cast,omitempty" csv:"cast"`
	Country       string    `json:"country" csv:"country"`
	DateAddedText string    `json:"date_added_text,omitempty" csv:"date_added"`
	ReleaseYear   int       `json:"release_year" csv:"release_year"`
	Rating        string    `json:"rating" csv:"rating"`
	Duration      string    `json:"duration" csv:"duration"`
	ListedIn      string    `json:"listed_in" csv:"listed_in"`
	Description   string    `json:"description,omitempty" csv:"description"`

	// Derived during cleaning
	DateAdded time.Time `json:"date_added"`
	YearAdded int       `json:"year_added"`

	// Line is the 1-based source line (header is line 1)
	Line int `json:"-"`
}

// TitleType represents the kind of catalog entry
type TitleType string

const (
	TitleTypeMovie  TitleType = "Movie"
	TitleTypeTVShow TitleType = "TVShow"
)

// TitleTypes lists the title types in display order
var TitleTypes = []TitleType{TitleTypeMovie, TitleTypeTVShow}

// Label returns the human-readable name used in reports and charts
func (t TitleType) Label() string {
	switch t {
	case TitleTypeMovie:
		return "Movie"
	case TitleTypeTVShow:
		return "TV Show"
	default:
		return string(t)
	}
}

// ParseTitleType accepts "Movie", "TV Show" and "TVShow" in any case.
func ParseTitleType(s string) (TitleType, error) {
	norm := strings.ToLower(strings.Join(strings.Fields(s), ""))
	switch norm {
	case "movie":
		return TitleTypeMovie, nil
	case "tvshow":
		return TitleTypeTVShow, nil
	default:
		return "", fmt.Errorf("unknown title type %q", s)
	}
}

// HasDateAdded reports whether the source date_added value is present
func (t Title) HasDateAdded() bool {
	return strings.TrimSpace(t.DateAddedText) != ""
}

// IsClean reports whether all post-cleaning invariants hold for the record
func (t Title) IsClean() bool {
	return t.Country != "" &&
		t.HasDateAdded() &&
		!t.DateAdded.IsZero() &&
		strings.TrimSpace(t.Rating) != "" &&
		strings.TrimSpace(t.Duration) != "" &&
		t.YearAdded == t.DateAdded.Year()
}
