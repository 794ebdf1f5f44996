package exporter

import (
	"math"
	"strconv"

	"catalogcli/internal/config"
	"catalogcli/pkg/contracts/domain"
)

// CleanedHeaders is the column order of the cleaned catalog export
var CleanedHeaders = []string{
	"show_id", "type", "title", "director", "cast", "country", "date_added",
	"year_added", "release_year", "rating", "duration", "listed_in", "description",
}

// formatFloat formats a float64 value for CSV output with exactly 2 decimal
// places. NaN is written as an empty cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// titleRecord renders a cleaned title in CleanedHeaders order
func titleRecord(t domain.Title) []string {
	dateAdded := ""
	if !t.DateAdded.IsZero() {
		dateAdded = t.DateAdded.Format(config.DateFormat)
	}
	yearAdded := ""
	if t.YearAdded != 0 {
		yearAdded = formatInt(t.YearAdded)
	}

	return []string{
		t.ShowID,
		t.Type.Label(),
		t.Name,
		t.Director,
		t.Cast,
		t.Country,
		dateAdded,
		yearAdded,
		formatInt(t.ReleaseYear),
		t.Rating,
		t.Duration,
		t.ListedIn,
		t.Description,
	}
}
