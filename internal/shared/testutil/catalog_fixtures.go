package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"catalogcli/pkg/contracts/domain"
)

// CatalogHeader is the full source header in canonical column order
const CatalogHeader = "show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description"

// SampleCatalogRows is a small catalog covering the cases the cleaning
// pipeline has to handle: a missing country, a missing date, a missing
// rating, an unparseable date and padded date text.
var SampleCatalogRows = []string{
	`s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,A son films his father.`,
	`s2,TV Show,Blood & Water,,Ama Qamata,South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas, TV Mysteries",Two girls meet.`,
	`s3,TV Show,Ganglands,Julien Leclercq,Sami Bouajila,,"September 24, 2021",2021,TV-MA,1 Season,"Crime TV Shows, International TV Shows, TV Action & Adventure",A heist.`,
	`s4,Movie,Sankofa,Haile Gerima,Kofi Ghanaba,"United States, Ghana, Burkina Faso","September 24, 2021",1993,TV-MA,125 min,"Dramas, Independent Movies, International Movies",A model travels back.`,
	`s5,TV Show,Kota Factory,,Mayur More,India," September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, Romantic TV Shows, TV Comedies",Students in Kota.`,
	`s6,Movie,Jeans,S. Shankar,Prashanth,India,,1998,TV-14,166 min,"Comedies, International Movies, Romantic Movies",Twins meet twins.`,
	`s7,Movie,Grown Ups,Dennis Dugan,Adam Sandler,United States,"September 20, 2021",2010,,103 min,Comedies,Friends reunite.`,
	`s8,TV Show,Naruto,,Junko Takeuchi,Japan,soon,2007,TV-PG,9 Seasons,"Anime Series, International TV Shows",A ninja grows up.`,
	`s9,Movie,Bahubali,S. S. Rajamouli,Prabhas,India,2017-04-28,2017,TV-14,167 min,"Action & Adventure, International Movies",An epic.`,
	`s10,TV Show,Sacred Games,Vikramaditya Motwane,Saif Ali Khan,India,"July 6, 2018",2019,TV-MA,4 Seasons,"Crime TV Shows, International TV Shows",A cop and a gangster.`,
}

// SampleCatalogRetained is the number of SampleCatalogRows that survive cleaning
const SampleCatalogRetained = 7

// CatalogTestFixtures writes catalog sources for tests
type CatalogTestFixtures struct {
	TestDataDir string
}

// NewCatalogTestFixtures creates a new fixtures manager
func NewCatalogTestFixtures(testDataDir string) *CatalogTestFixtures {
	return &CatalogTestFixtures{TestDataDir: testDataDir}
}

// WriteSampleCatalog writes the sample catalog and returns its path
func (f *CatalogTestFixtures) WriteSampleCatalog() (string, error) {
	return f.WriteCatalog("titles.csv", CatalogHeader, SampleCatalogRows...)
}

// WriteCatalog writes a delimited catalog with the given header and rows
func (f *CatalogTestFixtures) WriteCatalog(name, header string, rows ...string) (string, error) {
	if err := os.MkdirAll(f.TestDataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create test data directory: %w", err)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}

	path := filepath.Join(f.TestDataDir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return path, nil
}

// CleanupTestData removes all test data files
func (f *CatalogTestFixtures) CleanupTestData() error {
	return os.RemoveAll(f.TestDataDir)
}

// TitleOption customizes a title built by NewTitle
type TitleOption func(*domain.Title)

// NewTitle returns a complete title of the given type with sensible defaults
func NewTitle(tt domain.TitleType, opts ...TitleOption) domain.Title {
	t := domain.Title{
		Type:          tt,
		Name:          "Untitled",
		Country:       "United States",
		DateAddedText: "2020-01-01",
		ReleaseYear:   2020,
		Rating:        "TV-MA",
		Duration:      "90 min",
		ListedIn:      "Dramas",
	}
	if tt == domain.TitleTypeTVShow {
		t.Duration = "1 Season"
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func WithName(name string) TitleOption {
	return func(t *domain.Title) { t.Name = name }
}

func WithCountry(country string) TitleOption {
	return func(t *domain.Title) { t.Country = country }
}

func WithDateAdded(text string) TitleOption {
	return func(t *domain.Title) { t.DateAddedText = text }
}

func WithReleaseYear(year int) TitleOption {
	return func(t *domain.Title) { t.ReleaseYear = year }
}

func WithRating(rating string) TitleOption {
	return func(t *domain.Title) { t.Rating = rating }
}

func WithDuration(duration string) TitleOption {
	return func(t *domain.Title) { t.Duration = duration }
}

func WithGenres(genres string) TitleOption {
	return func(t *domain.Title) { t.ListedIn = genres }
}

// Cleaned fills the derived fields from an ISO date_added, as cleaning would
func Cleaned() TitleOption {
	return func(t *domain.Title) {
		parsed, err := time.Parse("2006-01-02", strings.TrimSpace(t.DateAddedText))
		if err != nil {
			return
		}
		t.DateAdded = parsed
		t.YearAdded = parsed.Year()
	}
}
