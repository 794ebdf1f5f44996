package dataprocessing

import (
	"context"
	"strconv"

	"catalogcli/pkg/contracts/domain"
)

// Chart IDs produced by BuildCharts
const (
	ChartContentByType      = "content-by-type"
	ChartAddedPerYear       = "content-added-per-year"
	ChartTopCountries       = "top-countries"
	ChartMovieReleaseYears  = "movie-release-years"
	ChartRatingDistribution = "rating-distribution"
	ChartTopGenres          = "top-genres"
	ChartMovieDuration      = "movie-duration"
)

// Renderer consumes finished chart specifications. How they are displayed
// or stored is up to the implementation.
type Renderer interface {
	Name() string
	Render(ctx context.Context, charts []domain.ChartSpec) error
}

// ChartOptions parameterizes BuildCharts
type ChartOptions struct {
	TopK           int
	TokenDelimiter string
	NumericPattern string
}

// ChartSet is the result of BuildCharts
type ChartSet struct {
	Charts []domain.ChartSpec
	// ExtractionFailures counts movies whose duration had no number
	ExtractionFailures int
}

// BuildCharts builds the exploratory charts of the catalog
func BuildCharts(ds *Dataset, opts ChartOptions) (*ChartSet, error) {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	if opts.TokenDelimiter == "" {
		opts.TokenDelimiter = ","
	}

	movies := ds.Filter(OfType(domain.TitleTypeMovie))

	minutes, err := movies.NumericValues(domain.FieldDuration, opts.NumericPattern)
	if err != nil {
		return nil, err
	}

	releaseYears := make([]float64, 0, movies.Len())
	for _, t := range movies.titles {
		releaseYears = append(releaseYears, float64(t.ReleaseYear))
	}

	charts := []domain.ChartSpec{
		{
			ID:     ChartContentByType,
			Kind:   domain.ChartKindBar,
			Title:  "Distribution of Content Type",
			XField: string(domain.FieldType),
			YField: "count",
			Series: []domain.ChartSeries{typeSeries(ds.TypeCounts())},
		},
		{
			ID:         ChartAddedPerYear,
			Kind:       domain.ChartKindLine,
			Title:      "Content Added Over the Years",
			XField:     string(domain.FieldYearAdded),
			YField:     "count",
			ColorField: string(domain.FieldType),
			Series:     yearTypeSeries(ds.CountByYearAndType()),
		},
		{
			ID:     ChartTopCountries,
			Kind:   domain.ChartKindBar,
			Title:  "Top " + strconv.Itoa(opts.TopK) + " Countries with Most Content",
			XField: string(domain.FieldCountry),
			YField: "count",
			Series: []domain.ChartSeries{valueSeries("count", ds.TopValues(domain.FieldCountry, opts.TokenDelimiter, opts.TopK))},
		},
		{
			ID:     ChartMovieReleaseYears,
			Kind:   domain.ChartKindHistogram,
			Title:  "Distribution of Movie Release Years",
			XField: string(domain.FieldReleaseYear),
			Series: []domain.ChartSeries{observationSeries(string(domain.FieldReleaseYear), releaseYears)},
		},
		{
			ID:     ChartRatingDistribution,
			Kind:   domain.ChartKindPie,
			Title:  "Distribution of Content Ratings",
			XField: string(domain.FieldRating),
			YField: "count",
			Series: []domain.ChartSeries{valueSeries("count", ds.ValueCounts(domain.FieldRating))},
		},
		{
			ID:     ChartTopGenres,
			Kind:   domain.ChartKindBar,
			Title:  "Top " + strconv.Itoa(opts.TopK) + " Genres",
			XField: "genre",
			YField: "count",
			Series: []domain.ChartSeries{valueSeries("count", ds.TopValues(domain.FieldListedIn, opts.TokenDelimiter, opts.TopK))},
		},
		{
			ID:     ChartMovieDuration,
			Kind:   domain.ChartKindBox,
			Title:  "Distribution of Movie Durations (minutes)",
			YField: "minutes",
			Series: []domain.ChartSeries{observationSeries("minutes", minutes.Values)},
		},
	}

	return &ChartSet{Charts: charts, ExtractionFailures: minutes.Failures}, nil
}

func typeSeries(counts []TypeCount) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, domain.ChartPoint{Label: c.Type.Label(), Value: float64(c.Count)})
	}
	return domain.ChartSeries{Name: "count", Points: points}
}

// yearTypeSeries builds one series per type, in type display order
func yearTypeSeries(counts []YearTypeCount) []domain.ChartSeries {
	byType := make(map[domain.TitleType][]domain.ChartPoint)
	for _, c := range counts {
		byType[c.Type] = append(byType[c.Type], domain.ChartPoint{
			Label: strconv.Itoa(c.Year),
			Value: float64(c.Count),
		})
	}

	series := make([]domain.ChartSeries, 0, len(byType))
	for _, tt := range domain.TitleTypes {
		if points, ok := byType[tt]; ok {
			series = append(series, domain.ChartSeries{Name: tt.Label(), Points: points})
		}
	}
	return series
}

func valueSeries(name string, counts []ValueCount) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(counts))
	for _, c := range counts {
		points = append(points, domain.ChartPoint{Label: c.Value, Value: float64(c.Count)})
	}
	return domain.ChartSeries{Name: name, Points: points}
}

func observationSeries(name string, values []float64) domain.ChartSeries {
	points := make([]domain.ChartPoint, 0, len(values))
	for _, v := range values {
		points = append(points, domain.ChartPoint{Value: v})
	}
	return domain.ChartSeries{Name: name, Points: points}
}
