package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"catalogcli/internal/shared/testutil"
	"catalogcli/pkg/contracts/domain"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{13.4, "13.40"},
		{2016, "2016.00"},
		{10.246950766, "10.25"},
		{-1.005, "-1.00"},
		{math.NaN(), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.input))
	}
}

func TestTitleRecord(t *testing.T) {
	cleaned := testutil.NewTitle(domain.TitleTypeTVShow,
		testutil.WithName("Kota Factory"),
		testutil.WithCountry("India"),
		testutil.WithDateAdded("2021-09-24"),
		testutil.WithReleaseYear(2021),
		testutil.WithDuration("2 Seasons"),
		testutil.Cleaned())

	record := titleRecord(cleaned)
	assert.Len(t, record, len(CleanedHeaders))
	assert.Equal(t, "TV Show", record[1])
	assert.Equal(t, "Kota Factory", record[2])
	assert.Equal(t, "2021-09-24", record[6])
	assert.Equal(t, "2021", record[7])
	assert.Equal(t, "2021", record[8])

	raw := testutil.NewTitle(domain.TitleTypeMovie)
	record = titleRecord(raw)
	assert.Equal(t, "", record[6])
	assert.Equal(t, "", record[7])
}
