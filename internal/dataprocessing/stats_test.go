package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Summary
	}{
		{
			name:   "four values",
			values: []float64{4, 1, 3, 2},
			want: Summary{
				Name: "x", Count: 4, Mean: 2.5, Std: math.Sqrt(5.0 / 3.0),
				Min: 1, Q25: 1.75, Q50: 2.5, Q75: 3.25, Max: 4,
			},
		},
		{
			name:   "odd count",
			values: []float64{10, 20, 30, 40, 50},
			want: Summary{
				Name: "x", Count: 5, Mean: 30, Std: math.Sqrt(250),
				Min: 10, Q25: 20, Q50: 30, Q75: 40, Max: 50,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Describe("x", tt.values)
			assert.Equal(t, tt.want.Count, got.Count)
			assert.InDelta(t, tt.want.Mean, got.Mean, 1e-9)
			assert.InDelta(t, tt.want.Std, got.Std, 1e-9)
			assert.InDelta(t, tt.want.Min, got.Min, 1e-9)
			assert.InDelta(t, tt.want.Q25, got.Q25, 1e-9)
			assert.InDelta(t, tt.want.Q50, got.Q50, 1e-9)
			assert.InDelta(t, tt.want.Q75, got.Q75, 1e-9)
			assert.InDelta(t, tt.want.Max, got.Max, 1e-9)
		})
	}
}

func TestDescribe_SmallSamples(t *testing.T) {
	empty := Describe("empty", nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.Max))

	single := Describe("single", []float64{7})
	assert.Equal(t, 1, single.Count)
	assert.Equal(t, 7.0, single.Mean)
	assert.True(t, math.IsNaN(single.Std))
	assert.Equal(t, 7.0, single.Q25)
	assert.Equal(t, 7.0, single.Q75)
}

func TestDescribe_DoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Describe("x", values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestDataset_SummaryStatistics(t *testing.T) {
	ds := sampleDataset(t)

	stats := ds.SummaryStatistics()
	require.Len(t, stats, 2)

	release := stats[0]
	assert.Equal(t, "release_year", release.Name)
	assert.Equal(t, 7, release.Count)
	assert.InDelta(t, 2016.0, release.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(105), release.Std, 1e-9)
	assert.Equal(t, 1993.0, release.Min)
	assert.InDelta(t, 2018.0, release.Q25, 1e-9)
	assert.InDelta(t, 2020.0, release.Q50, 1e-9)
	assert.InDelta(t, 2021.0, release.Q75, 1e-9)
	assert.Equal(t, 2021.0, release.Max)

	added := stats[1]
	assert.Equal(t, "year_added", added.Name)
	assert.Equal(t, 7, added.Count)
	assert.Equal(t, 2017.0, added.Min)
	assert.Equal(t, 2021.0, added.Max)
}
