package dataprocessing

import (
	"math"
	"sort"

	"catalogcli/pkg/contracts/domain"
)

// Summary holds descriptive statistics of one numeric series.
// Std is the sample standard deviation; quartiles use linear interpolation.
// Values are NaN where they are undefined for the sample size.
type Summary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"q25"`
	Q50   float64 `json:"q50"`
	Q75   float64 `json:"q75"`
	Max   float64 `json:"max"`
}

// SummaryStatistics describes every numeric field of the dataset
func (d *Dataset) SummaryStatistics() []Summary {
	summaries := make([]Summary, 0, len(domain.NumericFields))
	for _, field := range domain.NumericFields {
		values := make([]float64, 0, len(d.titles))
		for _, t := range d.titles {
			if v, ok := field.Number(t); ok {
				values = append(values, float64(v))
			}
		}
		summaries = append(summaries, Describe(string(field), values))
	}
	return summaries
}

// Describe computes count, mean, std, min, quartiles and max of values
func Describe(name string, values []float64) Summary {
	s := Summary{Name: name, Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = calculateMean(sorted)
	s.Std = calculateStdDev(sorted, s.Mean)
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

func calculateMean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateStdDev returns the sample standard deviation (n-1)
func calculateStdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// quantile interpolates linearly between the closest ranks of sorted
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
