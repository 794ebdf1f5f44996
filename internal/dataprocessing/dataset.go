package dataprocessing

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"catalogcli/internal/errors"
	"catalogcli/pkg/contracts/domain"
)

// DefaultNumericPattern extracts the first run of digits, e.g. "4 Seasons" → 4
const DefaultNumericPattern = `\d+`

var defaultNumericRe = regexp.MustCompile(DefaultNumericPattern)

// Dataset is a read-only view over a cleaned set of titles.
// All queries are pure and never modify the underlying records.
type Dataset struct {
	titles []domain.Title
}

// NewDataset wraps a copy of titles
func NewDataset(titles []domain.Title) *Dataset {
	return &Dataset{titles: append([]domain.Title(nil), titles...)}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.titles)
}

// Titles returns a copy of the records
func (d *Dataset) Titles() []domain.Title {
	return append([]domain.Title(nil), d.titles...)
}

// Head returns up to n records from the start
func (d *Dataset) Head(n int) []domain.Title {
	if n <= 0 {
		return nil
	}
	if n > len(d.titles) {
		n = len(d.titles)
	}
	return append([]domain.Title(nil), d.titles[:n]...)
}

// Tail returns up to n records from the end
func (d *Dataset) Tail(n int) []domain.Title {
	if n <= 0 {
		return nil
	}
	if n > len(d.titles) {
		n = len(d.titles)
	}
	return append([]domain.Title(nil), d.titles[len(d.titles)-n:]...)
}

// TypeCount is the number of records of one type
type TypeCount struct {
	Type  domain.TitleType `json:"type"`
	Count int              `json:"count"`
}

// YearTypeCount is the number of records of one type added in one year
type YearTypeCount struct {
	Year  int              `json:"year_added"`
	Type  domain.TitleType `json:"type"`
	Count int              `json:"count"`
}

// ValueCount is the number of occurrences of a value or token
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CountByType maps each type to its number of records
func (d *Dataset) CountByType() map[domain.TitleType]int {
	counts := make(map[domain.TitleType]int, len(domain.TitleTypes))
	for _, t := range d.titles {
		counts[t.Type]++
	}
	return counts
}

// TypeCounts returns CountByType in display order, including empty types
func (d *Dataset) TypeCounts() []TypeCount {
	counts := d.CountByType()
	result := make([]TypeCount, 0, len(domain.TitleTypes))
	for _, tt := range domain.TitleTypes {
		result = append(result, TypeCount{Type: tt, Count: counts[tt]})
	}
	return result
}

// CountByYearAndType counts records per (year_added, type) pair, ordered by
// year ascending and then by type display order. Pairs with no records are
// omitted.
func (d *Dataset) CountByYearAndType() []YearTypeCount {
	type key struct {
		year int
		tt   domain.TitleType
	}
	counts := make(map[key]int)
	for _, t := range d.titles {
		counts[key{t.YearAdded, t.Type}]++
	}

	result := make([]YearTypeCount, 0, len(counts))
	for k, n := range counts {
		result = append(result, YearTypeCount{Year: k.year, Type: k.tt, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return typeOrder(result[i].Type) < typeOrder(result[j].Type)
	})
	return result
}

func typeOrder(t domain.TitleType) int {
	for i, tt := range domain.TitleTypes {
		if tt == t {
			return i
		}
	}
	return len(domain.TitleTypes)
}

// TopValues splits field on delimiter, counts the trimmed non-empty tokens
// across all records, and returns the k most frequent by count descending.
// Ties keep first-encountered order. k <= 0 returns every token.
func (d *Dataset) TopValues(field domain.Field, delimiter string, k int) []ValueCount {
	counter := newOrderedCounter()
	for _, t := range d.titles {
		for _, token := range splitTokens(field.Value(t), delimiter) {
			counter.add(token)
		}
	}
	return counter.top(k)
}

// ValueCounts counts whole values of field, most frequent first.
// Absent values are not counted.
func (d *Dataset) ValueCounts(field domain.Field) []ValueCount {
	counter := newOrderedCounter()
	for _, t := range d.titles {
		if v := strings.TrimSpace(field.Value(t)); v != "" {
			counter.add(v)
		}
	}
	return counter.top(0)
}

// UniqueCount returns the number of distinct values of field. With a
// delimiter, distinct tokens are counted instead of whole values.
func (d *Dataset) UniqueCount(field domain.Field, delimiter string) int {
	seen := make(map[string]struct{})
	for _, t := range d.titles {
		value := field.Value(t)
		if delimiter == "" {
			if v := strings.TrimSpace(value); v != "" {
				seen[norm.NFC.String(v)] = struct{}{}
			}
			continue
		}
		for _, token := range splitTokens(value, delimiter) {
			seen[token] = struct{}{}
		}
	}
	return len(seen)
}

// splitTokens splits value on delimiter and returns the trimmed, NFC
// normalized, non-empty tokens
func splitTokens(value, delimiter string) []string {
	if delimiter == "" {
		delimiter = ","
	}
	parts := strings.Split(value, delimiter)
	tokens := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, norm.NFC.String(p))
		}
	}
	return tokens
}

// orderedCounter counts keys while remembering first-seen order
type orderedCounter struct {
	index  map[string]int
	counts []ValueCount
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{index: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.counts[i].Count++
		return
	}
	c.index[key] = len(c.counts)
	c.counts = append(c.counts, ValueCount{Value: key, Count: 1})
}

func (c *orderedCounter) top(k int) []ValueCount {
	result := append([]ValueCount{}, c.counts...)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if k > 0 && len(result) > k {
		result = result[:k]
	}
	return result
}

// Predicate selects records
type Predicate func(domain.Title) bool

// Filter returns the records matching p as a new dataset, in original order
func (d *Dataset) Filter(p Predicate) *Dataset {
	out := make([]domain.Title, 0)
	for _, t := range d.titles {
		if p(t) {
			out = append(out, t)
		}
	}
	return &Dataset{titles: out}
}

// OfType matches records of the given type
func OfType(tt domain.TitleType) Predicate {
	return func(t domain.Title) bool { return t.Type == tt }
}

// CountryContains matches records whose country list contains substr
func CountryContains(substr string) Predicate {
	return func(t domain.Title) bool { return strings.Contains(t.Country, substr) }
}

// ReleasedAfter matches records released strictly after year
func ReleasedAfter(year int) Predicate {
	return func(t domain.Title) bool { return t.ReleaseYear > year }
}

// GenreContains matches records whose genre list contains genre, ignoring case
func GenreContains(genre string) Predicate {
	fold := cases.Fold()
	genre = fold.String(norm.NFC.String(genre))
	return func(t domain.Title) bool {
		return strings.Contains(fold.String(norm.NFC.String(t.ListedIn)), genre)
	}
}

// NumberAbove matches records whose field yields an integer above n when
// extracted with re. Records without a match are excluded.
func NumberAbove(field domain.Field, re *regexp.Regexp, n int) Predicate {
	return func(t domain.Title) bool {
		v, err := extractInt(re, field.Value(t))
		return err == nil && v > n
	}
}

// DurationAbove matches records whose duration holds a number above n,
// e.g. more than 3 seasons
func DurationAbove(n int) Predicate {
	return NumberAbove(domain.FieldDuration, defaultNumericRe, n)
}

// And matches records satisfying every predicate
func And(preds ...Predicate) Predicate {
	return func(t domain.Title) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

// NumericFromText extracts the first match of pattern from text as an integer.
// When pattern has capture groups the first group is converted.
// It returns an ExtractionError when nothing matches.
func NumericFromText(text, pattern string) (int, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return 0, err
	}
	return extractInt(re, text)
}

func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || pattern == DefaultNumericPattern {
		return defaultNumericRe, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewValidationError("invalid numeric pattern", err).WithContext("pattern", pattern)
	}
	return re, nil
}

// extractInt converts the first capture group of re, or the whole match
// when re has no groups
func extractInt(re *regexp.Regexp, text string) (int, error) {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return 0, errors.NewExtractionError(text, re.String())
	}
	match := groups[0]
	if re.NumSubexp() > 0 {
		match = groups[1]
	}
	v, err := strconv.Atoi(strings.TrimSpace(match))
	if err != nil {
		return 0, errors.NewExtractionError(text, re.String())
	}
	return v, nil
}

// NumericResult holds values extracted from a text field
type NumericResult struct {
	Values   []float64
	Failures int
}

// NumericValues extracts an integer from field of every record. Records
// without a match are skipped and counted as failures.
func (d *Dataset) NumericValues(field domain.Field, pattern string) (NumericResult, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return NumericResult{}, err
	}

	result := NumericResult{Values: make([]float64, 0, len(d.titles))}
	for _, t := range d.titles {
		v, err := extractInt(re, field.Value(t))
		if err != nil {
			result.Failures++
			continue
		}
		result.Values = append(result.Values, float64(v))
	}
	return result, nil
}
