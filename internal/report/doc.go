// Package report prints the console summary of a catalog run: previews of
// the cleaned records, totals per type, the source columns and their missing
// values, the cleaning steps, summary statistics and the size of the
// exploratory subsets.
package report
