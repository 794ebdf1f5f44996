// Package dataprocessing implements the catalog pipeline: loading a source
// into records, cleaning them through an ordered list of steps, and
// answering read-only queries over the cleaned set.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Parser: reads delimited text or xlsx sources against the fixed schema
// 2. Cleaner: runs the steps replace-missing, drop-missing, parse-date and derive-year
// 3. Dataset: counts, top-k tokens, filters, numeric extraction and statistics
// 4. Charts: builds chart specifications for external renderers
//
// # Usage
//
//	parser := dataprocessing.NewParser(logger, dataprocessing.LoadOptions{Delimiter: ','})
//	loaded, err := parser.Load(ctx, "data/titles.csv")
//	if err != nil {
//	    return err
//	}
//
//	cleaned, report, err := dataprocessing.NewCleaner(logger).Clean(ctx, loaded.Titles)
//	if err != nil {
//	    return err
//	}
//
//	ds := dataprocessing.NewDataset(cleaned)
//	indian := ds.Filter(dataprocessing.And(
//	    dataprocessing.OfType(domain.TitleTypeMovie),
//	    dataprocessing.CountryContains("India"),
//	))
//
// # Error Handling
//
// Load returns a SourceNotFoundError for a missing path and a ParseError for
// malformed data, with the offending line in the error context. Numeric
// extraction returns an ExtractionError; NumericValues and the numeric
// predicates skip the record instead.
//
// # Testing
//
// Each cleaning step is tested on its own as well as through the Cleaner.
// Use table-driven tests when adding new functionality.
package dataprocessing
