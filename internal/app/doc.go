// Package app wires the components of a catalog run and executes it.
//
// # Run Flow
//
// A run is strictly sequential:
//
//	1. Load the catalog source (CSV or XLSX) into memory
//	2. Clean it through the ordered cleaning steps
//	3. Print the console report (previews, totals, statistics, subsets)
//	4. Build the chart specifications and hand them to every renderer
//	5. Export the cleaned catalog and its aggregate tables
//
// Load errors (missing source, malformed rows) are returned unchanged so
// the caller can report them and exit non-zero.
//
// # Usage
//
//	a, err := app.NewApplication(ctx, cfg, app.Options{})
//	if err != nil {
//	    return err
//	}
//	defer a.Shutdown(ctx)
//	result, err := a.Run(ctx)
//
// # Observability
//
// Each run carries a run ID in its context, which the logger adds to every
// record. Spans cover the run, the load, each cleaning step and rendering.
// Shutdown writes the pipeline metrics as a Prometheus textfile when metrics
// are enabled.
package app
