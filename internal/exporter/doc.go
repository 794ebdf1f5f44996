// Package exporter writes the results of a catalog run to disk.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// CatalogExporter: Writes the cleaned catalog and its aggregate tables
// (type counts, per-year counts, top countries and genres, ratings, summary
// statistics).
//
// JSONRenderer and XLSXRenderer: Chart renderers. The JSON renderer writes
// the chart specifications as a document for external tools; the XLSX
// renderer writes a workbook with one sheet and one native chart per spec.
//
// Example usage:
//
//	paths := config.NewPaths(cfg)
//	exp := exporter.NewCatalogExporter(paths, logger, cfg.Output.BOMPrefix)
//	if err := exp.ExportCleaned(ctx, ds); err != nil {
//	    return err
//	}
//
//	renderer := exporter.NewXLSXRenderer(paths.Workbook, logger)
//	err := renderer.Render(ctx, charts)
package exporter
