// Package shared groups helpers used across the catalog packages.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- Catalog fixtures: the sample catalog source and a title builder
//	- A buffered slog handler for asserting on log records
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    fixtures := testutil.NewCatalogTestFixtures(t.TempDir())
//	    path, err := fixtures.WriteSampleCatalog()
//	    require.NoError(t, err)
//
//	    logger, handler := testutil.NewTestLogger(t)
//	    // ...
//	    testutil.AssertLogContains(t, handler, slog.LevelInfo, "Catalog loaded")
//	}
package shared
