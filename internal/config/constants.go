package config

// Application constants
const (
	// Application Info
	AppName = "Catalog Pulse"

	// EnvPrefix namespaces all environment variables (CATALOG_INPUT_PATH, ...)
	EnvPrefix = "CATALOG"

	// Default locations, relative to the working directory
	DefaultInputPath = "data/titles.csv"
	DefaultOutputDir = "reports"
	DefaultLogFile   = "logs/catalog.log"

	// Well-known output file names inside the output directory
	ChartsJSONFile   = "charts.json"
	WorkbookFile     = "charts.xlsx"
	CleanedCSVFile   = "titles_cleaned.csv"
	MetricsFile      = "catalog.prom"
	AggregatesSubdir = "aggregates"

	// Date format used for every exported date
	DateFormat = "2006-01-02"
)
