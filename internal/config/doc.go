// Package config provides centralized configuration management for the catalog tool.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (catalog.yaml or configs/catalog.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CATALOG_<SECTION>_<FIELD>:
//
//	CATALOG_INPUT_PATH=data/netflix_titles.csv
//	CATALOG_INPUT_DELIMITER=;
//	CATALOG_OUTPUT_DIR=reports
//	CATALOG_QUERY_TOP_K=10
//	CATALOG_LOGGING_LEVEL=debug
//	CATALOG_TELEMETRY_TRACE_EXPORTER=stdout
//
// CATALOG_CONFIG_FILE selects an explicit YAML file.
//
// # Path Management
//
// Paths derives every file location of a run from the loaded Config:
//
//	paths := config.NewPaths(cfg)
//	if err := paths.EnsureDirectories(); err != nil {
//	    return err
//	}
//
// # Validation
//
// Configuration is validated with struct tags at load time. Errors name the
// YAML key that failed, for example "Config.query.top_k must satisfy min=1".
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
