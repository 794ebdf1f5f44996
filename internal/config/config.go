package config

import (
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"catalogcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Query     QueryConfig     `yaml:"query" envconfig:"QUERY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes the catalog source
type InputConfig struct {
	Path      string `yaml:"path" envconfig:"PATH" validate:"required"`
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"omitempty,single_rune"`
	Sheet     string `yaml:"sheet" envconfig:"SHEET"`
}

// OutputConfig controls console output and the files written by a run
type OutputConfig struct {
	Dir         string `yaml:"dir" envconfig:"DIR" validate:"required"`
	PreviewRows int    `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" validate:"min=0,max=100"`
	ChartsJSON  bool   `yaml:"charts_json" envconfig:"CHARTS_JSON"`
	Workbook    bool   `yaml:"workbook" envconfig:"WORKBOOK"`
	ExportCSV   bool   `yaml:"export_csv" envconfig:"EXPORT_CSV"`
	BOMPrefix   bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// QueryConfig parameterizes the exploratory queries printed by a run
type QueryConfig struct {
	TopK           int    `yaml:"top_k" envconfig:"TOP_K" validate:"min=1,max=1000"`
	TokenDelimiter string `yaml:"token_delimiter" envconfig:"TOKEN_DELIMITER" validate:"required"`
	NumericPattern string `yaml:"numeric_pattern" envconfig:"NUMERIC_PATTERN" validate:"required,pattern"`
	Country        string `yaml:"country" envconfig:"COUNTRY"`
	ReleasedAfter  int    `yaml:"released_after" envconfig:"RELEASED_AFTER" validate:"min=0"`
	MinSeasons     int    `yaml:"min_seasons" envconfig:"MIN_SEASONS" validate:"min=0"`
	Genre          string `yaml:"genre" envconfig:"GENRE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console stderr file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"min=0,max=1"`
	Metrics       bool    `yaml:"metrics" envconfig:"METRICS"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// CATALOG_* environment variables, in increasing order of precedence.
// An empty configFile falls back to CATALOG_CONFIG_FILE and then to the
// well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	explicit := configFile != ""
	if !explicit {
		configFile = os.Getenv(EnvPrefix + "_CONFIG_FILE")
		explicit = configFile != ""
	}
	if !explicit {
		configFile = getConfigFilePath()
	}

	if configFile != "" {
		if !FileExists(configFile) {
			if explicit {
				return nil, errors.NewConfigError(fmt.Sprintf("config file %s not found", configFile), os.ErrNotExist).
					WithContext("path", configFile)
			}
		} else if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes logging settings
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return errors.NewConfigError(strings.Join(msgs, "; "), nil)
		}
		return errors.NewConfigError("config validation failed", err)
	}

	if c.Logging.Level == "warning" {
		c.Logging.Level = "warn"
	}
	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	return nil
}

// newValidator creates a validator that reports yaml field names
func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "single_rune", isSingleRune)
	mustRegister(v, "pattern", isPattern)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// mustRegister panics on a bad tag or nil func, both programming errors
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// isSingleRune accepts delimiters the CSV reader can use. "\t" is accepted
// as an escape for tab.
func isSingleRune(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == `\t` {
		return true
	}
	return utf8.RuneCountInString(s) == 1 && s != "\n" && s != "\r" && s != `"`
}

func isPattern(fl validator.FieldLevel) bool {
	_, err := regexp.Compile(fl.Field().String())
	return err == nil
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Namespace(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	case "single_rune":
		return fmt.Sprintf("%s must be a single character", fe.Namespace())
	case "pattern":
		return fmt.Sprintf("%s must be a valid regular expression", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

// DelimiterRune returns the input delimiter as a rune. An empty delimiter
// yields zero so the parser picks one from the source extension.
func (c InputConfig) DelimiterRune() rune {
	if c.Delimiter == "" {
		return 0
	}
	if c.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// getConfigFilePath returns the first existing well-known config file
func getConfigFilePath() string {
	locations := []string{
		"catalog.yaml",
		"configs/catalog.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path: DefaultInputPath,
		},
		Output: OutputConfig{
			Dir:         DefaultOutputDir,
			PreviewRows: 5,
			ChartsJSON:  true,
			Workbook:    true,
			ExportCSV:   true,
			BOMPrefix:   true,
		},
		Query: QueryConfig{
			TopK:           10,
			TokenDelimiter: ",",
			NumericPattern: `\d+`,
			Country:        "India",
			ReleasedAfter:  2015,
			MinSeasons:     3,
			Genre:          "Action",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "stderr",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			SampleRatio:   1.0,
			Metrics:       true,
		},
	}
}
