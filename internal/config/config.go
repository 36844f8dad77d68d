// =============================================================================
// Catalog Feed Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults
//   2. Main config file (config.yaml, optional when using the default path)
//   3. Environment variables (CATALOGFEED_*), including a .env file loaded by cmd
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the config path used when --config is not given.
// Unlike an explicit path, it may be absent.
const DefaultConfigFile = "config.yaml"

// envPrefix is prepended to every environment override.
const envPrefix = "CATALOGFEED_"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where feeds are written when no output path is given.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files after a successful conversion
	// when archiving is requested.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputNameFormat names generated feeds.
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {original}  - Input file name without extension
	// Default: "{original}.xml"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	// Default: "text"
	LogFormat string `yaml:"log_format"`

	// MetricsFile, when set, receives run counters in the prometheus text
	// exposition format after each conversion.
	MetricsFile string `yaml:"metrics_file"`

	// =========================================================================
	// FORMAT SETTINGS
	// =========================================================================

	CSV   CSVSettings   `yaml:"csv"`
	XML   XMLSettings   `yaml:"xml"`
	Fetch FetchSettings `yaml:"fetch"`

	// TransformationRules are applied to cells before entities are built.
	// Empty by default, which leaves every cell untouched.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`
}

// CSVSettings contains settings for reading delimited-text input.
type CSVSettings struct {
	// Delimiter separates fields. Must be a single character.
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the file, by WHATWG label
	// ("windows-1252", "iso-8859-1", "utf-8", ...).
	// Default: "windows-1252"
	Encoding string `yaml:"encoding"`
}

// XMLSettings controls the generated document layout.
type XMLSettings struct {
	// Indent is repeated once per nesting level.
	// Default: "  "
	Indent string `yaml:"indent"`

	// RootElement optionally wraps the whole feed. Empty means the
	// ExtractDate and entity elements are written at the top level.
	RootElement string `yaml:"root_element"`
}

// FetchSettings configures the JSON fetch helper.
type FetchSettings struct {
	// Timeout bounds a single request.
	// Default: 3s
	Timeout time.Duration `yaml:"timeout"`
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines the transformations to apply to one column.
type TransformationRule struct {
	// Field is the header name of the column.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is one of the names in TransformationTypes.
	Type string `yaml:"type"`

	// Value is the parameter for the transformation:
	//   - "prepend_string"      : The string to prepend
	//   - "append_string"       : The string to append
	//   - "pad_zeros_to_length" : The target length (e.g., "13")
	//   - "replace"             : The replacement string
	Value string `yaml:"value"`

	// Find is the substring replaced by "replace".
	Find string `yaml:"find,omitempty"`
}

// TransformationTypes lists every supported action type.
var TransformationTypes = []string{
	"trim",
	"uppercase",
	"lowercase",
	"prepend_string",
	"append_string",
	"replace",
	"pad_zeros_to_length",
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. When it equals
//     DefaultConfigFile and the file does not exist, defaults are used.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read or parsed, or fails validation.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && configPath == DefaultConfigFile:
		// No config file; defaults and environment only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// applyEnvOverrides copies CATALOGFEED_* variables over file values.
func applyEnvOverrides(config *MainConfig) error {
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "LOG_FORMAT"); v != "" {
		config.LogFormat = v
	}
	if v := os.Getenv(envPrefix + "OUTPUT_DIR"); v != "" {
		config.OutputDir = v
	}
	if v := os.Getenv(envPrefix + "CSV_ENCODING"); v != "" {
		config.CSV.Encoding = v
	}
	if v := os.Getenv(envPrefix + "METRICS_FILE"); v != "" {
		config.MetricsFile = v
	}
	if v := os.Getenv(envPrefix + "FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sFETCH_TIMEOUT: %w", envPrefix, err)
		}
		config.Fetch.Timeout = d
	}
	return nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}.xml"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
	if config.CSV.Encoding == "" {
		config.CSV.Encoding = "windows-1252"
	}
	if config.XML.Indent == "" {
		config.XML.Indent = "  "
	}
	if config.Fetch.Timeout == 0 {
		config.Fetch.Timeout = 3 * time.Second
	}
}

// Validate checks the configuration for values that would fail later.
func (c *MainConfig) Validate() error {
	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv.delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	if _, err := c.CSV.ResolveEncoding(); err != nil {
		return err
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}

	for _, rule := range c.TransformationRules {
		if rule.Field == "" {
			return fmt.Errorf("transformation rule without field")
		}
		for _, action := range rule.Actions {
			if !isKnownTransformation(action.Type) {
				return fmt.Errorf("field %s: unknown transformation type %q", rule.Field, action.Type)
			}
		}
	}

	return nil
}

// ResolveEncoding looks up the configured encoding by its WHATWG label.
func (s CSVSettings) ResolveEncoding() (encoding.Encoding, error) {
	enc, err := htmlindex.Get(s.Encoding)
	if err != nil {
		return nil, fmt.Errorf("csv.encoding %q: %w", s.Encoding, err)
	}
	return enc, nil
}

// DelimiterRune returns the delimiter as a rune. Validate guarantees it is
// a single character.
func (s CSVSettings) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r
}

func isKnownTransformation(t string) bool {
	for _, known := range TransformationTypes {
		if t == known {
			return true
		}
	}
	return false
}
