// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/netojaycee/forecast-prices-app/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the forecast-prices client.
type Configuration struct {
	Service ServiceConfig `yaml:"service,omitempty"`
	Upload  UploadConfig  `yaml:"upload,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`

	maxUploadBytes int64
}

// ServiceConfig holds the prediction service connection parameters.
type ServiceConfig struct {
	BaseURL           string  `yaml:"baseUrl,omitempty"`
	PredictPath       string  `yaml:"predictPath,omitempty"`
	BatchPath         string  `yaml:"batchPath,omitempty"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds,omitempty"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"` // 0 disables client-side rate limiting
	Burst             int     `yaml:"burst,omitempty"`
}

// UploadConfig holds the batch spreadsheet preflight options.
type UploadConfig struct {
	MaxSize string `yaml:"maxSize,omitempty"` // human-friendly size, e.g. "5M", "512K"
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, chart, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. An empty path yields the defaults without error.
func LoadConfiguration(configPath string) (*Configuration, error) {
	var configuration Configuration

	if configPath != "" {
		v := viper.New()
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
		if err := v.Unmarshal(&configuration); err != nil {
			return nil, fmt.Errorf("unable to decode into struct, %s", err)
		}
	}

	configuration.applyDefaults()
	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// LoadConfigurationFromReader loads a YAML configuration from an in-memory
// source, primarily for tests.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	if err := configuration.normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (conf *Configuration) applyDefaults() {
	if conf.Service.BaseURL == "" {
		conf.Service.BaseURL = constants.DefaultServiceBaseURL
	}
	if conf.Service.PredictPath == "" {
		conf.Service.PredictPath = constants.DefaultPredictPath
	}
	if conf.Service.BatchPath == "" {
		conf.Service.BatchPath = constants.DefaultBatchPath
	}
	if conf.Service.TimeoutSeconds <= 0 {
		conf.Service.TimeoutSeconds = constants.DefaultTimeoutSeconds
	}
	if conf.Output.Format == "" {
		conf.Output.Format = constants.OutputFormatPretty
	}
}

// normalize resolves the human-friendly upload size into bytes.
func (conf *Configuration) normalize() error {
	sizeStr := strings.TrimSpace(conf.Upload.MaxSize)
	if sizeStr == "" {
		conf.maxUploadBytes = constants.MaxUploadSizeBytes
		conf.Upload.MaxSize = fmt.Sprintf("%d", constants.MaxUploadSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.MaxUploadSizeBytes
	}
	conf.maxUploadBytes = bytes
	return nil
}

// Timeout returns the configured HTTP timeout as a duration.
func (conf *Configuration) Timeout() time.Duration {
	return time.Duration(conf.Service.TimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the configured upload size cap in bytes.
func (conf *Configuration) MaxUploadBytes() int64 {
	return conf.maxUploadBytes
}

// ParseSize converts a human-friendly byte string (e.g., "512K", "5M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.MaxUploadSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	if numPart == "" {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	case "G", "GB":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if !strings.HasPrefix(conf.Service.BaseURL, "http://") && !strings.HasPrefix(conf.Service.BaseURL, "https://") {
		warnings = append(warnings, fmt.Sprintf("service baseUrl %q does not look like an HTTP endpoint", conf.Service.BaseURL))
	}

	if conf.Service.RequestsPerSecond < 0 {
		warnings = append(warnings, "service requestsPerSecond is negative - rate limiting will be disabled")
	}
	if conf.Service.RequestsPerSecond > 0 && conf.Service.Burst < 1 {
		warnings = append(warnings, "service burst below 1 - a minimum burst of 1 will be used")
	}

	if conf.maxUploadBytes > constants.MaxUploadSizeBytes {
		warnings = append(warnings, fmt.Sprintf("upload maxSize %s exceeds the service limit of 5 MiB - oversized files will be rejected by the service", conf.Upload.MaxSize))
	}

	switch conf.Output.Format {
	case constants.OutputFormatPretty, constants.OutputFormatChart, constants.OutputFormatCSV:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown output format %q - falling back to %s", conf.Output.Format, constants.OutputFormatPretty))
	}

	return warnings
}
