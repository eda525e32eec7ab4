// Package constants provides shared constants for the forecast-prices application.
package constants

// DateOnlyLayout is the calendar-date format used in request payloads and output.
const DateOnlyLayout = "2006-01-02"

// Timezone constants
const (
	// BusinessZoneName labels the fixed civil offset used for all date logic.
	BusinessZoneName = "Africa/Lagos"

	// BusinessZoneOffsetSeconds is GMT+1 expressed in seconds east of UTC.
	BusinessZoneOffsetSeconds = 1 * 60 * 60
)

// Locations is the enumerated set of places the prediction service covers.
// Order matters: it is the order used in the upload template.
var Locations = []string{"Lagos", "Abuja", "Anambra", "Kano", "Rivers", "Oyo"}

// Indicator bounds
const (
	// IndicatorMin is the lower bound for CPI, PMS price, and central USD rate.
	IndicatorMin = 0.0

	// IndicatorMax is the upper bound for CPI, PMS price, and central USD rate.
	IndicatorMax = 10000.0

	// MPRMin is the lower bound for the monetary policy rate.
	MPRMin = 0.0

	// MPRMax is the upper bound for the monetary policy rate (percent).
	MPRMax = 100.0
)

// Upload constants
const (
	// MaxUploadSizeBytes is the maximum accepted batch spreadsheet size (5 MiB).
	MaxUploadSizeBytes int64 = 5 * 1024 * 1024

	// MIMETypeXLSX is the MIME type of modern Excel workbooks.
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// MIMETypeXLS is the MIME type of legacy Excel workbooks.
	MIMETypeXLS = "application/vnd.ms-excel"
)

// Service defaults
const (
	// DefaultServiceBaseURL is the default prediction service address.
	DefaultServiceBaseURL = "http://localhost:8000"

	// DefaultPredictPath is the single-prediction endpoint path.
	DefaultPredictPath = "/api/predict"

	// DefaultBatchPath is the batch-upload endpoint path.
	DefaultBatchPath = "/predict"

	// DefaultTimeoutSeconds is the default HTTP client timeout.
	DefaultTimeoutSeconds = 30
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatChart is the bar-chart output format for batch results
	OutputFormatChart = "chart"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)
