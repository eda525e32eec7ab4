package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/netojaycee/forecast-prices-app/internal/config"
	"github.com/netojaycee/forecast-prices-app/internal/notify"
	"github.com/netojaycee/forecast-prices-app/internal/predictor"
	"github.com/netojaycee/forecast-prices-app/internal/schema"
	"github.com/netojaycee/forecast-prices-app/internal/upload"
	"github.com/netojaycee/forecast-prices-app/internal/workbook"
	"github.com/netojaycee/forecast-prices-app/internal/workflow"
	"github.com/netojaycee/forecast-prices-app/pkg/civildate"
	"github.com/netojaycee/forecast-prices-app/pkg/constants"
	"github.com/netojaycee/forecast-prices-app/pkg/output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	// Optional .env for SERVICE_* style overrides picked up by viper.
	_ = godotenv.Load()

	configLocation := flag.String("config", "", "path to configuration file (optional)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, chart, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")

	templatePath := flag.String("template", "", "write a batch upload template workbook to this path and exit")
	batchFile := flag.String("file", "", "spreadsheet to submit for batch prediction")

	location := flag.String("location", "", "location for a single prediction (Lagos, Abuja, Anambra, Kano, Rivers, Oyo)")
	date := flag.String("date", "", "prediction date as YYYY-MM-DD in GMT+1 (defaults to today)")
	cpi := flag.Float64("cpi", 0, "consumer price index for food items")
	pms := flag.Float64("pms", 0, "PMS (petrol) price in naira per liter")
	rate := flag.Float64("rate", 0, "central USD exchange rate")
	mpr := flag.Float64("mpr", 0, "monetary policy rate in percent")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if *templatePath != "" {
		if err := workbook.WriteTemplate(*templatePath, time.Now()); err != nil {
			logger.Fatal("failed to write template workbook",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		fmt.Printf("Template written to %s\n", *templatePath)
		return
	}

	client := predictor.New(predictor.Config{
		BaseURL:           conf.Service.BaseURL,
		PredictPath:       conf.Service.PredictPath,
		BatchPath:         conf.Service.BatchPath,
		Timeout:           conf.Timeout(),
		RequestsPerSecond: conf.Service.RequestsPerSecond,
		Burst:             conf.Service.Burst,
	}, logger)
	notifier := notify.NewConsole(os.Stderr)
	ctx := context.Background()

	if *batchFile != "" {
		validator := upload.NewValidator(conf.MaxUploadBytes())
		runBatch(ctx, logger, client, validator, notifier, *batchFile, outputFormat)
		return
	}

	runSingle(ctx, logger, client, notifier, singleInput{
		location: *location,
		date:     *date,
		cpi:      *cpi,
		pms:      *pms,
		rate:     *rate,
		mpr:      *mpr,
	})
}

type singleInput struct {
	location string
	date     string
	cpi      float64
	pms      float64
	rate     float64
	mpr      float64
}

func runSingle(ctx context.Context, logger *zap.Logger, client *predictor.Client, notifier notify.Notifier, in singleInput) {
	day := time.Now()
	if in.date != "" {
		parsed, err := civildate.Parse(in.date)
		if err != nil {
			logger.Fatal("invalid date, expected YYYY-MM-DD",
				zap.String("op", "main"),
				zap.String("date", in.date),
				zap.Error(err),
			)
		}
		day = parsed.StartOfDay()
	}

	w := workflow.New(schema.New(), client, notifier, logger)
	w.SetOnResult(func(result workflow.Prediction) {
		output.PrettyFormat(os.Stdout, result)
	})

	err := w.Submit(ctx, schema.PredictionRequest{
		Location:       in.location,
		Date:           day,
		CPIFoodItems:   in.cpi,
		PMSPrice:       in.pms,
		CentralRateUSD: in.rate,
		MPR:            in.mpr,
	})
	if errors.Is(err, workflow.ErrValidationFailed) {
		printViolations(w.Violations())
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

func runBatch(ctx context.Context, logger *zap.Logger, client *predictor.Client, validator *upload.Validator, notifier notify.Notifier, path string, outputFormat string) {
	file, err := os.Open(path)
	if err != nil {
		logger.Fatal("failed to open spreadsheet",
			zap.String("op", "main"),
			zap.String("file", path),
			zap.Error(err),
		)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		logger.Fatal("failed to stat spreadsheet",
			zap.String("op", "main"),
			zap.String("file", path),
			zap.Error(err),
		)
	}

	// Sniff the workbook signature, then rewind for the upload itself.
	head := make([]byte, 8)
	n, _ := file.Read(head)
	if _, err := file.Seek(0, 0); err != nil {
		logger.Fatal("failed to rewind spreadsheet",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	w := workflow.NewBatch(client, validator, notifier, logger)
	w.SetOnResult(func(predictions []predictor.LocationPrice) {
		switch outputFormat {
		case constants.OutputFormatCSV:
			output.CsvFormat(os.Stdout, predictions)
		default:
			output.ChartFormat(os.Stdout, predictions)
		}
	})

	err = w.Submit(ctx, upload.File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: upload.DetectContentType(head[:n]),
	}, file)
	if errors.Is(err, workflow.ErrValidationFailed) {
		printBatchViolations(w.Violations())
		os.Exit(1)
	}
	if err != nil {
		os.Exit(1)
	}
}

func printViolations(violations schema.Violations) {
	fields := make([]string, 0, len(violations))
	for field := range violations {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(os.Stderr, "%s: %s\n", field, violations[field])
	}
}

func printBatchViolations(violations upload.Violations) {
	for field, msg := range violations {
		fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
	}
}
