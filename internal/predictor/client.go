// Package predictor is the HTTP client for the remote prediction service.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/netojaycee/forecast-prices-app/internal/schema"
	"github.com/netojaycee/forecast-prices-app/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// LocationPrice is one entry of a batch prediction, in the order returned by
// the service.
type LocationPrice struct {
	Location string  `json:"location"`
	Price    float64 `json:"price"`
}

// Config holds the client's connection parameters.
type Config struct {
	BaseURL           string
	PredictPath       string
	BatchPath         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client calls the prediction service. When a rate limit is configured each
// request waits for limiter permission before being sent.
type Client struct {
	baseURL     string
	predictPath string
	batchPath   string
	httpClient  *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// New creates a prediction service client.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.DefaultServiceBaseURL
	}
	predictPath := cfg.PredictPath
	if predictPath == "" {
		predictPath = constants.DefaultPredictPath
	}
	batchPath := cfg.BatchPath
	if batchPath == "" {
		batchPath = constants.DefaultBatchPath
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTimeoutSeconds * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:     baseURL,
		predictPath: predictPath,
		batchPath:   batchPath,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     limiter,
		logger:      logger,
	}
}

// Predict submits a single prediction request and returns the forecast price.
func (c *Client) Predict(ctx context.Context, payload schema.Payload) (float64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.predictPath, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	respBody, status, err := c.do(req)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("prediction request completed",
		zap.String("op", "predictor.Predict"),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)

	var response struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	return response.Price, nil
}

// PredictBatch uploads a spreadsheet as a multipart payload and returns the
// per-location predictions in the order the service produced them.
func (c *Client) PredictBatch(ctx context.Context, filename string, file io.Reader) ([]LocationPrice, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.batchPath, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	start := time.Now()
	respBody, status, err := c.do(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("batch request completed",
		zap.String("op", "predictor.PredictBatch"),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)

	var response struct {
		Predictions []LocationPrice `json:"predictions"`
	}
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return response.Predictions, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return nil
}

// do executes the request, reads the body, and treats any non-2xx status as
// an error. No structured error payload is parsed; the status line is enough
// for the workflows, which surface a generic notification anyway.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, fmt.Errorf("service error (status %d)", resp.StatusCode)
	}
	return body, resp.StatusCode, nil
}
