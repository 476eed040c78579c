// Package exams talks to the filter and exam endpoints.
package exams

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Its-donkey/examdeck/internal/ui/model"
	"github.com/Its-donkey/examdeck/logging"
)

// Default endpoint paths. They are relative, so in the browser they resolve
// against the page that loaded the bundle.
const (
	DefaultFiltersPath = "update-filters"
	DefaultExamsPath   = "get-exams"
	DefaultTimeout     = 8 * time.Second
)

const maxResponseBytes = 2 * 1024 * 1024

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL     string
	FiltersPath string
	ExamsPath   string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      *logging.Logger
}

// Client posts selections to the filter endpoints and decodes their responses.
type Client struct {
	filtersURL string
	examsURL   string
	http       *http.Client
	logger     *logging.Logger
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	filters := strings.TrimSpace(cfg.FiltersPath)
	if filters == "" {
		filters = DefaultFiltersPath
	}
	exams := strings.TrimSpace(cfg.ExamsPath)
	if exams == "" {
		exams = DefaultExamsPath
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		filtersURL: joinURL(cfg.BaseURL, filters),
		examsURL:   joinURL(cfg.BaseURL, exams),
		http:       client,
		logger:     cfg.Logger,
	}
}

// FiltersURL returns the resolved update-filters endpoint.
func (c *Client) FiltersURL() string { return c.filtersURL }

// ExamsURL returns the resolved get-exams endpoint.
func (c *Client) ExamsURL() string { return c.examsURL }

// UpdateFilters posts sel to the update-filters endpoint.
func (c *Client) UpdateFilters(ctx context.Context, sel model.Selection) (model.FilterOptions, error) {
	body, err := c.post(ctx, c.filtersURL, sel)
	if err != nil {
		return model.FilterOptions{}, err
	}
	return decodeFilterOptions(c.filtersURL, body)
}

// GetExams posts sel to the get-exams endpoint.
func (c *Client) GetExams(ctx context.Context, sel model.Selection) ([]model.Exam, error) {
	body, err := c.post(ctx, c.examsURL, sel)
	if err != nil {
		return nil, err
	}
	return decodeExams(c.examsURL, body)
}

func (c *Client) post(ctx context.Context, endpoint string, sel model.Selection) ([]byte, error) {
	requestID := uuid.NewString()
	logCtx := c.logger.WithRequestID(requestID).WithCategory("api").WithField("endpoint", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(sel.Form().Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(logging.RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logCtx.Error("request failed", err)
		return nil, fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logCtx.Error("read response failed", err)
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	logCtx.WithField("status", resp.StatusCode).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Debug("response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       snippet(body),
		}
	}
	return body, nil
}

func joinURL(base, path string) string {
	base = strings.TrimSuffix(strings.TrimSpace(base), "/")
	if base == "" {
		return path
	}
	return base + "/" + strings.TrimPrefix(path, "/")
}
