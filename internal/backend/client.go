// Package backend talks to the audit backend over its narrow REST
// contract: saving sheet values, reading the session status, loading
// and storing a day's SD entries, fetching the validation summary and
// exporting SetD variances.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"rj-nightaudit-service/internal/cells"
	"rj-nightaudit-service/internal/sd"
	apperrors "rj-nightaudit-service/pkg/errors"
	"rj-nightaudit-service/pkg/logger"
)

// Config holds backend connection settings
type Config struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// DefaultConfig returns the standard backend settings
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:5000",
		Timeout: 10 * time.Second,
	}
}

// Validate checks the backend configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("backend base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	return nil
}

// Client is the audit backend REST client. Calls that fail leave the
// caller's state untouched and are never retried automatically.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// NewClient creates a backend client
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		http:    &http.Client{Timeout: config.Timeout},
		logger:  logger.GetGlobalLogger().WithComponent("backend"),
	}, nil
}

// SaveResult is the backend's answer to a sheet save
type SaveResult struct {
	Success     bool `json:"success"`
	CellsFilled int  `json:"cells_filled"`
}

// SaveSheet sends one sheet's field values. Empty cells are never
// serialized; the backend only sees what the auditor actually entered.
func (c *Client) SaveSheet(ctx context.Context, sheet cells.Sheet, fields map[string]cells.Value) (*SaveResult, error) {
	payload := make(map[string]string, len(fields))
	for ref, value := range fields {
		if value.IsEmpty() {
			continue
		}
		payload[ref] = value.Text()
	}

	var result SaveResult
	endpoint := fmt.Sprintf("/api/sheets/%s/save", sheet)
	if err := c.do(ctx, http.MethodPost, endpoint, payload, &result); err != nil {
		return nil, err
	}

	c.logger.WithFields(logger.Fields{
		"sheet": sheet,
		"cells": len(payload),
	}).Debug("Sheet saved")
	return &result, nil
}

// Status describes the backend session
type Status struct {
	FileLoaded bool   `json:"file_loaded"`
	CurrentDay int    `json:"current_day"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
}

// Status fetches the backend session status
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// DayEntries is one day's SD payload: the entry lines plus the date
// label the backend read off the sheet.
type DayEntries struct {
	Day     int        `json:"day"`
	Date    string     `json:"date"`
	Entries []sd.Entry `json:"entries"`
}

// GetEntries loads the SD entries of one day
func (c *Client) GetEntries(ctx context.Context, day int) (*DayEntries, error) {
	var payload DayEntries
	endpoint := fmt.Sprintf("/api/sd/%d", day)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Day != 0 && payload.Day != day {
		c.logger.WithFields(logger.Fields{
			"requested": day,
			"received":  payload.Day,
		}).Warn("Backend returned entries for a different day")
	}
	return &payload, nil
}

// PutEntries replaces the SD entries of one day
func (c *Client) PutEntries(ctx context.Context, day int, entries []sd.Entry) error {
	endpoint := fmt.Sprintf("/api/sd/%d", day)
	return c.do(ctx, http.MethodPut, endpoint, entries, nil)
}

// ValidationCheck is one backend-side validation result
type ValidationCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ValidationReport is the backend's validation summary, consumed
// read-only.
type ValidationReport struct {
	Overall string            `json:"overall"`
	Checks  []ValidationCheck `json:"checks"`
}

// Validate fetches the backend's validation summary
func (c *Client) Validate(ctx context.Context) (*ValidationReport, error) {
	var report ValidationReport
	if err := c.do(ctx, http.MethodGet, "/api/validate", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ExportResult is the backend's answer to a SetD export
type ExportResult struct {
	Success   bool     `json:"success"`
	Unmatched []string `json:"unmatched,omitempty"`
}

// ExportSetD sends the matched variances of one day to the SetD
// workbook.
func (c *Client) ExportSetD(ctx context.Context, day int, variances []sd.Variance) (*ExportResult, error) {
	if len(variances) == 0 {
		return nil, apperrors.ExportError(apperrors.CodeNothingToSend, "", nil)
	}

	body := map[string]interface{}{
		"day":       day,
		"variances": variances,
	}
	var result ExportResult
	if err := c.do(ctx, http.MethodPost, "/api/setd/export", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.InternalError(apperrors.CodeUnexpectedError, "encoding request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return apperrors.NetworkError(apperrors.CodeBackendFailure, endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NetworkError(timeoutCode(err), endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NetworkError(apperrors.CodeBadResponse, endpoint,
			fmt.Errorf("status %d", resp.StatusCode)).
			WithContext("status_code", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NetworkError(apperrors.CodeBadResponse, endpoint, err)
	}
	return nil
}

func timeoutCode(err error) apperrors.ErrorCode {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperrors.CodeTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.CodeTimeout
	}
	return apperrors.CodeBackendFailure
}
