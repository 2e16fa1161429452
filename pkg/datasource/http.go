package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPConfig configures a remote table source.
type HTTPConfig struct {
	Name       string
	BaseURL    string
	Path       string
	APIKey     string
	HTTPClient *http.Client
}

// HTTP loads a table from a REST endpoint returning either
// {"columns": [...], "rows": [[...]]} or CSV text.
type HTTP struct {
	name   string
	url    string
	apiKey string
	client *http.Client
}

// NewHTTP builds a remote source.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("datasource: base url is required")
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("datasource: name is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{
		name:   cfg.Name,
		url:    strings.TrimRight(cfg.BaseURL, "/") + cfg.Path,
		apiKey: cfg.APIKey,
		client: client,
	}, nil
}

func (h *HTTP) Name() string { return h.name }

// Load fetches and decodes the table.
func (h *HTTP) Load(ctx context.Context) (Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return Table{}, fmt.Errorf("datasource: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/csv")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("datasource: http request: %w", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return Table{}, fmt.Errorf("datasource: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return Table{}, fmt.Errorf("datasource: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv") {
		return ParseCSV(&buf, CSVOptions{})
	}
	var table Table
	if err := json.Unmarshal(buf.Bytes(), &table); err != nil {
		return Table{}, fmt.Errorf("datasource: decode response: %w", err)
	}
	return table, nil
}
