package covidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/goliatone/go-dashboard-shell/components/dashboard"
)

// DefaultPath is the dataset endpoint relative to the base URL.
const DefaultPath = "/dataset"

// HTTPConfig configures the HTTP dataset client.
type HTTPConfig struct {
	BaseURL    string
	Path       string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient fetches the daily series from a remote REST endpoint.
type HTTPClient struct {
	baseURL string
	path    string
	apiKey  string
	client  *http.Client
}

var _ dashboard.DataSource = (*HTTPClient)(nil)

// NewHTTPClient builds a client for a live dataset API.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("covidapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		path:    path,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// Dataset implements dashboard.DataSource.
func (c *HTTPClient) Dataset(ctx context.Context) (dashboard.Dataset, error) {
	var resp datasetResponse
	if err := c.do(ctx, http.MethodGet, c.path, &resp); err != nil {
		return dashboard.Dataset{}, err
	}
	return resp.toDataset()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("covidapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("covidapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("covidapi: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("covidapi: decode response: %w", err)
	}
	return nil
}

type dayRow struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

type datasetResponse struct {
	Days []dayRow `json:"days"`
}

// toDataset orders rows by date and fills series missing on a day with zero.
func (r datasetResponse) toDataset() (dashboard.Dataset, error) {
	rows := append([]dayRow(nil), r.Days...)
	for _, row := range rows {
		if _, err := time.Parse(time.DateOnly, row.Date); err != nil {
			return dashboard.Dataset{}, fmt.Errorf("covidapi: invalid date %q: %w", row.Date, err)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })

	data := dashboard.Dataset{
		Labels: make([]string, len(rows)),
		Series: map[string][]float64{},
	}
	for i, row := range rows {
		data.Labels[i] = row.Date
		for name := range row.Values {
			if _, ok := data.Series[name]; !ok {
				data.Series[name] = make([]float64, len(rows))
			}
		}
	}
	for i, row := range rows {
		for name, value := range row.Values {
			data.Series[name][i] = value
		}
	}
	return dashboard.StaticDataSource{Data: data}.Dataset(context.Background())
}
