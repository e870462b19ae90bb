// Package carbon fetches regional carbon-intensity forecasts from the
// national carbon intensity API.
package carbon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/R3borN17/greenscore/internal/regions"
)

// pathFormat is the timestamp format embedded in the forecast endpoint path.
const pathFormat = "2006-01-02T15:04:05Z"

// Client calls the regional forecast endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a carbon client against a base URL
// (e.g. "https://api.carbonintensity.org.uk").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RegionalForecast fetches the 24h-forward forecast starting at from for all
// regions in one call, reshaped into per-region ordered slices. The fixed
// 24-hour window is implicit in the endpoint contract.
func (c *Client) RegionalForecast(ctx context.Context, from time.Time) (map[regions.CarbonID][]Slice, error) {
	endpoint := fmt.Sprintf("%s/regional/intensity/%s/fw24h",
		c.baseURL, from.UTC().Format(pathFormat))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("forecast: status %d: %s", resp.StatusCode, body)
	}

	var payload regionalResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	byRegion := make(map[regions.CarbonID][]Slice)
	for _, ts := range payload.Data {
		sliceFrom, err := parseSliceTime(ts.From)
		if err != nil {
			return nil, fmt.Errorf("parse slice from %q: %w", ts.From, err)
		}
		sliceTo, err := parseSliceTime(ts.To)
		if err != nil {
			return nil, fmt.Errorf("parse slice to %q: %w", ts.To, err)
		}
		for _, reg := range ts.Regions {
			id := regions.CarbonID(reg.RegionID)
			byRegion[id] = append(byRegion[id], Slice{
				RegionID:  id,
				From:      sliceFrom,
				To:        sliceTo,
				Forecast:  reg.Intensity.Forecast,
				ShortName: reg.ShortName,
			})
		}
	}

	return byRegion, nil
}

// parseSliceTime accepts the API's minute-precision timestamps
// ("2006-01-02T15:04Z") as well as full RFC3339.
func parseSliceTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04Z", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
