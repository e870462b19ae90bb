// Package tariff fetches day-ahead half-hourly electricity unit rates from
// the supplier's public product API.
package tariff

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/R3borN17/greenscore/internal/regions"
)

// windowFormat is the timestamp format the supplier API expects for
// period_from/period_to query parameters.
const windowFormat = "2006-01-02T15:04:05Z"

// Client calls the supplier unit-rates endpoint.
type Client struct {
	baseURL    string
	product    string
	httpClient *http.Client
}

// NewClient creates a tariff client for one product code
// (e.g. "AGILE-FLEX-22-11-25").
func NewClient(baseURL, product string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		product: product,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// UnitRates fetches the half-hourly unit rates for a region over [from, to).
// Every returned record is tagged with the queried region.
func (c *Client) UnitRates(ctx context.Context, region regions.Code, from, to time.Time) ([]Rate, error) {
	tariffCode := fmt.Sprintf("E-1R-%s-%s", c.product, region)
	endpoint := fmt.Sprintf("%s/v1/products/%s/electricity-tariffs/%s/standard-unit-rates/",
		c.baseURL, c.product, tariffCode)

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid unit rates url: %w", err)
	}

	params := url.Values{}
	params.Set("period_from", from.UTC().Format(windowFormat))
	params.Set("period_to", to.UTC().Format(windowFormat))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build unit rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unit rates request for region %s: %w", region, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unit rates for region %s: status %d: %s", region, resp.StatusCode, body)
	}

	var payload unitRatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode unit rates for region %s: %w", region, err)
	}

	rates := make([]Rate, 0, len(payload.Results))
	for _, r := range payload.Results {
		validFrom, err := time.Parse(time.RFC3339, r.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("parse valid_from %q: %w", r.ValidFrom, err)
		}
		validTo, err := time.Parse(time.RFC3339, r.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("parse valid_to %q: %w", r.ValidTo, err)
		}
		rates = append(rates, Rate{
			Region:      region,
			ValidFrom:   validFrom,
			ValidTo:     validTo,
			ValueIncVAT: r.ValueIncVAT,
		})
	}

	return rates, nil
}
