// Package geocode resolves coordinates into human-readable addresses via a
// Nominatim-compatible reverse endpoint. Failures are never fatal to the
// caller: FallbackAddress always yields a usable coordinate string.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/KeyzarRasya/lativa/internal/config"
	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

type Client struct {
	http     *http.Client
	baseURL  string
	language string
	logger   *slog.Logger
}

func NewClient(cfg config.GeocodeConfig, logger *slog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		logger:   logger,
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		Street        string `json:"street"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		State         string `json:"state"`
	} `json:"address"`
}

// Reverse looks the coordinates up and synthesizes an address from the
// structured fields, preferring road over street, suburb over
// neighbourhood, city over town over village. Errors come back wrapped as
// ErrGeocodeUnavailable; callers absorb them with FallbackAddress.
func (c *Client) Reverse(ctx context.Context, coords domain.Coordinates) (string, error) {
	const op = "geocode.Reverse"

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Lng, 'f', -1, 64))
	q.Set("accept-language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, e.ErrGeocodeUnavailable)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("reverse geocode request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%s: %w", op, e.ErrGeocodeUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("reverse geocode bad status", slog.Int("status", resp.StatusCode))
		return "", fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, e.ErrGeocodeUnavailable)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%s: %w", op, e.ErrGeocodeUnavailable)
	}

	if addr := synthesize(body); addr != "" {
		return addr, nil
	}
	if body.DisplayName != "" {
		return body.DisplayName, nil
	}
	return "", fmt.Errorf("%s: empty response: %w", op, e.ErrGeocodeUnavailable)
}

func synthesize(r reverseResponse) string {
	parts := make([]string, 0, 4)

	add := func(candidates ...string) {
		for _, c := range candidates {
			if c != "" {
				parts = append(parts, c)
				return
			}
		}
	}

	add(r.Address.Road, r.Address.Street)
	add(r.Address.Suburb, r.Address.Neighbourhood)
	add(r.Address.City, r.Address.Town, r.Address.Village)
	add(r.Address.State)

	return strings.Join(parts, ", ")
}

// FallbackAddress renders the raw coordinate string used whenever the
// lookup fails or returns nothing usable.
func FallbackAddress(coords domain.Coordinates) string {
	return fmt.Sprintf("%.5f, %.5f", coords.Lat, coords.Lng)
}
