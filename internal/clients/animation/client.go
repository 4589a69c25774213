// Package animation fetches the optional decorative animation shown on the form page.
package animation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// MaxAssetBytes caps the downloaded asset.
const MaxAssetBytes = 1 << 20

// Client for a Lottie-style JSON animation asset
type Client struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new animation client.
// An empty url disables fetching.
func NewClient(url string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.With().Str("client", "animation").Logger(),
	}
}

// Fetch downloads the asset and checks that it is JSON.
func (c *Client) Fetch(ctx context.Context) (json.RawMessage, error) {
	if c.url == "" {
		return nil, fmt.Errorf("animation URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}
	if len(body) > MaxAssetBytes {
		return nil, fmt.Errorf("asset exceeds %d bytes", MaxAssetBytes)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("asset is not valid JSON")
	}

	return json.RawMessage(body), nil
}

// Load fetches the asset once and never fails: any problem is logged at warn
// and nil is returned so the page renders without the animation.
func (c *Client) Load(ctx context.Context) json.RawMessage {
	if c.url == "" {
		c.log.Debug().Msg("No animation configured")
		return nil
	}

	asset, err := c.Fetch(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("url", c.url).Msg("Animation unavailable, continuing without it")
		return nil
	}

	c.log.Info().Int("bytes", len(asset)).Msg("Fetched animation")
	return asset
}
