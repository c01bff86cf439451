// Package likes implements the external likes API integration: the HTTP
// client, the persisted API key, and the delivery service that sends likes,
// classifies the outcome, and records it.
package likes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/likehub/likesbot/internal/config"
)

// Result is the likes API response for a single delivery attempt.
type Result struct {
	Success          bool   `json:"success"`
	Player           string `json:"player"`
	UID              string `json:"uid"`
	Region           string `json:"region"`
	InitialLikes     int    `json:"initialLikes"`
	LikesAdded       int    `json:"likesAdded"`
	FinalLikes       int    `json:"finalLikes"`
	Level            int    `json:"level"`
	EXP              int64  `json:"exp"`
	Status           int    `json:"status"`
	MinLikesRequired int    `json:"minLikesRequired"`
	Error            string `json:"error"`
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
}

// errInsufficientLikes is the API error code for deliveries below the minimum.
const errInsufficientLikes = "INSUFFICIENT_LIKES"

// Client defines the likes API operations used by the delivery service.
type Client interface {
	// SendLikes requests a like delivery for gameID using the given API key.
	// Transport and decoding failures are returned as errors; API-level
	// failures come back inside the Result.
	SendLikes(ctx context.Context, gameID, key string) (*Result, error)
}

type httpClient struct {
	baseURL  string
	endpoint string
	http     *http.Client
	log      *slog.Logger
}

// NewClient creates a likes API client from the API configuration.
func NewClient(cfg config.APIConfig, log *slog.Logger) Client {
	if log == nil {
		log = slog.Default()
	}
	return &httpClient{
		baseURL:  cfg.BaseURL,
		endpoint: cfg.Endpoint,
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      log.With("component", "likes_client"),
	}
}

func (c *httpClient) SendLikes(ctx context.Context, gameID, key string) (*Result, error) {
	q := url.Values{}
	q.Set("id", gameID)
	q.Set("key", key)
	reqURL := c.baseURL + c.endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build likes request: %w", err)
	}

	c.log.DebugContext(ctx, "Requesting like delivery", "game_id", gameID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("likes request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.WarnContext(ctx, "Error closing likes response body", "error", closeErr)
		}
	}()

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode likes response (status %d): %w", resp.StatusCode, err)
	}

	c.log.DebugContext(ctx, "Like delivery response",
		"game_id", gameID, "success", result.Success,
		"likes_added", result.LikesAdded, "api_error", result.Error)
	return &result, nil
}
