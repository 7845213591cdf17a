package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"simhockey/youtube-updater/internal/metrics"
	"simhockey/youtube-updater/internal/models"

	"github.com/rs/zerolog"
)

var (
	// ErrQuotaExceeded is returned when the API key has used up its daily quota
	ErrQuotaExceeded = errors.New("youtube quota exceeded")
	// ErrAPIFailure is returned for any other non-200 response
	ErrAPIFailure = errors.New("youtube api request failed")
	// ErrNoResults is returned when the channel search returned no videos
	ErrNoResults = errors.New("youtube search returned no videos")
)

// APIError describes a non-200 response from the search endpoint
type APIError struct {
	League     models.League
	StatusCode int
	Message    string
	Payload    string
	quota      bool
}

func (e *APIError) Error() string {
	if e.quota {
		return fmt.Sprintf("failed to get video id because quota exceeded (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("failed to get video id for league [%s] (status %d): %s", e.League, e.StatusCode, e.Payload)
}

// Is lets callers match the error with errors.Is
func (e *APIError) Is(target error) bool {
	if e.quota {
		return target == ErrQuotaExceeded
	}
	return target == ErrAPIFailure
}

// Config holds the settings of the YouTube search client
type Config struct {
	BaseURL  string
	APIKey   string
	Referer  string
	Timeout  time.Duration
	Channels map[models.League]string
}

// Client is the YouTube search API client
type Client struct {
	baseURL    string
	apiKey     string
	referer    string
	channels   map[models.League]string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new YouTube search client
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	channels := make(map[models.League]string, len(cfg.Channels))
	for league, id := range cfg.Channels {
		channels[league] = id
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		referer:  cfg.Referer,
		channels: channels,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "client").Logger(),
	}
}

// ChannelID resolves the channel id configured for a league
func (c *Client) ChannelID(league string) (string, error) {
	l, err := models.ParseLeague(league)
	if err != nil {
		return "", err
	}
	return c.channelFor(l)
}

func (c *Client) channelFor(l models.League) (string, error) {
	id, ok := c.channels[l]
	if !ok {
		return "", fmt.Errorf("%w: no channel configured for %q", models.ErrUnknownLeague, l)
	}
	return id, nil
}

// searchURL builds the search request for the newest video of a channel
func (c *Client) searchURL(channelID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", c.baseURL, err)
	}

	q := u.Query()
	q.Set("part", "snippet")
	q.Set("type", "video")
	q.Set("order", "date")
	q.Set("maxResults", "1")
	q.Set("channelId", channelID)
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// GetVideoInfo fetches the id and live broadcast status of the newest video
// on the league's channel
func (c *Client) GetVideoInfo(ctx context.Context, league string) (*models.VideoInfo, error) {
	c.logger.Debug().Str("league", league).Msg("get_video_info executing")

	l, err := models.ParseLeague(league)
	if err != nil {
		return nil, err
	}
	channelID, err := c.channelFor(l)
	if err != nil {
		return nil, err
	}

	reqURL, err := c.searchURL(channelID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("referer", c.referer)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPICall(l.String(), "error", time.Since(start).Seconds())
		metrics.RecordError("client", "request")
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPICall(l.String(), strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload models.SearchResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(l, resp.StatusCode, body, &payload, decodeErr)
	}
	if decodeErr != nil {
		metrics.RecordError("client", "decode")
		return nil, fmt.Errorf("failed to unmarshal search response: %w", decodeErr)
	}

	info, ok := payload.ToVideoInfo()
	if !ok {
		metrics.RecordError("client", "no_results")
		c.logger.Error().
			Str("league", l.String()).
			Str("channel_id", channelID).
			Msg("Search returned no videos")
		return nil, fmt.Errorf("%w for league [%s]", ErrNoResults, l)
	}

	c.logger.Debug().
		Str("league", l.String()).
		Str("video_id", info.VideoID).
		Str("live_status", info.LiveStatus).
		Str("title", payload.Items[0].Snippet.Title).
		Time("published_at", payload.Items[0].Snippet.PublishedAt).
		Msg("returning video info")

	return &info, nil
}

// apiError classifies a non-200 response and logs its payload
func (c *Client) apiError(league models.League, status int, body []byte, payload *models.SearchResponse, decodeErr error) error {
	apiErr := &APIError{
		League:     league,
		StatusCode: status,
		Payload:    prettyPayload(body, decodeErr),
	}
	if decodeErr == nil && payload.Error != nil {
		apiErr.Message = payload.Error.Message
	}
	apiErr.quota = status == http.StatusForbidden && strings.Contains(apiErr.Message, "quota")

	// zerolog has no critical level; WithLevel logs at fatal without exiting
	if apiErr.quota {
		metrics.RecordError("client", "quota")
		c.logger.WithLevel(zerolog.FatalLevel).
			Str("league", league.String()).
			Int("status", status).
			Msgf("Quota error: %s", apiErr.Payload)
	} else {
		metrics.RecordError("client", "api")
		c.logger.WithLevel(zerolog.FatalLevel).
			Str("league", league.String()).
			Int("status", status).
			Msgf("Unknown error: %s", apiErr.Payload)
	}

	return apiErr
}

// prettyPayload indents a JSON error body, or returns it verbatim
func prettyPayload(body []byte, decodeErr error) string {
	if decodeErr != nil {
		return string(body)
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(out)
}
