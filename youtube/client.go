// Package youtube implements the video search and playlist tools over the
// YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/internal/retry"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the YouTube Data API v3 endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

const (
	defaultTimeout = 30 * time.Second
	maxPageSize    = 50
)

// Video is a single search hit.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Client calls the YouTube Data API with OAuth-authorized requests.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client whose requests are authorized by ts. A token is
// obtained from ts before every request.
func New(ts oauth2.TokenSource, opts ...Option) *Client {
	hc := &http.Client{Transport: &oauth2.Transport{Source: ts, Base: http.DefaultTransport}}
	c := &Client{
		http: resty.NewWithClient(hc).
			SetBaseURL(DefaultBaseURL).
			SetTimeout(defaultTimeout).
			SetHeader("Accept", "application/json"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiError is the error envelope returned by Google APIs.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// check converts transport failures and non-2xx responses into errors.
func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("youtube: %s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}

	msg := http.StatusText(resp.StatusCode())
	if e, ok := resp.Error().(*apiError); ok && e.Error.Message != "" {
		msg = e.Error.Message
	}
	if d := retry.ParseRetryAfter(resp.RawResponse); d > 0 {
		return ai.NewTransientErrorWithRetry(fmt.Sprintf("youtube: %s: %s", op, msg), resp.StatusCode(), d, nil)
	}
	return ai.NewUpstreamError(fmt.Sprintf("youtube: %s: %s", op, msg), resp.StatusCode(), nil)
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search returns up to maxResults videos matching query.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > maxPageSize {
		maxResults = maxPageSize
	}

	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"type":       "video",
			"q":          query,
			"maxResults": fmt.Sprint(maxResults),
		}).
		SetResult(&out).
		SetError(&apiError{}).
		Get("/search")
	if err := check("search", resp, err); err != nil {
		return nil, err
	}

	videos := make([]Video, 0, len(out.Items))
	for _, item := range out.Items {
		if item.ID.VideoID == "" {
			continue
		}
		videos = append(videos, Video{
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
		})
	}
	return videos, nil
}

// CreatePlaylist creates a public playlist and returns its ID.
func (c *Client) CreatePlaylist(ctx context.Context, title, description string) (string, error) {
	body := map[string]any{
		"snippet": map[string]string{"title": title, "description": description},
		"status":  map[string]string{"privacyStatus": "public"},
	}

	var out struct {
		ID string `json:"id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("part", "snippet,status").
		SetBody(body).
		SetResult(&out).
		SetError(&apiError{}).
		Post("/playlists")
	if err := check("create playlist", resp, err); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", ai.NewUpstreamError("youtube: create playlist: response has no id", resp.StatusCode(), nil)
	}
	return out.ID, nil
}

// AddToPlaylist appends videos to a playlist in order. It stops at the first
// failure and reports how many were added before it.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID string, videoIDs []string) (int, error) {
	for i, id := range videoIDs {
		body := map[string]any{
			"snippet": map[string]any{
				"playlistId": playlistID,
				"resourceId": map[string]string{"kind": "youtube#video", "videoId": id},
			},
		}
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("part", "snippet").
			SetBody(body).
			SetError(&apiError{}).
			Post("/playlistItems")
		if err := check(fmt.Sprintf("add video %s", id), resp, err); err != nil {
			return i, err
		}
	}
	return len(videoIDs), nil
}
