// Package registry queries the Modrinth API for mod release candidates.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

var (
	// ErrRegistry indicates the registry returned a non-success response
	ErrRegistry = errors.New("registry request failed")
)

// Stability tiers reported by the registry, most stable first.
const (
	TypeRelease = "release"
	TypeBeta    = "beta"
	TypeAlpha   = "alpha"
)

// Version is a single release candidate returned by the registry.
// The registry orders results newest-publish-first; that order is preserved.
type Version struct {
	ID            string    `json:"id"`
	VersionNumber string    `json:"version_number"`
	Name          string    `json:"name"`
	DatePublished time.Time `json:"date_published"`
	VersionType   string    `json:"version_type"`
	GameVersions  []string  `json:"game_versions"`
	Loaders       []string  `json:"loaders"`
}

// Value returns the string to pin for this version: the opaque release id
// when useID is set, otherwise the human version string.
func (v Version) Value(useID bool) string {
	if useID {
		return v.ID
	}
	return v.VersionNumber
}

// Matches reports whether a pinned value refers to this version, by either
// the release id or the version string. The config store may hold either
// form, so both are always checked.
func (v Version) Matches(pinned string) bool {
	return pinned == v.ID || pinned == v.VersionNumber
}

// Client queries the Modrinth versions API.
type Client struct {
	baseURL   string
	userAgent string
	http      *RetryableHTTPClient
	limiter   *rate.Limiter
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom retryable HTTP client
func WithHTTPClient(httpClient *RetryableHTTPClient) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithLimiter sets a custom request rate limiter
func WithLimiter(limiter *rate.Limiter) ClientOption {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// NewClient creates a registry client for the given API base URL.
// Requests are rate-limited to stay well under the registry's quota.
func NewClient(baseURL, userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      NewRetryableHTTPClient(),
		limiter:   rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProjectVersions returns all versions of a project compatible with the
// given game version and loader. Filtering happens server-side; the loader
// comparison is case-insensitive (the registry expects lowercase).
func (c *Client) ProjectVersions(ctx context.Context, slug, gameVersion, loader string) ([]Version, error) {
	endpoint, err := c.versionsURL(slug, gameVersion, loader)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	headers := map[string]string{
		"User-Agent": c.userAgent,
		"Accept":     "application/json",
	}
	resp, err := c.http.GetWithContext(ctx, endpoint, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistry, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrRegistry, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistry, err)
	}

	var versions []Version
	if err := json.Unmarshal(body, &versions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrRegistry, err)
	}

	return versions, nil
}

// versionsURL builds the versions endpoint URL. The game-version and loader
// filters are JSON-encoded single-element arrays, per the registry's API.
func (c *Client) versionsURL(slug, gameVersion, loader string) (string, error) {
	gameVersions, err := json.Marshal([]string{gameVersion})
	if err != nil {
		return "", err
	}
	loaders, err := json.Marshal([]string{strings.ToLower(loader)})
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("game_versions", string(gameVersions))
	params.Set("loaders", string(loaders))

	return fmt.Sprintf("%s/project/%s/version?%s", c.baseURL, url.PathEscape(slug), params.Encode()), nil
}
