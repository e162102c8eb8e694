// Package xapi talks to the upstream social-graph API for public profiles.
package xapi

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

	"github.com/bulkexchange/accesscard/pkg/domain"
)

const (
	DefaultBaseURL = "https://api.x.com"
	userFields     = "profile_image_url,name,username,verified,public_metrics"
	maxBodyBytes   = 1 << 20
)

// UpstreamError is a non-2xx answer from the API. Raw is the decoded body.
type UpstreamError struct {
	Status int
	Detail string
	Raw    json.RawMessage
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("xapi: HTTP %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("xapi: HTTP %d", e.Status)
}

// AsUpstream unwraps an *UpstreamError from err.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	ok := errors.As(err, &ue)
	return ue, ok
}

// Client fetches users by username with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client. A zero timeout means 10s.
func New(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type userEnvelope struct {
	Data *struct {
		ID              string                 `json:"id"`
		Name            string                 `json:"name"`
		Username        string                 `json:"username"`
		Verified        bool                   `json:"verified"`
		ProfileImageURL string                 `json:"profile_image_url"`
		PublicMetrics   *domain.ProfileMetrics `json:"public_metrics"`
	} `json:"data"`
	Detail string `json:"detail"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// missingUserDetail is used when a 200 answer without data carries no detail.
const missingUserDetail = "User not found"

// notFound turns a 200 answer without data (how the API reports unknown
// usernames) into a 404 UpstreamError.
func (e userEnvelope) notFound(body []byte) *UpstreamError {
	detail := e.Detail
	for _, item := range e.Errors {
		if detail != "" {
			break
		}
		detail = item.Detail
		if detail == "" {
			detail = item.Title
		}
	}
	if detail == "" {
		detail = missingUserDetail
	}
	return &UpstreamError{Status: http.StatusNotFound, Detail: detail, Raw: json.RawMessage(body)}
}

// UserByUsername looks up a public profile.
func (c *Client) UserByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	endpoint := c.baseURL + "/2/users/by/username/" + url.PathEscape(username) + "?user.fields=" + userFields
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("xapi.UserByUsername: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("xapi.UserByUsername: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("xapi.UserByUsername: read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("xapi.UserByUsername: HTTP %d with non-JSON body", resp.StatusCode)
	}

	var env userEnvelope
	if err := json.Unmarshal(body, &env); err != nil && resp.StatusCode < 300 {
		return nil, fmt.Errorf("xapi.UserByUsername: decode: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Detail: env.Detail, Raw: json.RawMessage(body)}
	}
	if env.Data == nil {
		return nil, env.notFound(body)
	}

	u := env.Data
	return &domain.Profile{
		ID:              u.ID,
		Name:            u.Name,
		Username:        u.Username,
		Verified:        u.Verified,
		ProfileImageURL: u.ProfileImageURL,
		Metrics:         u.PublicMetrics,
	}, nil
}
