package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bulkexchange/accesscard/pkg/domain"
)

// UploadCardRequest is the payload for uploading a rendered card.
type UploadCardRequest struct {
	DataURL string `json:"dataUrl"`
}

// UploadCardResponse carries the public URL of an uploaded card.
type UploadCardResponse struct {
	URL string `json:"url"`
}

// Client talks to the accesscard server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// LookupProfile fetches the public profile for a handle.
func (c *Client) LookupProfile(ctx context.Context, handle string) (*domain.Profile, error) {
	params := url.Values{}
	params.Set("username", handle)

	var p domain.Profile
	if err := c.get(ctx, "/api/x-profile?"+params.Encode(), &p); err != nil {
		return nil, fmt.Errorf("client.LookupProfile: %w", err)
	}
	return &p, nil
}

// UploadCard uploads a rendered card image and returns its public URL.
func (c *Client) UploadCard(ctx context.Context, dataURL string) (string, error) {
	var out UploadCardResponse
	if err := c.post(ctx, "/api/upload-card", UploadCardRequest{DataURL: dataURL}, &out); err != nil {
		return "", fmt.Errorf("client.UploadCard: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("client.UploadCard: no url returned")
	}
	return out.URL, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error, FromServer: true}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
