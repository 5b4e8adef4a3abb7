package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// APIError represents a non-2xx response from the consensus API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if len(e.Body) > 0 && len(e.Body) <= 512 {
		return fmt.Sprintf("consensus api error %d: %s: %s", e.StatusCode, e.Message, e.Body)
	}
	return fmt.Sprintf("consensus api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the API rejected the credentials.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// post sends a signed JSON POST to path and returns the raw response body.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	req := c.rest.R().
		SetContext(ctx).
		SetBody(payload)
	if c.creds != nil {
		req.SetHeaders(c.creds.SignRequest())
	}

	resp, err := req.Post(path)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}

	c.logger.Debug("api request",
		"path", path,
		"status", resp.StatusCode(),
		"duration", resp.Time(),
	)

	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// fetch performs an unauthenticated GET against an absolute URL.
// Export links are pre-signed and must not carry API headers.
func (c *Client) fetch(ctx context.Context, link string) ([]byte, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, fmt.Errorf("get export: %w", err)
	}

	if err := checkResponse(resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

func checkResponse(resp *resty.Response) error {
	if resp.StatusCode() >= 200 && resp.StatusCode() < 300 {
		return nil
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    http.StatusText(resp.StatusCode()),
		Body:       resp.Body(),
	}
}
