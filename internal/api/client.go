package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rickgao/consensus-export/internal/auth"
	"github.com/rickgao/consensus-export/internal/version"
)

// Client provides access to the consensus REST API.
type Client struct {
	baseURL string
	creds   *auth.Credentials
	rest    *resty.Client
	timeout time.Duration
	logger  *slog.Logger
}

// DefaultTimeout applies when neither WithTimeout nor the HTTP client sets one.
const DefaultTimeout = 30 * time.Second

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL string, creds *auth.Credentials, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		rest:    resty.New(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.rest.
		SetBaseURL(c.baseURL).
		SetHeader("User-Agent", version.UserAgent()).
		SetLogger(restyLogger{c.logger})
	switch {
	case c.timeout > 0:
		c.rest.SetTimeout(c.timeout)
	case c.rest.GetClient().Timeout == 0:
		c.rest.SetTimeout(DefaultTimeout)
	}

	return c
}

// WithTimeout sets the request timeout. It applies regardless of option order.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client. A WithTimeout option still
// overrides its Timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.rest = resty.NewWithClient(hc)
	}
}

// BaseURL returns the base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// restyLogger routes resty's internal messages through slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
