// Package restclient provides list collaborators over a REST API.
//
// A Client holds the base URL, transport and credentials; NewFetchFunc binds
// it to one list endpoint and declares the response shape that endpoint
// returns.
//
// Example usage:
//
//	client, err := restclient.New("https://shop.example.com/api",
//	    restclient.WithToken(token),
//	    restclient.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//
//	fetch := restclient.NewFetchFunc[Purchase](client, restclient.Endpoint{
//	    Path:  "/purchases",
//	    Shape: listview.ShapeEnveloped,
//	})
package restclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/friendsofgo/errors"
	"go.uber.org/zap"

	"github.com/nrfta/listview-go"
)

// DefaultTimeout bounds every request when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 16 << 20

// Client performs GET requests against one API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	timeout *time.Duration
	token   string
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is not
// modified; WithTimeout applies to a copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the request timeout, whatever the order of options.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = &d
	}
}

// WithToken attaches a bearer token to every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse base url %q", baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout != nil {
		hc := *c.http
		hc.Timeout = *c.timeout
		c.http = &hc
	}
	return c, nil
}

// Get fetches path with the given query and returns the response body.
//
// Transport failures are reported as listview.ErrNetworkFailure; a non-2xx
// status as *listview.FetchRejectedError.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	target := c.resolve(path, query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("list request failed",
			zap.String("url", target),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, listview.NetworkFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, listview.NetworkFailure(err)
	}

	fields := []zap.Field{
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("list request rejected", fields...)
		return nil, &listview.FetchRejectedError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	c.logger.Debug("list request completed", fields...)
	return body, nil
}

func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = query.Encode()
	return u.String()
}
