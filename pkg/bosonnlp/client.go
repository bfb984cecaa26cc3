// Package bosonnlp is a client for the BosonNLP HTTP API.
//
// Single-call operations (Sentiment, Tag, NER, ...) map one-to-one onto remote
// endpoints. Clustering and typical-opinion extraction run as remote tasks that
// are pushed, analyzed, polled and cleared; see Task.
package bosonnlp

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Version is reported in the User-Agent header.
const Version = "0.3.0"

const (
	// DefaultURL is the public BosonNLP endpoint.
	DefaultURL = "https://api.bosonnlp.com"
	// DefaultRequestTimeout bounds a single HTTP round trip.
	DefaultRequestTimeout = 60 * time.Second
	// DefaultTaskTimeout bounds the one-shot Cluster and Comments calls.
	DefaultTaskTimeout = 30 * time.Minute
)

// Client talks to the BosonNLP HTTP API. It is safe for concurrent use; the
// underlying *http.Client keeps connections alive across calls and tasks.
type Client struct {
	baseURL  string
	token    string
	compress bool
	http     *http.Client
	logger   *slog.Logger
	// sleep is inherited by tasks; nil means a real timer.
	sleep sleepFunc
}

// Option customizes a Client.
type Option func(*Client)

// WithURL points the client at another API root.
func WithURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCompression toggles gzip for request bodies above 10 KiB.
func WithCompression(enabled bool) Option {
	return func(c *Client) {
		c.compress = enabled
	}
}

// WithLogger sets the logger used for task progress.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a client authenticated with the given API token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultURL,
		token:    token,
		compress: true,
		http:     &http.Client{Timeout: DefaultRequestTimeout},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
