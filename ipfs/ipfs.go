// Package ipfs uploads NFT metadata and assets to IPFS through a pluggable
// transport. It supports single uploads with timeout and retry handling, and
// batched uploads with bounded concurrency and live progress reporting.
package ipfs

import (
	"sync"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
)

const (
	// DefaultGatewayBaseURL is the public gateway used to build browser-resolvable URLs.
	DefaultGatewayBaseURL = "https://ipfs.io"

	// DefaultAPIBaseURL is the HTTP API address of a local IPFS node.
	DefaultAPIBaseURL = "http://127.0.0.1:5001"

	// DefaultTimeout is the per-attempt upload timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of additional attempts after the first one.
	DefaultMaxRetries = 3
)

// Options holds the client configuration. Options are immutable for the
// lifetime of a client; zero fields are replaced with defaults.
type Options struct {
	// GatewayBaseURL is prepended to "/ipfs/<cid>" when building gateway URLs.
	GatewayBaseURL string

	// APIBaseURL is the IPFS HTTP API address used by the default transport.
	// Ignored when a custom Transport is provided.
	APIBaseURL string

	// AccessToken is sent as a bearer token by the default transport, if set.
	AccessToken string

	// Timeout limits a single upload attempt. An attempt exceeding it is
	// treated as failed even if the transport completes later.
	Timeout time.Duration

	// MaxRetries is the retry budget per payload. Total attempts = MaxRetries + 1.
	// Zero falls back to the default; a negative value disables retries.
	MaxRetries int

	// Pin requests that uploaded content is pinned by the storage provider.
	Pin bool
}

// DefaultOptions returns the default client configuration.
func DefaultOptions() Options {
	return Options{
		GatewayBaseURL: DefaultGatewayBaseURL,
		APIBaseURL:     DefaultAPIBaseURL,
		Timeout:        DefaultTimeout,
		MaxRetries:     DefaultMaxRetries,
		Pin:            true,
	}
}

func (o Options) withDefaults() Options {
	if o.GatewayBaseURL == "" {
		o.GatewayBaseURL = DefaultGatewayBaseURL
	}
	if o.APIBaseURL == "" {
		o.APIBaseURL = DefaultAPIBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	// 0 means unset; pass a negative value to disable retries entirely.
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	return o
}

// Client is a long-lived IPFS upload client. It carries no per-batch state:
// every UploadBatch call owns its own counters, so a single client is safe to
// share across goroutines and across batches.
type Client struct {
	opts   Options
	logger log.Logger

	transportOnce sync.Once
	transport     Transport
}

// NewClient creates a client with the given options. `transport` can be nil,
// unless you want to provide a custom Transport implementation; the default
// transport talks to the IPFS HTTP API at Options.APIBaseURL and is
// constructed lazily on first use.
func NewClient(opts Options, transport Transport, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Client{
		opts:      opts.withDefaults(),
		logger:    logger,
		transport: transport,
	}
}

// Options returns the effective configuration, with defaults applied.
func (c *Client) Options() Options {
	return c.opts
}

func (c *Client) transportHandle() Transport {
	c.transportOnce.Do(func() {
		if c.transport == nil {
			c.transport = NewAPITransport(c.opts.APIBaseURL, c.opts.AccessToken, c.logger)
		}
	})
	return c.transport
}
