// Package natsclient manages the optional NATS connection used by the
// agent extension, primarily as a transport for the remote log sink.
package natsclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/c360/agentkit/errors"
	"github.com/c360/agentkit/pkg/retry"
)

// Client wraps a NATS connection with retry-backed connect and graceful
// drain. Safe for concurrent use.
type Client struct {
	url  string
	name string

	logger       *slog.Logger
	retryConfig  retry.Config
	drainTimeout time.Duration

	mu   sync.RWMutex
	conn *nats.Conn
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the local structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithName sets the connection name advertised to the server.
func WithName(name string) Option {
	return func(c *Client) { c.name = name }
}

// WithRetryConfig overrides the connect retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Client) { c.retryConfig = cfg }
}

// New creates a client for the given server URL. No connection is made
// until Connect.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:          url,
		name:         "agentkit",
		logger:       slog.Default(),
		retryConfig:  errors.DefaultRetryConfig().ToRetryConfig(),
		drainTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect establishes the connection, retrying transient failures with
// exponential backoff.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return errors.WrapInvalid(errors.ErrAlreadyStarted, "Client", "Connect", "connection check")
	}

	conn, err := retry.DoWithResult(ctx, c.retryConfig, func() (*nats.Conn, error) {
		return nats.Connect(c.url,
			nats.Name(c.name),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				c.logger.Warn("NATS disconnected", "error", err)
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				c.logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
			}),
		)
	})
	if err != nil {
		return errors.WrapTransient(err, "Client", "Connect", "NATS connection")
	}

	c.conn = conn
	c.logger.Info("NATS connected", "url", conn.ConnectedUrl())
	return nil
}

// Publish sends data on the given subject. Fails with a transient error
// when no connection is available.
func (c *Client) Publish(subject string, data []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errors.WrapTransient(errors.ErrNoConnection, "Client", "Publish", "connection check")
	}
	if err := conn.Publish(subject, data); err != nil {
		return errors.WrapTransient(err, "Client", "Publish", "message publish")
	}
	return nil
}

// IsConnected reports whether the underlying connection is live.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

// Close drains and closes the connection. Safe to call when never
// connected.
func (c *Client) Close() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}
	if err := conn.Drain(); err != nil {
		c.logger.Warn("NATS drain failed, closing", "error", err)
		conn.Close()
		return
	}

	// Drain completes asynchronously; bound the wait.
	deadline := time.Now().Add(c.drainTimeout)
	for conn.IsDraining() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !conn.IsClosed() {
		conn.Close()
	}
}
