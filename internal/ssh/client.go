// Package ssh is the direct-session client for a Termux sshd: remote command
// execution, file transfer, filesystem probes, and the interactive shell.
//
// Every operation opens its own connection and closes it before returning.
// Nothing is kept alive between calls: the tool runs infrequent,
// operator-triggered steps where connection setup cost does not matter and a
// stale session would.
package ssh

import (
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/randomgraphics/wine-droid/internal/config"
)

const (
	// DefaultConnectTimeout bounds the TCP dial and handshake.
	DefaultConnectTimeout = 30 * time.Second
	// DefaultCommandTimeout bounds remote command execution, not the
	// handshake. Long enough for package installs, short enough to notice a
	// wedged device.
	DefaultCommandTimeout = 5 * time.Minute
)

// Client executes operations against one configured device.
type Client struct {
	cfg  *config.DeviceConfig
	opts clientOptions
}

type clientOptions struct {
	connectTimeout time.Duration
	commandTimeout time.Duration
}

// ClientOption customizes a Client.
type ClientOption func(*clientOptions)

// WithConnectTimeout sets the dial/handshake timeout.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.connectTimeout = d
	}
}

// WithCommandTimeout sets the per-command execution timeout. Zero disables
// the timeout entirely; long builds need that, since even a generous cap
// cannot cover an hour-long compile on a throttling phone.
func WithCommandTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.commandTimeout = d
	}
}

// NewClient creates a client for the given device. No connection is made
// until an operation is called.
func NewClient(cfg *config.DeviceConfig, opts ...ClientOption) *Client {
	c := &Client{
		cfg: cfg,
		opts: clientOptions{
			connectTimeout: DefaultConnectTimeout,
			commandTimeout: DefaultCommandTimeout,
		},
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Config returns the device configuration the client was built from.
func (c *Client) Config() *config.DeviceConfig {
	return c.cfg
}

// dial opens a fresh authenticated connection. The caller owns the returned
// connection and must close it before returning to its own caller.
func (c *Client) dial() (*ssh.Client, error) {
	auth, err := c.authMethods()
	if err != nil {
		return nil, &AuthError{User: c.cfg.User, Addr: c.cfg.Addr(), Err: err}
	}

	sshCfg := &ssh.ClientConfig{
		User: c.cfg.User,
		Auth: auth,
		// Termux regenerates host keys on every reinstall, so unknown host
		// keys are trusted rather than pinned.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         c.opts.connectTimeout,
	}

	conn, err := ssh.Dial("tcp", c.cfg.Addr(), sshCfg)
	if err != nil {
		return nil, c.classifyDialError(err)
	}
	return conn, nil
}

// classifyDialError splits dial failures into the auth/connect taxonomy.
func (c *Client) classifyDialError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "unable to authenticate") ||
		strings.Contains(msg, "no supported methods remain") ||
		strings.Contains(msg, "permission denied") {
		return &AuthError{User: c.cfg.User, Addr: c.cfg.Addr(), Err: err}
	}
	return &ConnectError{Addr: c.cfg.Addr(), Err: err}
}
