package ssh

import (
	"bytes"
	"context"
	"errors"
	"io"

	"golang.org/x/crypto/ssh"

	"github.com/randomgraphics/wine-droid/internal/runner"
)

// Execute runs one command on the device and captures its output in full.
// The result has the same shape as a local runner.Run result: a non-zero
// remote exit is reported through Result.ExitCode, not as an error.
//
// A fresh connection is opened for the call and closed on every exit path.
// Execution is bounded by the client's command timeout (or an earlier ctx
// deadline); the handshake is bounded separately by the connect timeout.
func (c *Client) Execute(ctx context.Context, command string) (*runner.Result, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return c.runOnConn(ctx, conn, command)
}

// ExecuteStream runs one command on the device, writing output to the given
// writers as it is produced. Used for long builds where the operator wants
// live progress. Returns the remote exit code.
func (c *Client) ExecuteStream(ctx context.Context, command string, stdout, stderr io.Writer) (int, error) {
	conn, err := c.dial()
	if err != nil {
		return -1, err
	}
	defer conn.Close()

	session, err := conn.NewSession()
	if err != nil {
		return -1, &ProtocolError{Op: "open session", Err: err}
	}
	defer session.Close()

	session.Stdout = stdout
	session.Stderr = stderr

	if err := session.Start(command); err != nil {
		return -1, &ProtocolError{Op: "start command", Err: err}
	}

	err = c.waitBounded(ctx, session, command)
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitStatus(), nil
		}
		return -1, err
	}
	return 0, nil
}

// runOnConn executes a command over an already-open connection. Shared with
// the transfer path so one logical operation can issue several commands on a
// single connection.
func (c *Client) runOnConn(ctx context.Context, conn *ssh.Client, command string) (*runner.Result, error) {
	session, err := conn.NewSession()
	if err != nil {
		return nil, &ProtocolError{Op: "open session", Err: err}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Start(command); err != nil {
		return nil, &ProtocolError{Op: "start command", Err: err}
	}

	err = c.waitBounded(ctx, session, command)

	result := &runner.Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
			return result, nil
		}
		return nil, err
	}
	return result, nil
}

// waitBounded waits for the session to finish, enforcing the command
// timeout. A zero command timeout means no bound beyond the caller's ctx.
// On timeout the session is closed to unblock the remote side and a
// TimeoutError is returned.
func (c *Client) waitBounded(ctx context.Context, session *ssh.Session, command string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.opts.commandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.commandTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Wait()
	}()

	select {
	case <-ctx.Done():
		session.Close()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &TimeoutError{Command: command, After: c.opts.commandTimeout}
		}
		return &ProtocolError{Op: "wait for command", Err: ctx.Err()}
	case err := <-done:
		if err == nil {
			return nil
		}
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return err
		}
		return &ProtocolError{Op: "wait for command", Err: err}
	}
}
