package ssh

import (
	"fmt"
	"time"
)

// AuthError indicates the device rejected our credentials, or no usable
// credential could be loaded.
type AuthError struct {
	User string
	Addr string
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s@%s: %v", e.User, e.Addr, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ConnectError indicates the device could not be reached at all.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// ProtocolError covers SSH-level failures after the connection is up
// (session setup, command start, abnormal termination).
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("ssh %s failed: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates a remote command outlived its execution deadline.
// The connection is closed before this error is returned.
type TimeoutError struct {
	Command string
	After   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("remote command %q timed out after %s", e.Command, e.After)
}

// TransferError indicates a file or directory copy to the device failed.
type TransferError struct {
	Source string
	Dest   string
	Err    error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("failed to transfer %s to %s: %v", e.Source, e.Dest, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
