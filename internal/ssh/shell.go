package ssh

import (
	"errors"
	"os"

	"golang.org/x/crypto/ssh"
	"golang.org/x/term"
)

// InteractiveShell attaches the operator's terminal to a login shell on the
// device. Output flows directly to the terminal; nothing is captured. The
// call blocks until the remote shell exits.
//
// The local terminal is put into raw mode so control sequences (including
// Ctrl-C) reach the remote shell; it is restored on every exit path. An
// operator-ended session is a normal return, not an error.
func (c *Client) InteractiveShell() error {
	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	session, err := conn.NewSession()
	if err != nil {
		return &ProtocolError{Op: "open session", Err: err}
	}
	defer session.Close()

	width, height := 80, 40
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, rawErr := term.MakeRaw(fd)
		if rawErr == nil {
			defer term.Restore(fd, oldState)
		}
		if w, h, sizeErr := term.GetSize(fd); sizeErr == nil {
			width, height = w, h
		}
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}

	termType := os.Getenv("TERM")
	if termType == "" {
		termType = "xterm-256color"
	}

	if err := session.RequestPty(termType, height, width, modes); err != nil {
		return &ProtocolError{Op: "request pty", Err: err}
	}

	session.Stdin = os.Stdin
	session.Stdout = os.Stdout
	session.Stderr = os.Stderr

	if err := session.Shell(); err != nil {
		return &ProtocolError{Op: "start shell", Err: err}
	}

	waitErr := session.Wait()
	if waitErr == nil {
		return nil
	}

	// The remote shell exiting non-zero or dying to a signal (operator ^C,
	// connection drop at logout) is a normal end of session.
	var exitErr *ssh.ExitError
	if errors.As(waitErr, &exitErr) {
		return nil
	}
	var missingErr *ssh.ExitMissingError
	if errors.As(waitErr, &missingErr) {
		return nil
	}
	return &ProtocolError{Op: "shell session", Err: waitErr}
}
