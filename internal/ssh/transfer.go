package ssh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	gossh "golang.org/x/crypto/ssh"

	"github.com/randomgraphics/wine-droid/internal/security"
)

// PushFile copies a local file to the device over the SCP protocol. The
// destination directory is created first. One connection serves the whole
// operation and is closed before returning.
func (c *Client) PushFile(localPath, remotePath string) error {
	conn, err := c.dial()
	if err != nil {
		return &TransferError{Source: localPath, Dest: remotePath, Err: err}
	}
	defer conn.Close()

	if err := c.pushFileOnConn(conn, localPath, remotePath); err != nil {
		return &TransferError{Source: localPath, Dest: remotePath, Err: err}
	}
	return nil
}

// PushDirectory copies a local directory tree to the device recursively,
// reusing one connection for every file in the tree.
func (c *Client) PushDirectory(localDir, remoteDir string) error {
	conn, err := c.dial()
	if err != nil {
		return &TransferError{Source: localDir, Dest: remoteDir, Err: err}
	}
	defer conn.Close()

	walkErr := filepath.Walk(localDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(localDir, path)
		if err != nil {
			return err
		}
		remotePath := filepath.Join(remoteDir, relPath)

		if info.IsDir() {
			return c.mkdirOnConn(conn, remotePath)
		}
		return c.pushFileOnConn(conn, path, remotePath)
	})

	if walkErr != nil {
		return &TransferError{Source: localDir, Dest: remoteDir, Err: walkErr}
	}
	return nil
}

// PushContent writes content to a uniquely-named local staging file, pushes
// it, and removes the staging file whether or not the push succeeded. The
// suffix hint lets the remote side see a meaningful extension (".sh").
func (c *Client) PushContent(content []byte, remotePath, suffix string) error {
	staging := filepath.Join(os.TempDir(), "winedroid-"+uuid.NewString()+suffix)
	if err := os.WriteFile(staging, content, 0600); err != nil {
		return &TransferError{Source: staging, Dest: remotePath, Err: err}
	}
	defer os.Remove(staging)

	return c.PushFile(staging, remotePath)
}

// MakeExecutable marks a device file executable.
func (c *Client) MakeExecutable(remotePath string) error {
	result, err := c.Execute(context.Background(), "chmod +x "+security.ShellEscape(remotePath))
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("chmod +x %s failed: %s", remotePath, result.Stderr)
	}
	return nil
}

// MakeDirectory creates a directory (and parents) on the device.
func (c *Client) MakeDirectory(remotePath string) error {
	result, err := c.Execute(context.Background(), "mkdir -p "+security.ShellEscape(remotePath))
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("mkdir -p %s failed: %s", remotePath, result.Stderr)
	}
	return nil
}

// pushFileOnConn sends one file over an open connection using the SCP sink
// protocol: C<mode> <size> <name>\n<data>\0.
func (c *Client) pushFileOnConn(conn *gossh.Client, localPath, remotePath string) error {
	localFile, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer localFile.Close()

	fileInfo, err := localFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat local file: %w", err)
	}

	if err := c.mkdirOnConn(conn, filepath.Dir(remotePath)); err != nil {
		return err
	}

	session, err := conn.NewSession()
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	go func() {
		defer stdin.Close()
		fmt.Fprintf(stdin, "C0644 %d %s\n", fileInfo.Size(), filepath.Base(remotePath))
		_, _ = io.Copy(stdin, localFile)
		fmt.Fprint(stdin, "\x00")
	}()

	if err := session.Run("scp -t " + security.ShellEscape(remotePath)); err != nil {
		return fmt.Errorf("scp failed: %w", err)
	}
	return nil
}

func (c *Client) mkdirOnConn(conn *gossh.Client, remotePath string) error {
	result, err := c.runOnConn(context.Background(), conn, "mkdir -p "+security.ShellEscape(remotePath))
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("mkdir -p %s failed: %s", remotePath, result.Stderr)
	}
	return nil
}
