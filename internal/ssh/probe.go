package ssh

import (
	"context"
	"fmt"
	"strings"

	"github.com/randomgraphics/wine-droid/internal/security"
)

// FileExists reports whether a regular file exists on the device. A
// connection or protocol failure is returned as an error so callers can tell
// "absent" from "unreachable".
func (c *Client) FileExists(remotePath string) (bool, error) {
	return c.probe("test -f", remotePath)
}

// DirectoryExists reports whether a directory exists on the device.
func (c *Client) DirectoryExists(remotePath string) (bool, error) {
	return c.probe("test -d", remotePath)
}

func (c *Client) probe(test, remotePath string) (bool, error) {
	result, err := c.Execute(context.Background(), test+" "+security.ShellEscape(remotePath))
	if err != nil {
		return false, err
	}
	return result.Success(), nil
}

// Listing returns the long-format directory listing of a device path.
func (c *Client) Listing(remotePath string) (string, error) {
	result, err := c.Execute(context.Background(), "ls -la "+security.ShellEscape(remotePath))
	if err != nil {
		return "", err
	}
	if !result.Success() {
		return "", fmt.Errorf("ls -la %s failed: %s", remotePath, strings.TrimSpace(result.Stderr))
	}
	return strings.TrimSpace(result.Stdout), nil
}
