package ssh

import (
	"context"
	"io"

	"github.com/randomgraphics/wine-droid/internal/runner"
)

// Executor abstracts the device-side operations the orchestration packages
// need, so they can be tested without a phone on the desk.
type Executor interface {
	Execute(ctx context.Context, command string) (*runner.Result, error)
	ExecuteStream(ctx context.Context, command string, stdout, stderr io.Writer) (int, error)
	PushFile(localPath, remotePath string) error
	PushDirectory(localDir, remoteDir string) error
	PushContent(content []byte, remotePath, suffix string) error
	FileExists(remotePath string) (bool, error)
	DirectoryExists(remotePath string) (bool, error)
	MakeDirectory(remotePath string) error
	MakeExecutable(remotePath string) error
}

var _ Executor = (*Client)(nil)
