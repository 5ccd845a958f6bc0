package ssh

import (
	"context"
	"io"

	"github.com/randomgraphics/wine-droid/internal/runner"
)

// MockExecutor is a test double that records commands and returns configured
// results. Unset funcs succeed with empty output.
type MockExecutor struct {
	ExecuteFunc       func(ctx context.Context, command string) (*runner.Result, error)
	ExecuteStreamFunc func(ctx context.Context, command string, stdout, stderr io.Writer) (int, error)
	PushFileFunc      func(localPath, remotePath string) error
	PushContentFunc   func(content []byte, remotePath, suffix string) error
	FileExistsFunc    func(remotePath string) (bool, error)
	DirExistsFunc     func(remotePath string) (bool, error)

	Commands []string
	Pushes   []string
}

func (m *MockExecutor) Execute(ctx context.Context, command string) (*runner.Result, error) {
	m.Commands = append(m.Commands, command)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, command)
	}
	return &runner.Result{}, nil
}

func (m *MockExecutor) ExecuteStream(ctx context.Context, command string, stdout, stderr io.Writer) (int, error) {
	m.Commands = append(m.Commands, command)
	if m.ExecuteStreamFunc != nil {
		return m.ExecuteStreamFunc(ctx, command, stdout, stderr)
	}
	return 0, nil
}

func (m *MockExecutor) PushFile(localPath, remotePath string) error {
	m.Pushes = append(m.Pushes, remotePath)
	if m.PushFileFunc != nil {
		return m.PushFileFunc(localPath, remotePath)
	}
	return nil
}

func (m *MockExecutor) PushDirectory(localDir, remoteDir string) error {
	m.Pushes = append(m.Pushes, remoteDir)
	return nil
}

func (m *MockExecutor) PushContent(content []byte, remotePath, suffix string) error {
	m.Pushes = append(m.Pushes, remotePath)
	if m.PushContentFunc != nil {
		return m.PushContentFunc(content, remotePath, suffix)
	}
	return nil
}

func (m *MockExecutor) FileExists(remotePath string) (bool, error) {
	if m.FileExistsFunc != nil {
		return m.FileExistsFunc(remotePath)
	}
	return false, nil
}

func (m *MockExecutor) DirectoryExists(remotePath string) (bool, error) {
	if m.DirExistsFunc != nil {
		return m.DirExistsFunc(remotePath)
	}
	return false, nil
}

func (m *MockExecutor) MakeDirectory(remotePath string) error {
	m.Commands = append(m.Commands, "mkdir -p "+remotePath)
	return nil
}

func (m *MockExecutor) MakeExecutable(remotePath string) error {
	m.Commands = append(m.Commands, "chmod +x "+remotePath)
	return nil
}

var _ Executor = (*MockExecutor)(nil)
