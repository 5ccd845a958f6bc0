package wine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomgraphics/wine-droid/internal/runner"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

func TestInit_WineMissingIsFatal(t *testing.T) {
	exec := &ssh.MockExecutor{
		ExecuteFunc: func(ctx context.Context, command string) (*runner.Result, error) {
			if strings.Contains(command, "command -v wine") {
				return &runner.Result{ExitCode: 1}, nil
			}
			return &runner.Result{}, nil
		},
	}
	init, err := NewInitializer(exec, "wine-container")
	require.NoError(t, err)

	err = init.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wine is not installed")
}

func TestInit_WinebootFailureIsWarning(t *testing.T) {
	exec := &ssh.MockExecutor{
		ExecuteFunc: func(ctx context.Context, command string) (*runner.Result, error) {
			if strings.Contains(command, "wineboot") {
				return &runner.Result{ExitCode: 53, Stderr: "wine: created the configuration directory\n"}, nil
			}
			return &runner.Result{}, nil
		},
	}
	init, err := NewInitializer(exec, "wine-container")
	require.NoError(t, err)

	require.NoError(t, init.Init(context.Background()))
	require.Len(t, init.Warnings(), 1)
	assert.Contains(t, init.Warnings()[0], "wineboot exited with code 53")
}

func TestInit_RelativePrefixResolvesUnderHome(t *testing.T) {
	exec := &ssh.MockExecutor{}
	init, err := NewInitializer(exec, "wine-container")
	require.NoError(t, err)

	require.NoError(t, init.Init(context.Background()))
	assert.Contains(t, strings.Join(exec.Commands, "\n"), `WINEPREFIX="$HOME/wine-container" wineboot --init`)
}

func TestNewInitializer_RejectsUnsafePrefix(t *testing.T) {
	_, err := NewInitializer(&ssh.MockExecutor{}, "../escape")
	assert.Error(t, err)
}

func TestInstallDXVK(t *testing.T) {
	dxvk := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dxvk, "x64"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dxvk, "x32"), 0755))
	for _, f := range []string{"x64/d3d11.dll", "x64/dxgi.dll", "x32/d3d11.dll", "x64/README"} {
		require.NoError(t, os.WriteFile(filepath.Join(dxvk, f), []byte("dll"), 0644))
	}

	exec := &ssh.MockExecutor{}
	init, err := NewInitializer(exec, "wine-container")
	require.NoError(t, err)

	require.NoError(t, init.InstallDXVK(context.Background(), dxvk))

	pushes := strings.Join(exec.Pushes, "\n")
	assert.Contains(t, pushes, "wine-container/drive_c/windows/system32/d3d11.dll")
	assert.Contains(t, pushes, "wine-container/drive_c/windows/system32/dxgi.dll")
	assert.Contains(t, pushes, "wine-container/drive_c/windows/syswow64/d3d11.dll")
	assert.NotContains(t, pushes, "README")
	assert.Empty(t, init.Warnings())

	// one override per distinct DLL, even when pushed for both arches
	commands := strings.Join(exec.Commands, "\n")
	assert.Equal(t, 1, strings.Count(commands, "/v d3d11 /d native /f"))
	assert.Equal(t, 1, strings.Count(commands, "/v dxgi /d native /f"))
}

func TestInstallDXVK_OverrideFailureIsWarning(t *testing.T) {
	dxvk := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dxvk, "x64"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dxvk, "x32"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dxvk, "x64", "dxgi.dll"), []byte("dll"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dxvk, "x32", "dxgi.dll"), []byte("dll"), 0644))

	exec := &ssh.MockExecutor{
		ExecuteFunc: func(ctx context.Context, command string) (*runner.Result, error) {
			if strings.Contains(command, "reg add") {
				return &runner.Result{ExitCode: 1}, nil
			}
			return &runner.Result{}, nil
		},
	}
	init, err := NewInitializer(exec, "wine-container")
	require.NoError(t, err)

	require.NoError(t, init.InstallDXVK(context.Background(), dxvk))
	require.Len(t, init.Warnings(), 1)
	assert.Contains(t, init.Warnings()[0], "dxgi")
}

func TestInstallDXVK_MissingArchIsWarning(t *testing.T) {
	dxvk := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dxvk, "x64"), 0755))

	exec := &ssh.MockExecutor{}
	init, err := NewInitializer(exec, "wine-container")
	require.NoError(t, err)

	require.NoError(t, init.InstallDXVK(context.Background(), dxvk))
	require.Len(t, init.Warnings(), 1)
	assert.Contains(t, init.Warnings()[0], "x32")
}
