package setup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomgraphics/wine-droid/internal/adb"
	"github.com/randomgraphics/wine-droid/internal/constants"
	"github.com/randomgraphics/wine-droid/internal/runner"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

type fakeBridge struct {
	installed  bool
	installErr error
	installs   []string
}

func (f *fakeBridge) Available() bool { return true }

func (f *fakeBridge) Devices() ([]adb.Device, error) {
	return []adb.Device{{Serial: "R58M12ABCDE", State: "device"}}, nil
}

func (f *fakeBridge) PackageInstalled(pkg string) (bool, error) {
	return f.installed, nil
}

func (f *fakeBridge) Install(apkPath string) error {
	f.installs = append(f.installs, apkPath)
	if f.installErr != nil {
		return f.installErr
	}
	f.installed = true
	return nil
}

func TestEnsureTermux_AlreadyInstalled(t *testing.T) {
	bridge := &fakeBridge{installed: true}
	o := NewOrchestrator(bridge, nil)

	require.NoError(t, o.EnsureTermux(""))
	assert.Empty(t, bridge.installs)
}

func TestEnsureTermux_DownloadsAndSideloads(t *testing.T) {
	bridge := &fakeBridge{}
	o := NewOrchestrator(bridge, nil)

	var fetched string
	o.Download = func(url, dest string) error {
		fetched = url
		return os.WriteFile(dest, []byte("apk"), 0644)
	}

	require.NoError(t, o.EnsureTermux(""))
	assert.Equal(t, constants.TermuxAPKURL, fetched)
	require.Len(t, bridge.installs, 1)
}

func TestEnsureTermux_UsesLocalAPK(t *testing.T) {
	apk := filepath.Join(t.TempDir(), "com.termux_1022.apk")
	require.NoError(t, os.WriteFile(apk, []byte("apk"), 0644))

	bridge := &fakeBridge{}
	o := NewOrchestrator(bridge, nil)
	o.Download = func(url, dest string) error {
		t.Fatal("must not download when a local APK is given")
		return nil
	}

	require.NoError(t, o.EnsureTermux(apk))
	assert.Equal(t, []string{apk}, bridge.installs)
}

func TestEnsureTermux_FallsBackToInstructions(t *testing.T) {
	bridge := &fakeBridge{}
	o := NewOrchestrator(bridge, nil)
	o.Download = func(url, dest string) error { return errors.New("connection refused") }

	err := o.EnsureTermux("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "f-droid.org")
	assert.Empty(t, bridge.installs)
}

func TestEnsureTermux_MissingLocalAPK(t *testing.T) {
	bridge := &fakeBridge{}
	o := NewOrchestrator(bridge, nil)

	err := o.EnsureTermux(filepath.Join(t.TempDir(), "nope.apk"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Empty(t, bridge.installs)
}

func TestInstallPackages_BestEffort(t *testing.T) {
	exec := &ssh.MockExecutor{
		ExecuteFunc: func(ctx context.Context, command string) (*runner.Result, error) {
			if strings.Contains(command, "install -y cmake") {
				return &runner.Result{ExitCode: 100, Stderr: "E: Unable to locate package\n"}, nil
			}
			return &runner.Result{}, nil
		},
	}
	o := NewOrchestrator(nil, exec)

	err := o.InstallPackages(context.Background(), []string{"git", "cmake", "clang"})
	require.NoError(t, err, "individual package failures must not abort the sequence")

	warnings := o.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "cmake")

	// all three installs attempted despite the failure
	joined := strings.Join(exec.Commands, "\n")
	assert.Contains(t, joined, "pkg install -y git")
	assert.Contains(t, joined, "pkg install -y cmake")
	assert.Contains(t, joined, "pkg install -y clang")
}

func TestInstallPackages_UpdateFailureIsFatal(t *testing.T) {
	exec := &ssh.MockExecutor{
		ExecuteFunc: func(ctx context.Context, command string) (*runner.Result, error) {
			return &runner.Result{ExitCode: 1, Stderr: "repository unreachable\n"}, nil
		},
	}
	o := NewOrchestrator(nil, exec)

	err := o.InstallPackages(context.Background(), []string{"git"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pkg update failed")
}

func TestInstallPackages_RejectsUnsafeNames(t *testing.T) {
	exec := &ssh.MockExecutor{}
	o := NewOrchestrator(nil, exec)

	err := o.InstallPackages(context.Background(), []string{"git; rm -rf /"})
	require.NoError(t, err)

	assert.Len(t, o.Warnings(), 1)
	assert.NotContains(t, strings.Join(exec.Commands, "\n"), "rm -rf")
}

func TestVerifyTools_WarnsOnMissing(t *testing.T) {
	exec := &ssh.MockExecutor{
		ExecuteFunc: func(ctx context.Context, command string) (*runner.Result, error) {
			if strings.Contains(command, "cmake") {
				return &runner.Result{ExitCode: 1}, nil
			}
			return &runner.Result{Stdout: "/usr/bin/git\n"}, nil
		},
	}
	o := NewOrchestrator(nil, exec)

	o.VerifyTools(context.Background(), []string{"git", "cmake"})

	warnings := o.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "cmake")
}

func TestMessages_ReportSteps(t *testing.T) {
	exec := &ssh.MockExecutor{}
	o := NewOrchestrator(nil, exec)

	var messages []string
	o.OnMessage(func(msg string) { messages = append(messages, msg) })

	require.NoError(t, o.InstallPackages(context.Background(), []string{"git"}))
	assert.Contains(t, messages, "Updating package lists")
	assert.Contains(t, messages, "Installing git")
}
