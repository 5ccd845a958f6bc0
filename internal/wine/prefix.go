// Package wine initializes a Wine prefix ("container") on the device and
// installs DXVK DLLs into it. Wine itself is an external tool; a wineboot
// that exits non-zero is a warning, matching how Wine behaves on first boot.
package wine

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/randomgraphics/wine-droid/internal/security"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

// Initializer sequences Wine prefix creation on the device.
type Initializer struct {
	exec ssh.Executor

	// PrefixDir is the prefix location on the device. Relative paths are
	// resolved under the Termux home directory.
	PrefixDir string

	warnings  []string
	onMessage func(string)
}

// NewInitializer creates an initializer for the given prefix directory.
func NewInitializer(exec ssh.Executor, prefixDir string) (*Initializer, error) {
	if err := security.ValidateRemotePath(prefixDir); err != nil {
		return nil, fmt.Errorf("invalid prefix directory: %w", err)
	}
	return &Initializer{exec: exec, PrefixDir: prefixDir}, nil
}

// OnMessage sets a callback for step announcements.
func (i *Initializer) OnMessage(fn func(string)) {
	i.onMessage = fn
}

// Warnings returns the non-fatal problems collected so far.
func (i *Initializer) Warnings() []string {
	return i.warnings
}

func (i *Initializer) message(msg string) {
	if i.onMessage != nil {
		i.onMessage(msg)
	}
}

func (i *Initializer) warn(format string, args ...interface{}) {
	i.warnings = append(i.warnings, fmt.Sprintf(format, args...))
}

// prefixExpr is the prefix path as the device shell should evaluate it.
func (i *Initializer) prefixExpr() string {
	if path.IsAbs(i.PrefixDir) {
		return i.PrefixDir
	}
	return "$HOME/" + i.PrefixDir
}

// Init verifies wine is installed on the device, creates the prefix
// directory, and boots the prefix. wineboot exiting non-zero is recorded as
// a warning because first boots routinely complain and still produce a
// usable prefix.
func (i *Initializer) Init(ctx context.Context) error {
	i.message("Checking for wine on device")
	result, err := i.exec.Execute(ctx, "command -v wine")
	if err != nil {
		return fmt.Errorf("failed to check for wine: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("wine is not installed on the device (run wine install first)")
	}

	i.message("Creating Wine prefix at " + i.PrefixDir)
	if err := i.exec.MakeDirectory(i.PrefixDir); err != nil {
		return fmt.Errorf("failed to create prefix directory: %w", err)
	}

	result, err = i.exec.Execute(ctx, fmt.Sprintf(`WINEPREFIX="%s" wineboot --init`, i.prefixExpr()))
	if err != nil {
		return fmt.Errorf("failed to run wineboot: %w", err)
	}
	if !result.Success() {
		i.warn("wineboot exited with code %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	return nil
}

// InstallDXVK copies the DXVK DLLs from a local distribution directory into
// the prefix's system directories: x64 DLLs into system32, x32 DLLs into
// syswow64. A missing architecture subdirectory is a warning. Installed DLLs
// get native overrides registered so Wine loads them instead of its builtins;
// a failed registry edit is a warning.
func (i *Initializer) InstallDXVK(ctx context.Context, localDXVKDir string) error {
	targets := []struct {
		sub  string
		dest string
	}{
		{"x64", "drive_c/windows/system32"},
		{"x32", "drive_c/windows/syswow64"},
	}

	installed := map[string]bool{}
	for _, target := range targets {
		srcDir := filepath.Join(localDXVKDir, target.sub)
		entries, err := os.ReadDir(srcDir)
		if err != nil {
			i.warn("DXVK %s directory not found at %s", target.sub, srcDir)
			continue
		}

		destDir := path.Join(i.PrefixDir, target.dest)
		if err := i.exec.MakeDirectory(destDir); err != nil {
			return fmt.Errorf("failed to create %s: %w", destDir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dll") {
				continue
			}
			i.message("Installing " + entry.Name() + " into " + target.dest)
			local := filepath.Join(srcDir, entry.Name())
			if err := i.exec.PushFile(local, path.Join(destDir, entry.Name())); err != nil {
				return fmt.Errorf("failed to push %s: %w", entry.Name(), err)
			}
			installed[strings.TrimSuffix(entry.Name(), ".dll")] = true
		}
	}

	names := make([]string, 0, len(installed))
	for name := range installed {
		names = append(names, name)
	}
	sort.Strings(names)
	i.registerOverrides(ctx, names)
	return nil
}

// registerOverrides marks the given DLLs as native in the prefix registry so
// Wine prefers the installed copies over its builtins. Registry edits are
// best-effort.
func (i *Initializer) registerOverrides(ctx context.Context, names []string) {
	for _, name := range names {
		i.message("Registering native override for " + name)
		command := fmt.Sprintf(
			`WINEPREFIX="%s" wine reg add 'HKCU\Software\Wine\DllOverrides' /v %s /d native /f`,
			i.prefixExpr(), name)
		result, err := i.exec.Execute(ctx, command)
		if err != nil {
			i.warn("failed to register override for %s: %v", name, err)
			continue
		}
		if !result.Success() {
			i.warn("override for %s exited with code %d", name, result.ExitCode)
		}
	}
}
