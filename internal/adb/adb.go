// Package adb wraps the Android Debug Bridge CLI: the bridge-shell strategy
// for reaching a device when sshd is not running yet. Every call shells out
// to adb and pays its connection cost; there is no persistent session.
package adb

import (
	"fmt"
	"strings"

	"github.com/randomgraphics/wine-droid/internal/constants"
	"github.com/randomgraphics/wine-droid/internal/runner"
	"github.com/randomgraphics/wine-droid/internal/security"
)

// TermuxPackage is the Android application id of Termux.
const TermuxPackage = constants.TermuxApp

// Device is one row of `adb devices`.
type Device struct {
	Serial string
	State  string
}

// Bridge drives the adb CLI. The zero value targets the only connected
// device; set Serial when several are attached.
type Bridge struct {
	Serial string

	// run is swapped out in tests.
	run func(command string, opts *runner.Options) (*runner.Result, error)
}

// NewBridge creates a bridge for the default (single) device.
func NewBridge() *Bridge {
	return &Bridge{run: runner.Run}
}

// Available reports whether the adb binary is on PATH.
func (b *Bridge) Available() bool {
	return runner.LookPath("adb")
}

// Devices lists connected devices. The first line of adb output is a header
// and is skipped; only rows in the "device" state are returned (offline and
// unauthorized rows are dropped).
func (b *Bridge) Devices() ([]Device, error) {
	result, err := b.runner()("adb devices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to run adb devices: %w", err)
	}
	if !result.Success() {
		return nil, fmt.Errorf("adb devices failed: %s", strings.TrimSpace(result.Stderr))
	}

	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	if len(lines) <= 1 {
		return nil, nil
	}

	var devices []Device
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "device" {
			continue
		}
		devices = append(devices, Device{Serial: fields[0], State: fields[1]})
	}
	return devices, nil
}

// Shell runs a command on the device through `adb shell`. The command is
// single-quoted as one argument, matching how the device shell receives it.
func (b *Bridge) Shell(command string) (*runner.Result, error) {
	return b.runner()(b.prefix()+" shell "+security.ShellEscape(command), nil)
}

// Push copies a local file or directory to a device path via `adb push`.
func (b *Bridge) Push(localPath, remotePath string) error {
	result, err := b.runner()(fmt.Sprintf("%s push %s %s",
		b.prefix(), security.ShellEscape(localPath), security.ShellEscape(remotePath)), nil)
	if err != nil {
		return fmt.Errorf("failed to run adb push: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("adb push failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Install side-loads an APK onto the device via `adb install -r`. adb
// reports some install failures on stdout with a zero exit, so the output is
// checked for the Success marker too.
func (b *Bridge) Install(apkPath string) error {
	result, err := b.runner()(b.prefix()+" install -r "+security.ShellEscape(apkPath), nil)
	if err != nil {
		return fmt.Errorf("failed to run adb install: %w", err)
	}
	if !result.Success() || !strings.Contains(result.Stdout, "Success") {
		return fmt.Errorf("adb install failed: %s",
			strings.TrimSpace(result.Stdout+result.Stderr))
	}
	return nil
}

// PackageInstalled reports whether an Android package id is installed.
func (b *Bridge) PackageInstalled(pkg string) (bool, error) {
	result, err := b.Shell("pm list packages " + pkg)
	if err != nil {
		return false, err
	}
	if !result.Success() {
		return false, fmt.Errorf("pm list packages failed: %s", strings.TrimSpace(result.Stderr))
	}
	return strings.Contains(result.Stdout, "package:"+pkg), nil
}

func (b *Bridge) prefix() string {
	if b.Serial != "" {
		return "adb -s " + security.ShellEscape(b.Serial)
	}
	return "adb"
}

func (b *Bridge) runner() func(string, *runner.Options) (*runner.Result, error) {
	if b.run != nil {
		return b.run
	}
	return runner.Run
}
