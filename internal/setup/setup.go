// Package setup sequences the bootstrap of a Termux environment on a
// connected phone: bridge checks over ADB, then package installation over
// SSH once sshd is reachable. Package installs are best-effort; a missing
// bridge is fatal, and a missing Termux is side-loaded over adb before
// giving up.
package setup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/randomgraphics/wine-droid/internal/adb"
	"github.com/randomgraphics/wine-droid/internal/constants"
	"github.com/randomgraphics/wine-droid/internal/fetch"
	"github.com/randomgraphics/wine-droid/internal/security"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

// Bridge is the ADB surface the orchestrator drives. *adb.Bridge satisfies
// it.
type Bridge interface {
	Available() bool
	Devices() ([]adb.Device, error)
	PackageInstalled(pkg string) (bool, error)
	Install(apkPath string) error
}

// Orchestrator runs the setup sequence. Bridge-side steps need only an ADB
// connection; device-side steps need a reachable sshd.
type Orchestrator struct {
	bridge Bridge
	exec   ssh.Executor

	// Download fetches a URL to a local file. Defaults to fetch.Download.
	Download func(url, dest string) error

	warnings  []string
	onMessage func(string)
}

// NewOrchestrator creates an orchestrator. Either collaborator may be nil
// when only the other side's steps will run.
func NewOrchestrator(bridge Bridge, exec ssh.Executor) *Orchestrator {
	return &Orchestrator{bridge: bridge, exec: exec, Download: fetch.Download}
}

// OnMessage sets a callback for step announcements.
func (o *Orchestrator) OnMessage(fn func(string)) {
	o.onMessage = fn
}

// Warnings returns the non-fatal problems collected so far.
func (o *Orchestrator) Warnings() []string {
	return o.warnings
}

func (o *Orchestrator) message(msg string) {
	if o.onMessage != nil {
		o.onMessage(msg)
	}
}

func (o *Orchestrator) warn(format string, args ...interface{}) {
	o.warnings = append(o.warnings, fmt.Sprintf(format, args...))
}

// CheckBridge verifies adb is installed and at least one device is attached
// and authorized. Both conditions are fatal when unmet.
func (o *Orchestrator) CheckBridge() error {
	o.message("Checking ADB connection")

	if !o.bridge.Available() {
		return fmt.Errorf("adb is not installed or not in PATH (install android-tools)")
	}

	devices, err := o.bridge.Devices()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no Android device connected (enable USB debugging and accept the prompt on the device)")
	}

	for _, d := range devices {
		o.message("Found device: " + d.Serial)
	}
	return nil
}

// EnsureTermux verifies the Termux app is installed on the device, and
// side-loads it over adb when it is not: from the given local APK if one is
// named, otherwise from the pinned F-Droid release. Manual installation is
// the fatal fallback when neither works.
func (o *Orchestrator) EnsureTermux(apkPath string) error {
	o.message("Checking for Termux installation")

	installed, err := o.bridge.PackageInstalled(adb.TermuxPackage)
	if err != nil {
		return fmt.Errorf("failed to query installed packages: %w", err)
	}
	if installed {
		return nil
	}

	if err := o.installTermux(apkPath); err != nil {
		return fmt.Errorf("%w; install Termux from F-Droid (https://f-droid.org/packages/com.termux/) and run setup again", err)
	}

	installed, err = o.bridge.PackageInstalled(adb.TermuxPackage)
	if err != nil {
		return fmt.Errorf("failed to query installed packages: %w", err)
	}
	if !installed {
		return fmt.Errorf("Termux still not reported as installed after adb install; install it from F-Droid (https://f-droid.org/packages/com.termux/) and run setup again")
	}

	o.message("Termux installed")
	return nil
}

// installTermux side-loads the Termux APK. A downloaded APK is staged in a
// temp file and removed on every path.
func (o *Orchestrator) installTermux(apkPath string) error {
	if apkPath == "" {
		staged := filepath.Join(os.TempDir(), "winedroid-"+uuid.NewString()+".apk")
		defer os.Remove(staged)

		o.message("Downloading Termux from " + constants.TermuxAPKURL)
		if err := o.Download(constants.TermuxAPKURL, staged); err != nil {
			return fmt.Errorf("failed to download Termux APK: %w", err)
		}
		apkPath = staged
	} else if _, err := os.Stat(apkPath); err != nil {
		return fmt.Errorf("Termux APK not found at %s", apkPath)
	}

	o.message("Installing Termux APK via adb")
	return o.bridge.Install(apkPath)
}

// InstallPackages updates the Termux package lists and installs each named
// package over SSH. A failed package list update is fatal; an individual
// package failing to install is a warning and the sequence continues.
func (o *Orchestrator) InstallPackages(ctx context.Context, packages []string) error {
	o.message("Updating package lists")

	result, err := o.exec.Execute(ctx, "pkg update -y")
	if err != nil {
		return fmt.Errorf("failed to update package lists: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("pkg update failed: %s", strings.TrimSpace(result.Stderr))
	}

	for _, pkg := range packages {
		if err := security.ValidatePackageName(pkg); err != nil {
			o.warn("skipping package: %v", err)
			continue
		}

		o.message("Installing " + pkg)
		result, err := o.exec.Execute(ctx, "pkg install -y "+pkg)
		if err != nil {
			o.warn("failed to install %s: %v", pkg, err)
			continue
		}
		if !result.Success() {
			o.warn("failed to install %s: %s", pkg, strings.TrimSpace(result.Stderr))
		}
	}
	return nil
}

// VerifyTools checks that the build tools the later steps depend on are now
// present on the device. Missing tools are warnings: the operator may have
// installed them another way.
func (o *Orchestrator) VerifyTools(ctx context.Context, tools []string) {
	for _, tool := range tools {
		result, err := o.exec.Execute(ctx, "command -v "+security.ShellEscape(tool))
		if err != nil {
			o.warn("could not verify %s: %v", tool, err)
			continue
		}
		if !result.Success() {
			o.warn("%s not found on device after setup", tool)
		}
	}
}

// SSHInstructions is printed when the device-side steps cannot run because
// sshd is not reachable yet.
const SSHInstructions = `To enable SSH in Termux on the device:
  1. pkg install openssh
  2. passwd
  3. sshd
  4. ip route get 1.1.1.1   # note the device address
Then write host=, port=8022, user= into termux-user.txt and re-run setup.`
