package build

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/randomgraphics/wine-droid/internal/config"
	"github.com/randomgraphics/wine-droid/internal/security"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

// OnDeviceBuilder compiles box64 inside Termux on the phone, driving git,
// cmake and make over the SSH executor. Build output is streamed to Out so
// the operator can watch a compile that takes the better part of an hour.
type OnDeviceBuilder struct {
	exec    ssh.Executor
	profile *config.Box64Profile

	// Out receives streamed configure/build output. Defaults to os.Stdout.
	Out io.Writer

	onMessage func(string)
}

// NewOnDeviceBuilder creates a builder for the given executor and profile.
func NewOnDeviceBuilder(exec ssh.Executor, profile *config.Box64Profile) (*OnDeviceBuilder, error) {
	if err := security.ValidateRepoURL(profile.Repo); err != nil {
		return nil, fmt.Errorf("invalid box64 repo: %w", err)
	}
	if profile.Ref != "" {
		if err := security.ValidateGitRef(profile.Ref); err != nil {
			return nil, fmt.Errorf("invalid box64 ref: %w", err)
		}
	}
	for _, p := range []string{profile.SourceDir, profile.BuildDir, profile.Prefix} {
		if err := security.ValidateRemotePath(p); err != nil {
			return nil, fmt.Errorf("invalid box64 path: %w", err)
		}
	}
	return &OnDeviceBuilder{exec: exec, profile: profile, Out: os.Stdout}, nil
}

// OnMessage sets a callback for step announcements.
func (b *OnDeviceBuilder) OnMessage(fn func(string)) {
	b.onMessage = fn
}

func (b *OnDeviceBuilder) message(msg string) {
	if b.onMessage != nil {
		b.onMessage(msg)
	}
}

// Build runs the full sequence: fetch source, configure, compile, install.
// A failed step stops the sequence; completed steps are not rolled back.
func (b *OnDeviceBuilder) Build(ctx context.Context) error {
	if err := b.fetchSource(ctx); err != nil {
		return err
	}

	platform, err := b.resolvePlatform(ctx)
	if err != nil {
		return err
	}
	b.message("Building for platform: " + platform)

	if err := b.configure(ctx, platform); err != nil {
		return err
	}
	if err := b.compile(ctx); err != nil {
		return err
	}
	return b.install(ctx)
}

// fetchSource clones the box64 repository if it is not on the device yet,
// and checks out the pinned ref when the profile names one.
func (b *OnDeviceBuilder) fetchSource(ctx context.Context) error {
	src := b.profile.SourceDir

	present, err := b.exec.FileExists(path.Join(src, "CMakeLists.txt"))
	if err != nil {
		return fmt.Errorf("failed to check for existing source: %w", err)
	}

	if !present {
		b.message("Cloning " + b.profile.Repo)
		result, err := b.exec.Execute(ctx, fmt.Sprintf("git clone %s %s",
			security.ShellEscape(b.profile.Repo), security.ShellEscape(src)))
		if err != nil {
			return fmt.Errorf("failed to clone box64: %w", err)
		}
		if !result.Success() {
			return fmt.Errorf("git clone failed: %s", strings.TrimSpace(result.Stderr))
		}
	}

	if b.profile.Ref != "" {
		result, err := b.exec.Execute(ctx, fmt.Sprintf("git -C %s checkout %s",
			security.ShellEscape(src), security.ShellEscape(b.profile.Ref)))
		if err != nil {
			return fmt.Errorf("failed to checkout %s: %w", b.profile.Ref, err)
		}
		if !result.Success() {
			return fmt.Errorf("git checkout %s failed: %s", b.profile.Ref, strings.TrimSpace(result.Stderr))
		}
	}
	return nil
}

// resolvePlatform returns the profile's platform, or detects one from the
// device's cpuinfo and machine string.
func (b *OnDeviceBuilder) resolvePlatform(ctx context.Context) (string, error) {
	if b.profile.Platform != "" {
		if _, err := PlatformArgs(b.profile.Platform); err != nil {
			return "", err
		}
		return b.profile.Platform, nil
	}

	cpuinfo, err := b.exec.Execute(ctx, "cat /proc/cpuinfo")
	if err != nil {
		return "", fmt.Errorf("failed to read device cpuinfo: %w", err)
	}
	machine, err := b.exec.Execute(ctx, "uname -m")
	if err != nil {
		return "", fmt.Errorf("failed to read device machine type: %w", err)
	}

	return DetectPlatform(cpuinfo.Stdout, machine.Stdout), nil
}

func (b *OnDeviceBuilder) configure(ctx context.Context, platform string) error {
	args, err := PlatformArgs(platform)
	if err != nil {
		return err
	}
	args = append(args,
		"-DCMAKE_INSTALL_PREFIX="+b.profile.Prefix,
		"-DUSE_CCACHE=OFF",
		"-DNOALIGN=ON",
	)
	args = append(args, b.profile.CMakeArgs...)

	b.message("Configuring build")
	if err := b.exec.MakeDirectory(b.profile.BuildDir); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	cmd := fmt.Sprintf("cd %s && cmake %s %s",
		security.ShellEscape(b.profile.BuildDir),
		security.ShellEscape(b.sourceFromBuildDir()),
		strings.Join(args, " "))

	code, err := b.exec.ExecuteStream(ctx, cmd, b.Out, b.Out)
	if err != nil {
		return fmt.Errorf("cmake configuration failed: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("cmake configuration failed with exit code %d", code)
	}
	return nil
}

func (b *OnDeviceBuilder) compile(ctx context.Context) error {
	b.message(fmt.Sprintf("Compiling with %d jobs", b.profile.Jobs))

	cmd := fmt.Sprintf("cd %s && make -j%d", security.ShellEscape(b.profile.BuildDir), b.profile.Jobs)
	code, err := b.exec.ExecuteStream(ctx, cmd, b.Out, b.Out)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("build failed with exit code %d", code)
	}
	return nil
}

func (b *OnDeviceBuilder) install(ctx context.Context) error {
	b.message("Installing to " + b.profile.Prefix)

	cmd := fmt.Sprintf("cd %s && make install", security.ShellEscape(b.profile.BuildDir))
	code, err := b.exec.ExecuteStream(ctx, cmd, b.Out, b.Out)
	if err != nil {
		return fmt.Errorf("install failed: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("install failed with exit code %d", code)
	}
	return nil
}

// sourceFromBuildDir returns the source directory as cmake should see it
// from inside the build directory.
func (b *OnDeviceBuilder) sourceFromBuildDir() string {
	if path.IsAbs(b.profile.SourceDir) {
		return b.profile.SourceDir
	}
	return "../" + b.profile.SourceDir
}

// LaunchScript renders the helper script installed to the device home
// directory so the operator can load the box64 environment in one source.
func LaunchScript(prefix string) string {
	return fmt.Sprintf(`#!/bin/sh
# Box64 environment for Termux.

export BOX64_PATH=%q
export PATH=%q

echo "Box64 environment loaded"
echo "Usage: box64 <x86_64 program>"
echo "       box64 wine <windows program>"
`, prefix+"/bin/box64", prefix+"/bin:$PATH")
}
