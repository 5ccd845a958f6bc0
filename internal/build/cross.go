package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/randomgraphics/wine-droid/internal/runner"
	"github.com/randomgraphics/wine-droid/internal/security"
)

// CrossBuilder compiles box64 on the local machine with the Android NDK.
// The resulting binary still has to be pushed to the device by the caller.
type CrossBuilder struct {
	Toolchain *Toolchain
	ABI       string
	Repo      string
	SourceDir string
	BuildDir  string
	Jobs      int

	// Out receives streamed configure/build output. Defaults to os.Stdout.
	Out io.Writer

	onMessage func(string)
}

// NewCrossBuilder creates a local cross-compilation builder.
func NewCrossBuilder(tc *Toolchain, abi, repo, sourceDir, buildDir string, jobs int) (*CrossBuilder, error) {
	if err := security.ValidateRepoURL(repo); err != nil {
		return nil, fmt.Errorf("invalid box64 repo: %w", err)
	}
	if _, err := CrossArgs(tc, abi); err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = 2
	}
	return &CrossBuilder{
		Toolchain: tc,
		ABI:       abi,
		Repo:      repo,
		SourceDir: sourceDir,
		BuildDir:  buildDir,
		Jobs:      jobs,
		Out:       os.Stdout,
	}, nil
}

// OnMessage sets a callback for step announcements.
func (b *CrossBuilder) OnMessage(fn func(string)) {
	b.onMessage = fn
}

func (b *CrossBuilder) message(msg string) {
	if b.onMessage != nil {
		b.onMessage(msg)
	}
}

// Build runs clone, configure, and compile locally. Returns the path of the
// built box64 binary.
func (b *CrossBuilder) Build() (string, error) {
	if _, err := os.Stat(filepath.Join(b.SourceDir, "CMakeLists.txt")); err != nil {
		b.message("Cloning " + b.Repo)
		result, err := runner.Run(fmt.Sprintf("git clone %s %s",
			security.ShellEscape(b.Repo), security.ShellEscape(b.SourceDir)), nil)
		if err != nil {
			return "", fmt.Errorf("failed to clone box64: %w", err)
		}
		if !result.Success() {
			return "", fmt.Errorf("git clone failed: %s", strings.TrimSpace(result.Stderr))
		}
	}

	if err := os.MkdirAll(b.BuildDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}

	args, err := CrossArgs(b.Toolchain, b.ABI)
	if err != nil {
		return "", err
	}

	absSource, err := filepath.Abs(b.SourceDir)
	if err != nil {
		return "", err
	}

	b.message("Configuring cross build for " + b.ABI)
	code, err := runner.Stream(
		fmt.Sprintf("cmake %s %s", security.ShellEscape(absSource), strings.Join(args, " ")),
		&runner.Options{Dir: b.BuildDir}, b.Out, b.Out)
	if err != nil {
		return "", fmt.Errorf("cmake configuration failed: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("cmake configuration failed with exit code %d", code)
	}

	b.message(fmt.Sprintf("Compiling with %d jobs", b.Jobs))
	code, err = runner.Stream(fmt.Sprintf("make -j%d", b.Jobs),
		&runner.Options{Dir: b.BuildDir}, b.Out, b.Out)
	if err != nil {
		return "", fmt.Errorf("build failed: %w", err)
	}
	if code != 0 {
		return "", fmt.Errorf("build failed with exit code %d", code)
	}

	binary := filepath.Join(b.BuildDir, "box64")
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("build finished but %s is missing: %w", binary, err)
	}
	return binary, nil
}
