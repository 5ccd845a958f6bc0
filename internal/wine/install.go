package wine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/randomgraphics/wine-droid/internal/config"
	"github.com/randomgraphics/wine-droid/internal/constants"
	"github.com/randomgraphics/wine-droid/internal/fetch"
	"github.com/randomgraphics/wine-droid/internal/security"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

// Installer builds Wine from source inside Termux and links the result onto
// PATH, then installs winetricks next to it. Termux's pkg repo carries no
// wine package, so this is the only way to get one onto the device.
type Installer struct {
	exec    ssh.Executor
	profile *config.WineProfile

	// Out receives streamed configure/build output. Defaults to os.Stdout.
	Out io.Writer

	// Download fetches a URL into memory. Defaults to fetch.Bytes.
	Download func(url string) ([]byte, error)

	onMessage func(string)
}

// NewInstaller creates an installer for the given executor and profile.
func NewInstaller(exec ssh.Executor, profile *config.WineProfile) (*Installer, error) {
	if err := security.ValidateRepoURL(profile.Repo); err != nil {
		return nil, fmt.Errorf("invalid wine repo: %w", err)
	}
	if err := security.ValidateRemotePath(profile.SourceDir); err != nil {
		return nil, fmt.Errorf("invalid wine source directory: %w", err)
	}
	return &Installer{exec: exec, profile: profile, Out: os.Stdout, Download: fetch.Bytes}, nil
}

// OnMessage sets a callback for step announcements.
func (i *Installer) OnMessage(fn func(string)) {
	i.onMessage = fn
}

func (i *Installer) message(msg string) {
	if i.onMessage != nil {
		i.onMessage(msg)
	}
}

// installPrefix is the absolute install location on the device. Wine is
// configured to install into its own source tree, matching how it is
// usually run from a checkout.
func (i *Installer) installPrefix() string {
	if path.IsAbs(i.profile.SourceDir) {
		return i.profile.SourceDir
	}
	return path.Join(constants.TermuxHome, i.profile.SourceDir)
}

// Install runs the full sequence: clone, configure, compile, install, link
// onto PATH. A wine already on PATH short-circuits the whole thing. A
// failed step stops the sequence; completed steps are not rolled back.
func (i *Installer) Install(ctx context.Context) error {
	result, err := i.exec.Execute(ctx, "command -v wine")
	if err != nil {
		return fmt.Errorf("failed to check for wine: %w", err)
	}
	if result.Success() {
		i.message("wine is already installed")
		return nil
	}

	if err := i.fetchSource(ctx); err != nil {
		return err
	}
	if err := i.configure(ctx); err != nil {
		return err
	}
	if err := i.compile(ctx); err != nil {
		return err
	}
	if err := i.install(ctx); err != nil {
		return err
	}
	return i.link(ctx)
}

func (i *Installer) fetchSource(ctx context.Context) error {
	src := i.profile.SourceDir

	present, err := i.exec.FileExists(path.Join(src, "configure"))
	if err != nil {
		return fmt.Errorf("failed to check for existing source: %w", err)
	}
	if present {
		return nil
	}

	i.message("Cloning " + i.profile.Repo)
	code, err := i.exec.ExecuteStream(ctx, fmt.Sprintf("git clone --depth 1 %s %s",
		security.ShellEscape(i.profile.Repo), security.ShellEscape(src)), i.Out, i.Out)
	if err != nil {
		return fmt.Errorf("failed to clone wine: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("git clone failed with exit code %d", code)
	}
	return nil
}

func (i *Installer) configure(ctx context.Context) error {
	i.message("Configuring wine")

	cmd := fmt.Sprintf("cd %s && ./configure --with-wine64 --prefix=%s",
		security.ShellEscape(i.profile.SourceDir), security.ShellEscape(i.installPrefix()))
	code, err := i.exec.ExecuteStream(ctx, cmd, i.Out, i.Out)
	if err != nil {
		return fmt.Errorf("configure failed: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("configure failed with exit code %d", code)
	}
	return nil
}

func (i *Installer) compile(ctx context.Context) error {
	i.message(fmt.Sprintf("Compiling wine with %d jobs", i.profile.Jobs))

	cmd := fmt.Sprintf("cd %s && make -j%d", security.ShellEscape(i.profile.SourceDir), i.profile.Jobs)
	code, err := i.exec.ExecuteStream(ctx, cmd, i.Out, i.Out)
	if err != nil {
		return fmt.Errorf("wine build failed: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("wine build failed with exit code %d", code)
	}
	return nil
}

func (i *Installer) install(ctx context.Context) error {
	i.message("Installing wine to " + i.installPrefix())

	cmd := fmt.Sprintf("cd %s && make install", security.ShellEscape(i.profile.SourceDir))
	code, err := i.exec.ExecuteStream(ctx, cmd, i.Out, i.Out)
	if err != nil {
		return fmt.Errorf("wine install failed: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("wine install failed with exit code %d", code)
	}
	return nil
}

// link puts the installed wine binaries on PATH so later steps can run
// plain `wine`.
func (i *Installer) link(ctx context.Context) error {
	i.message("Linking wine onto PATH")

	for _, name := range []string{"wine", "wine64", "wineboot", "winecfg"} {
		cmd := fmt.Sprintf("ln -sf %s %s",
			security.ShellEscape(i.installPrefix()+"/bin/"+name),
			security.ShellEscape(constants.TermuxUsr+"/bin/"+name))
		result, err := i.exec.Execute(ctx, cmd)
		if err != nil {
			return fmt.Errorf("failed to link %s: %w", name, err)
		}
		if !result.Success() {
			return fmt.Errorf("failed to link %s: %s", name, strings.TrimSpace(result.Stderr))
		}
	}
	return nil
}

// InstallWinetricks downloads winetricks and pushes it onto the device's
// PATH.
func (i *Installer) InstallWinetricks(ctx context.Context) error {
	i.message("Installing winetricks")

	data, err := i.Download(constants.WinetricksURL)
	if err != nil {
		return fmt.Errorf("failed to download winetricks: %w", err)
	}

	dest := constants.TermuxUsr + "/bin/winetricks"
	if err := i.exec.PushContent(data, dest, ""); err != nil {
		return fmt.Errorf("failed to push winetricks: %w", err)
	}
	return i.exec.MakeExecutable(dest)
}
