package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/randomgraphics/wine-droid/internal/constants"
)

// DefaultProfileFile is the build profile looked up in the working directory.
const DefaultProfileFile = "winedroid.yaml"

// Profile is the optional winedroid.yaml build profile. Every field has a
// working default so a missing file means "build upstream box64 with
// auto-detected settings".
type Profile struct {
	Box64    Box64Profile `yaml:"box64,omitempty"`
	Wine     WineProfile  `yaml:"wine,omitempty"`
	Packages []string     `yaml:"packages,omitempty"`
}

// Box64Profile configures the on-device box64 build.
type Box64Profile struct {
	Repo      string   `yaml:"repo,omitempty"`
	Ref       string   `yaml:"ref,omitempty"`
	SourceDir string   `yaml:"source_dir,omitempty"`
	BuildDir  string   `yaml:"build_dir,omitempty"`
	// Platform overrides SoC auto-detection (e.g. "snapdragon-8gen2").
	Platform  string   `yaml:"platform,omitempty"`
	Prefix    string   `yaml:"install_prefix,omitempty"`
	Jobs      int      `yaml:"jobs,omitempty"`
	CMakeArgs []string `yaml:"cmake_args,omitempty"`
}

// WineProfile configures the Wine source build and prefix initialization.
type WineProfile struct {
	Repo      string `yaml:"repo,omitempty"`
	SourceDir string `yaml:"source_dir,omitempty"`
	Jobs      int    `yaml:"jobs,omitempty"`
	PrefixDir string `yaml:"prefix_dir,omitempty"`
	DXVKDir   string `yaml:"dxvk_dir,omitempty"`
}

// DefaultProfile returns the profile used when no winedroid.yaml exists.
func DefaultProfile() *Profile {
	return &Profile{
		Box64: Box64Profile{
			Repo:      "https://github.com/ptitSeb/box64.git",
			SourceDir: "box64-source",
			BuildDir:  "box64-build",
			Prefix:    constants.DefaultInstallPrefix,
			// Two jobs by default: phones throttle hard under full load.
			Jobs: 2,
		},
		Wine: WineProfile{
			Repo:      "https://github.com/wine-mirror/wine.git",
			SourceDir: "wine",
			Jobs:      4,
			PrefixDir: "wine-container",
		},
		Packages: []string{
			"git", "wget", "curl", "unzip", "tar",
			"build-essential", "cmake", "pkg-config", "clang", "make",
			"zlib", "libffi", "openssl",
		},
	}
}

// LoadProfile reads a winedroid.yaml build profile. A missing file yields the
// defaults; a present but malformed file is an error. Fields left empty in
// the file keep their default values.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return profile, nil
		}
		return nil, fmt.Errorf("failed to read build profile: %w", err)
	}

	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("failed to parse build profile: %w", err)
	}

	fillProfileDefaults(profile)
	return profile, nil
}

func fillProfileDefaults(p *Profile) {
	defaults := DefaultProfile()
	if p.Box64.Repo == "" {
		p.Box64.Repo = defaults.Box64.Repo
	}
	if p.Box64.SourceDir == "" {
		p.Box64.SourceDir = defaults.Box64.SourceDir
	}
	if p.Box64.BuildDir == "" {
		p.Box64.BuildDir = defaults.Box64.BuildDir
	}
	if p.Box64.Prefix == "" {
		p.Box64.Prefix = defaults.Box64.Prefix
	}
	if p.Box64.Jobs <= 0 {
		p.Box64.Jobs = defaults.Box64.Jobs
	}
	if p.Wine.Repo == "" {
		p.Wine.Repo = defaults.Wine.Repo
	}
	if p.Wine.SourceDir == "" {
		p.Wine.SourceDir = defaults.Wine.SourceDir
	}
	if p.Wine.Jobs <= 0 {
		p.Wine.Jobs = defaults.Wine.Jobs
	}
	if p.Wine.PrefixDir == "" {
		p.Wine.PrefixDir = defaults.Wine.PrefixDir
	}
	if len(p.Packages) == 0 {
		p.Packages = defaults.Packages
	}
}
