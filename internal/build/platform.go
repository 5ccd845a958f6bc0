// Package build orchestrates box64 builds: on the device itself through the
// SSH executor, or cross-compiled locally with the Android NDK. All actual
// compilation is delegated to git, cmake and make; this package only
// assembles argument lists and sequences the invocations.
package build

import (
	"fmt"
	"sort"
	"strings"
)

// Platform is a named box64 cmake preset for a device SoC.
type Platform struct {
	Name        string
	Description string
	CMakeArgs   []string
}

// Box64 ships tuned presets per Snapdragon generation; anything else falls
// back to the generic ARM64 or Termux configuration.
var platforms = map[string]Platform{
	"snapdragon-845": {
		Name:        "snapdragon-845",
		Description: "Snapdragon 845 (Android)",
		CMakeArgs:   []string{"-DSD845=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"snapdragon-855": {
		Name:        "snapdragon-855",
		Description: "Snapdragon 855 (Android)",
		CMakeArgs:   []string{"-DSD855=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"snapdragon-865": {
		Name:        "snapdragon-865",
		Description: "Snapdragon 865 (Android)",
		CMakeArgs:   []string{"-DSD865=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"snapdragon-888": {
		Name:        "snapdragon-888",
		Description: "Snapdragon 888 (Android)",
		CMakeArgs:   []string{"-DSD888=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"snapdragon-8gen1": {
		Name:        "snapdragon-8gen1",
		Description: "Snapdragon 8 Gen 1 (Android)",
		CMakeArgs:   []string{"-DSD8G1=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"snapdragon-8gen2": {
		Name:        "snapdragon-8gen2",
		Description: "Snapdragon 8 Gen 2 (Android)",
		CMakeArgs:   []string{"-DSD8G2=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"snapdragon-8gen3": {
		Name:        "snapdragon-8gen3",
		Description: "Snapdragon 8 Gen 3 (Android)",
		CMakeArgs:   []string{"-DSD8G3=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"generic-arm64": {
		Name:        "generic-arm64",
		Description: "Generic ARM64 (Android)",
		CMakeArgs:   []string{"-DARM64=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"termux": {
		Name:        "termux",
		Description: "Termux (Android)",
		CMakeArgs:   []string{"-DTERMUX=ON", "-DCMAKE_C_COMPILER=clang", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"android": {
		Name:        "android",
		Description: "Android",
		CMakeArgs:   []string{"-DANDROID=ON", "-DBAD_SIGNAL=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
}

// Platforms returns the known preset names, sorted.
func Platforms() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlatformArgs returns the cmake arguments for a named preset.
func PlatformArgs(name string) ([]string, error) {
	p, ok := platforms[name]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q (available: %s)", name, strings.Join(Platforms(), ", "))
	}
	return p.CMakeArgs, nil
}

// snapdragonModels maps /proc/cpuinfo markers to presets, most specific
// first so "8 gen 1" is not shadowed by a bare "888" digit match.
var snapdragonModels = []struct {
	marker string
	name   string
}{
	{"8 gen 3", "snapdragon-8gen3"},
	{"8 gen 2", "snapdragon-8gen2"},
	{"8 gen 1", "snapdragon-8gen1"},
	{"888", "snapdragon-888"},
	{"865", "snapdragon-865"},
	{"855", "snapdragon-855"},
	{"845", "snapdragon-845"},
}

// DetectPlatform picks a preset from the device's /proc/cpuinfo contents and
// its `uname -m` machine string. Qualcomm parts resolve to their Snapdragon
// preset; other 64-bit ARM devices get generic-arm64; everything else gets
// the plain Termux configuration.
func DetectPlatform(cpuinfo, machine string) string {
	lower := strings.ToLower(cpuinfo)

	if strings.Contains(lower, "qualcomm") || strings.Contains(lower, "snapdragon") {
		for _, model := range snapdragonModels {
			if strings.Contains(lower, model.marker) {
				return model.name
			}
		}
	}

	switch strings.TrimSpace(machine) {
	case "aarch64", "arm64":
		return "generic-arm64"
	}
	return "termux"
}
