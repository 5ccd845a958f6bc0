package build

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Toolchain is a validated Android NDK installation.
type Toolchain struct {
	NDKRoot string
	Version string
}

// AndroidABI describes one cross-compilation target.
type AndroidABI struct {
	ABI         string
	Description string
	CMakeArgs   []string
}

var androidABIs = map[string]AndroidABI{
	"arm64-v8a": {
		ABI:         "arm64-v8a",
		Description: "ARM64 (64-bit)",
		CMakeArgs:   []string{"-DANDROID=ON", "-DARM64=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"armeabi-v7a": {
		ABI:         "armeabi-v7a",
		Description: "ARM (32-bit)",
		CMakeArgs:   []string{"-DANDROID=ON", "-DARM64=OFF", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"x86_64": {
		ABI:         "x86_64",
		Description: "x86_64 (64-bit)",
		CMakeArgs:   []string{"-DANDROID=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
	"x86": {
		ABI:         "x86",
		Description: "x86 (32-bit)",
		CMakeArgs:   []string{"-DANDROID=ON", "-DCMAKE_BUILD_TYPE=RelWithDebInfo"},
	},
}

// hostTag is the NDK prebuilt directory name for the local machine.
func hostTag() string {
	switch runtime.GOOS {
	case "darwin":
		return "darwin-x86_64"
	default:
		return "linux-x86_64"
	}
}

// validNDK checks for the files every usable NDK layout carries.
func validNDK(root string) bool {
	required := []string{
		filepath.Join("build", "cmake", "android.toolchain.cmake"),
		filepath.Join("toolchains", "llvm", "prebuilt", hostTag(), "bin", "clang"),
	}
	for _, rel := range required {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			return false
		}
	}
	return true
}

// ndkVersion reads Pkg.Revision from the NDK's source.properties.
func ndkVersion(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "source.properties"))
	if err != nil {
		return "unknown"
	}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, found := strings.Cut(line, "=")
		if found && strings.TrimSpace(key) == "Pkg.Revision" {
			return strings.TrimSpace(value)
		}
	}
	return "unknown"
}

// DetectNDK locates an Android NDK. The SDK's versioned ndk/ directory is
// preferred (highest version wins), then the deprecated ndk-bundle, then the
// conventional standalone install locations.
func DetectNDK(sdkRoot string) (*Toolchain, error) {
	var candidates []string

	if sdkRoot != "" {
		ndkDir := filepath.Join(sdkRoot, "ndk")
		if entries, err := os.ReadDir(ndkDir); err == nil {
			var versions []string
			for _, entry := range entries {
				if entry.IsDir() {
					versions = append(versions, entry.Name())
				}
			}
			// lexically highest last; NDK versions sort acceptably this way
			sort.Strings(versions)
			for i := len(versions) - 1; i >= 0; i-- {
				candidates = append(candidates, filepath.Join(ndkDir, versions[i]))
			}
		}
		candidates = append(candidates, filepath.Join(sdkRoot, "ndk-bundle"))
	}

	if env := os.Getenv("ANDROID_NDK_ROOT"); env != "" {
		candidates = append(candidates, env)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, "Android", "Sdk", "ndk-bundle"))
		candidates = append(candidates, filepath.Join(homeDir, "android-ndk"))
	}
	candidates = append(candidates, "/opt/android-ndk", "/usr/local/android-ndk")

	for _, candidate := range candidates {
		if validNDK(candidate) {
			return &Toolchain{NDKRoot: candidate, Version: ndkVersion(candidate)}, nil
		}
	}

	return nil, fmt.Errorf("no Android NDK found (install one via sdkmanager or set ANDROID_NDK_ROOT)")
}

// CrossArgs assembles the cmake arguments for cross-compiling box64 against
// the NDK for the given ABI.
func CrossArgs(tc *Toolchain, abi string) ([]string, error) {
	target, ok := androidABIs[abi]
	if !ok {
		abis := make([]string, 0, len(androidABIs))
		for name := range androidABIs {
			abis = append(abis, name)
		}
		sort.Strings(abis)
		return nil, fmt.Errorf("unsupported Android ABI %q (available: %s)", abi, strings.Join(abis, ", "))
	}

	args := []string{
		"-DCMAKE_TOOLCHAIN_FILE=" + filepath.Join(tc.NDKRoot, "build", "cmake", "android.toolchain.cmake"),
		"-DANDROID_ABI=" + target.ABI,
		"-DANDROID_PLATFORM=android-24",
		"-DANDROID_STL=c++_shared",
		"-DANDROID_TOOLCHAIN=clang",
		"-DCMAKE_ANDROID_ARCH_ABI=" + target.ABI,
		"-DCMAKE_ANDROID_NDK=" + tc.NDKRoot,
		"-DCMAKE_SYSTEM_NAME=Android",
		"-DCMAKE_SYSTEM_VERSION=24",
	}
	if strings.HasPrefix(abi, "arm") {
		args = append(args, "-DANDROID_ARM_NEON=ON")
	}
	args = append(args, target.CMakeArgs...)
	// BAD_SIGNAL works around Android signal handling; NOALIGN trades speed
	// for compatibility on unaligned accesses.
	args = append(args, "-DBAD_SIGNAL=ON", "-DNOALIGN=ON", "-DUSE_CCACHE=OFF")

	return args, nil
}
