// Package security validates operator-supplied values before they are spliced
// into shell command lines, and escapes the ones that pass.
package security

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// packageNameRegex validates Termux package names.
	// Allows: lowercase letters, numbers, dots, plus, hyphens.
	packageNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.+-]{0,127}$`)

	// refRegex validates git refs (branches, tags, short hashes).
	refRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._/-]{0,126}[a-zA-Z0-9])?$`)

	// repoURLRegex validates https git clone URLs.
	repoURLRegex = regexp.MustCompile(`^https://[a-zA-Z0-9._-]+(/[a-zA-Z0-9._-]+)+(\.git)?$`)
)

// ShellEscape wraps a value in single quotes for safe use in a shell command
// line, using the POSIX end-quote/escaped-quote/start-quote sequence for any
// embedded single quotes.
func ShellEscape(s string) string {
	escaped := strings.ReplaceAll(s, "'", "'\\''")
	return "'" + escaped + "'"
}

// ValidateRemotePath validates a path destined for the device shell.
// Absolute and home-relative paths are accepted; parent traversal and shell
// metacharacters are not.
func ValidateRemotePath(path string) error {
	if path == "" {
		return fmt.Errorf("remote path cannot be empty")
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("remote path must not contain parent traversal")
	}
	if strings.ContainsAny(path, "`$|;&<>\n") {
		return fmt.Errorf("remote path must not contain shell metacharacters")
	}
	return nil
}

// ValidatePackageName validates a Termux package name for pkg install.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if !packageNameRegex.MatchString(name) {
		return fmt.Errorf("package name %q must contain only lowercase letters, numbers, dots, plus, and hyphens", name)
	}
	return nil
}

// ValidateGitRef validates a branch, tag, or commit reference.
func ValidateGitRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("git ref cannot be empty")
	}
	if !refRegex.MatchString(ref) {
		return fmt.Errorf("git ref %q contains unsupported characters", ref)
	}
	return nil
}

// ValidateRepoURL validates an https git repository URL.
func ValidateRepoURL(url string) error {
	if url == "" {
		return fmt.Errorf("repository URL cannot be empty")
	}
	if !repoURLRegex.MatchString(url) {
		return fmt.Errorf("repository URL %q must be a plain https clone URL", url)
	}
	return nil
}
