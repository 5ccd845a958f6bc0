package security

import "testing"

func TestShellEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "file.txt", "'file.txt'"},
		{"spaces", "my file.txt", "'my file.txt'"},
		{"single quote", "it's", `'it'\''s'`},
		{"dollar", "$HOME", "'$HOME'"},
		{"backticks", "`id`", "'`id`'"},
		{"empty", "", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShellEscape(tt.input); got != tt.want {
				t.Errorf("ShellEscape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateRemotePath(t *testing.T) {
	valid := []string{
		"/data/data/com.termux/files/home",
		"box64-source",
		"~/box64-build/box64",
		"/sdcard/Download/app.exe",
	}
	for _, path := range valid {
		if err := ValidateRemotePath(path); err != nil {
			t.Errorf("expected %q to be valid: %v", path, err)
		}
	}

	invalid := []string{
		"",
		"../../etc/passwd",
		"/tmp/$(id)",
		"/tmp/a;rm -rf /",
		"/tmp/a|b",
	}
	for _, path := range invalid {
		if err := ValidateRemotePath(path); err == nil {
			t.Errorf("expected %q to be rejected", path)
		}
	}
}

func TestValidatePackageName(t *testing.T) {
	for _, name := range []string{"git", "build-essential", "libstdc++", "python-pip", "zlib"} {
		if err := ValidatePackageName(name); err != nil {
			t.Errorf("expected %q to be valid: %v", name, err)
		}
	}
	for _, name := range []string{"", "Git", "pkg name", "pkg;rm", "$(id)"} {
		if err := ValidatePackageName(name); err == nil {
			t.Errorf("expected %q to be rejected", name)
		}
	}
}

func TestValidateGitRef(t *testing.T) {
	for _, ref := range []string{"main", "v0.3.2", "feature/wow64", "a1b2c3d"} {
		if err := ValidateGitRef(ref); err != nil {
			t.Errorf("expected %q to be valid: %v", ref, err)
		}
	}
	for _, ref := range []string{"", "-rf", "ref with space", "ref;cmd"} {
		if err := ValidateGitRef(ref); err == nil {
			t.Errorf("expected %q to be rejected", ref)
		}
	}
}

func TestValidateRepoURL(t *testing.T) {
	if err := ValidateRepoURL("https://github.com/ptitSeb/box64.git"); err != nil {
		t.Errorf("expected upstream URL to be valid: %v", err)
	}
	for _, url := range []string{"", "git@github.com:x/y.git", "https://host/a;b", "http://insecure/x"} {
		if err := ValidateRepoURL(url); err == nil {
			t.Errorf("expected %q to be rejected", url)
		}
	}
}
