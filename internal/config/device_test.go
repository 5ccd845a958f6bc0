package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termux-user.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDevice(t *testing.T) {
	path := writeConfig(t, "host=192.168.1.5\nport=8022\nuser=termux\n")

	cfg, err := LoadDevice(path)
	if err != nil {
		t.Fatalf("LoadDevice failed: %v", err)
	}
	if cfg.Host != "192.168.1.5" {
		t.Errorf("expected host 192.168.1.5, got %q", cfg.Host)
	}
	if cfg.Port != 8022 {
		t.Errorf("expected port 8022, got %d", cfg.Port)
	}
	if cfg.User != "termux" {
		t.Errorf("expected user termux, got %q", cfg.User)
	}
	if cfg.Addr() != "192.168.1.5:8022" {
		t.Errorf("expected addr 192.168.1.5:8022, got %q", cfg.Addr())
	}
}

func TestLoadDevice_QuotesAndWhitespace(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"double quotes", `host="10.0.0.2"`, "10.0.0.2"},
		{"single quotes", `host='10.0.0.2'`, "10.0.0.2"},
		{"surrounding spaces", "host =  10.0.0.2  ", "10.0.0.2"},
		{"value with equals", "host=10.0.0.2=x", "10.0.0.2=x"},
		{"mismatched quotes kept", `host="10.0.0.2'`, `"10.0.0.2'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.line+"\nport=8022\nuser=termux\n")
			cfg, err := LoadDevice(path)
			if err != nil {
				t.Fatalf("LoadDevice failed: %v", err)
			}
			if cfg.Host != tt.want {
				t.Errorf("expected host %q, got %q", tt.want, cfg.Host)
			}
		})
	}
}

func TestLoadDevice_DuplicateKeyLastWins(t *testing.T) {
	path := writeConfig(t, "host=first\nhost=second\nport=8022\nuser=termux\n")

	cfg, err := LoadDevice(path)
	if err != nil {
		t.Fatalf("LoadDevice failed: %v", err)
	}
	if cfg.Host != "second" {
		t.Errorf("expected last duplicate to win, got %q", cfg.Host)
	}
}

func TestLoadDevice_MissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing []string
	}{
		{"only host", "host=1.2.3.4\n", []string{"port", "user"}},
		{"only user", "user=termux\n", []string{"host", "port"}},
		{"comments and blanks only", "# comment\n\n   \n# another\n", []string{"host", "port", "user"}},
		{"empty value counts as missing", "host=\nport=8022\nuser=termux\n", []string{"host"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := LoadDevice(path)

			var missingErr *MissingKeysError
			if !errors.As(err, &missingErr) {
				t.Fatalf("expected MissingKeysError, got %v", err)
			}
			if len(missingErr.Keys) != len(tt.missing) {
				t.Fatalf("expected missing keys %v, got %v", tt.missing, missingErr.Keys)
			}
			for i, key := range tt.missing {
				if missingErr.Keys[i] != key {
					t.Errorf("expected missing key %q at %d, got %q", key, i, missingErr.Keys[i])
				}
			}
		})
	}
}

func TestLoadDevice_InvalidPort(t *testing.T) {
	for _, port := range []string{"abc", "-1", "0", "80 22"} {
		t.Run(port, func(t *testing.T) {
			path := writeConfig(t, "host=1.2.3.4\nport="+port+"\nuser=termux\n")
			_, err := LoadDevice(path)

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if parseErr.Key != "port" {
				t.Errorf("expected failing key port, got %q", parseErr.Key)
			}
		})
	}
}

func TestLoadDevice_MissingFile(t *testing.T) {
	_, err := LoadDevice(filepath.Join(t.TempDir(), "nope.txt"))

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestLoadDevice_OptionalKeyPath(t *testing.T) {
	path := writeConfig(t, "host=1.2.3.4\nport=8022\nuser=termux\nkey=~/.ssh/termux_ed25519\n")

	cfg, err := LoadDevice(path)
	if err != nil {
		t.Fatalf("LoadDevice failed: %v", err)
	}
	if cfg.KeyPath != "~/.ssh/termux_ed25519" {
		t.Errorf("expected key path to be loaded, got %q", cfg.KeyPath)
	}
}
