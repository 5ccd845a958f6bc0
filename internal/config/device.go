// Package config loads the two configuration sources of wine-droid: the flat
// key=value device file (termux-user.txt format) describing how to reach the
// phone, and the optional YAML build profile describing what to build on it.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Required keys in the device config file.
var requiredKeys = []string{"host", "port", "user"}

// DeviceConfig describes the SSH endpoint of a Termux installation.
type DeviceConfig struct {
	Host string
	Port int
	User string
	// KeyPath is the optional private key ("key=" in the file). When empty,
	// the SSH client falls back to ~/.ssh/config and the default key paths.
	KeyPath string
}

// Addr returns the host:port dial address.
func (c *DeviceConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NotFoundError indicates the device config file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("device config not found at %s (expected host=, port=, user= lines)", e.Path)
}

// MissingKeysError names every required key absent from the file at once,
// so the operator can fix the file in one pass.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("device config missing required keys: %s", strings.Join(e.Keys, ", "))
}

// ParseError indicates a present key has an unusable value.
type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("device config: invalid %s value %q: %v", e.Key, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadDevice reads a device config file. Blank lines and lines starting with
// '#' are skipped; each remaining line is split on the first '='. Values may
// be wrapped in matching single or double quotes, which are stripped. When a
// key repeats, the last occurrence wins.
//
// All of host, port and user must be present or loading fails as a whole with
// a MissingKeysError; port must also parse as a positive integer. A partial
// config is never returned. The documented Termux sshd port is 8022 but the
// loader applies no default: the file must say which port to use.
func LoadDevice(path string) (*DeviceConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read device config: %w", err)
	}
	defer f.Close()

	values := make(map[string]string)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}

		values[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read device config: %w", err)
	}

	var missing []string
	for _, key := range requiredKeys {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingKeysError{Keys: missing}
	}

	port, err := strconv.Atoi(values["port"])
	if err != nil || port <= 0 {
		if err == nil {
			err = fmt.Errorf("port must be positive")
		}
		return nil, &ParseError{Key: "port", Value: values["port"], Err: err}
	}

	return &DeviceConfig{
		Host:    values["host"],
		Port:    port,
		User:    values["user"],
		KeyPath: values["key"],
	}, nil
}

// unquote strips one pair of matching surrounding quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
