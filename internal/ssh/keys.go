package ssh

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	sshconfig "github.com/kevinburke/ssh_config"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// authMethods assembles the authentication methods for a connection: a
// private key when one can be found, plus the local ssh-agent when its
// socket is available.
func (c *Client) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	signer, err := c.loadSigner()
	if err == nil {
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, dialErr := net.Dial("unix", sock); dialErr == nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if len(methods) == 0 {
		if err == nil {
			err = fmt.Errorf("no SSH key found and no agent available")
		}
		return nil, err
	}
	return methods, nil
}

// loadSigner finds and parses a private key, trying in order: the
// WINEDROID_SSH_KEY environment variable (CI), the key= path from the device
// config, the IdentityFile for this host in ~/.ssh/config, and finally the
// conventional default key files.
func (c *Client) loadSigner() (ssh.Signer, error) {
	if envKey := os.Getenv("WINEDROID_SSH_KEY"); envKey != "" {
		signer, err := ssh.ParsePrivateKey([]byte(envKey))
		if err != nil {
			return nil, fmt.Errorf("failed to parse WINEDROID_SSH_KEY: %w", err)
		}
		return signer, nil
	}

	keyPath := c.cfg.KeyPath
	if keyPath == "" {
		keyPath = identityFileFor(c.cfg.Host)
	}
	if keyPath == "" {
		keyPath = defaultKeyPath()
	}
	if keyPath == "" {
		return nil, fmt.Errorf("no SSH key found (set key= in the device config or WINEDROID_SSH_KEY)")
	}

	data, err := os.ReadFile(expandTilde(keyPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", keyPath, err)
	}
	return signer, nil
}

// identityFileFor resolves the IdentityFile configured for the host in
// ~/.ssh/config, if any. The ssh_config default ("~/.ssh/identity") is
// ignored because almost nobody has that file.
func identityFileFor(host string) string {
	path, err := sshconfig.GetStrict(host, "IdentityFile")
	if err != nil || path == "~/.ssh/identity" {
		return ""
	}
	return path
}

// defaultKeyPath returns the first conventional key file that exists.
func defaultKeyPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"id_ed25519", "id_rsa"} {
		path := filepath.Join(homeDir, ".ssh", name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func expandTilde(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
