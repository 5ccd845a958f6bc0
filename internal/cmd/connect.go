package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/randomgraphics/wine-droid/internal/config"
	"github.com/randomgraphics/wine-droid/internal/constants"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

// ConnectToDevice loads the device connection file and builds an SSH client
// for it. No connection is opened here; each client operation dials on its
// own and closes before returning.
func ConnectToDevice(opts ...ssh.ClientOption) (*ssh.Client, error) {
	cfg, err := LoadDeviceConfig()
	if err != nil {
		return nil, err
	}

	PrintVerbose("Device: %s@%s", cfg.User, cfg.Addr())
	return ssh.NewClient(cfg, opts...), nil
}

// LoadDeviceConfig loads the device connection file named by --config and
// turns loader errors into operator-facing messages.
func LoadDeviceConfig() (*config.DeviceConfig, error) {
	cfg, err := config.LoadDevice(GetDeviceFile())
	if err != nil {
		var notFound *config.NotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w\nCreate it with host=, port= and user= lines (port %d for Termux sshd)", err, constants.DefaultSSHPort)
		}
		return nil, err
	}
	return cfg, nil
}

// commandTimeoutOpts converts a --timeout value in seconds into client
// options. Zero means keep the default.
func commandTimeoutOpts(seconds int) []ssh.ClientOption {
	if seconds <= 0 {
		return nil
	}
	return []ssh.ClientOption{ssh.WithCommandTimeout(time.Duration(seconds) * time.Second)}
}
