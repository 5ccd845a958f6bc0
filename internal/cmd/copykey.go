package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randomgraphics/wine-droid/internal/runner"
	"github.com/randomgraphics/wine-droid/internal/security"
)

var copyKeyCmd = &cobra.Command{
	Use:   "copy-key",
	Short: "Install the local SSH public key on the device",
	Long: `Runs ssh-copy-id against the device so later connections use key
authentication. The device prompts once for the Termux password set
with passwd.

Example:
  winedroid copy-key
  winedroid copy-key --identity ~/.ssh/id_ed25519`,
	Args: cobra.NoArgs,
	RunE: runCopyKey,
}

var copyKeyIdentity string

func init() {
	rootCmd.AddCommand(copyKeyCmd)
	copyKeyCmd.Flags().StringVarP(&copyKeyIdentity, "identity", "i", "", "Identity file to install (default: ssh-copy-id's choice)")
}

func runCopyKey(cmd *cobra.Command, args []string) error {
	cfg, err := LoadDeviceConfig()
	if err != nil {
		return err
	}

	if !runner.LookPath("ssh-copy-id") {
		return fmt.Errorf("ssh-copy-id is not installed (it ships with openssh-client)")
	}

	command := fmt.Sprintf("ssh-copy-id -p %d", cfg.Port)
	if copyKeyIdentity != "" {
		command += " -i " + security.ShellEscape(copyKeyIdentity)
	}
	command += " " + security.ShellEscape(fmt.Sprintf("%s@%s", cfg.User, cfg.Host))

	PrintInfo("Installing key on %s", cfg.Addr())
	PrintVerbose("Running: %s", command)

	code, err := runner.Stream(command, nil, os.Stdout, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to run ssh-copy-id: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("ssh-copy-id exited with code %d", code)
	}

	PrintSuccess("Key installed; try: winedroid info --check")
	return nil
}
