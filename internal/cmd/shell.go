package cmd

import (
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open an interactive shell on the device",
	Long: `Opens an interactive login shell in the Termux environment on the
device, with a PTY sized to the local terminal.

Example:
  winedroid shell`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	client, err := ConnectToDevice()
	if err != nil {
		return err
	}

	PrintInfo("Connecting to %s...", client.Config().Addr())
	return client.InteractiveShell()
}
