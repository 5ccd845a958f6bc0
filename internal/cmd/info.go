package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randomgraphics/wine-droid/internal/ssh"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the device connection settings",
	Long: `Prints the device connection settings from the connection file,
along with the equivalent plain ssh command line.

Example:
  winedroid info
  winedroid info --check`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

var infoCheck bool

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVar(&infoCheck, "check", false, "Also test the SSH connection")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := LoadDeviceConfig()
	if err != nil {
		return err
	}

	fmt.Printf("Host:  %s\n", cfg.Host)
	fmt.Printf("Port:  %d\n", cfg.Port)
	fmt.Printf("User:  %s\n", cfg.User)
	if cfg.KeyPath != "" {
		fmt.Printf("Key:   %s\n", cfg.KeyPath)
	}
	fmt.Printf("\nSSH:   %s\n", sshCommandLine(cfg.Host, cfg.Port, cfg.User, cfg.KeyPath))

	if !infoCheck {
		return nil
	}

	client := ssh.NewClient(cfg)
	result, err := client.Execute(context.Background(), "uname -a")
	if err != nil {
		return fmt.Errorf("connection check failed: %w", err)
	}
	PrintSuccess("Connected: %s", strings.TrimSpace(result.Stdout))
	return nil
}

// sshCommandLine renders the plain ssh invocation for the device, for
// operators who want to connect without this tool.
func sshCommandLine(host string, port int, user, keyPath string) string {
	parts := []string{"ssh", "-p", fmt.Sprint(port)}
	if keyPath != "" {
		parts = append(parts, "-i", keyPath)
	}
	parts = append(parts, fmt.Sprintf("%s@%s", user, host))
	return strings.Join(parts, " ")
}
