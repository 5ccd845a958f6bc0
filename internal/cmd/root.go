package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"

	// Global flags
	verbose    bool
	deviceFile string
)

var rootCmd = &cobra.Command{
	Use:   "winedroid",
	Short: "Drive Termux on an Android phone over SSH and ADB",
	Long: `winedroid turns an Android phone running Termux into a remote
build target: it bootstraps the Termux environment over ADB, then
compiles box64 and initializes a Wine prefix over SSH.

Quick start:
  winedroid devices          # List phones attached over ADB
  winedroid setup            # Install build packages in Termux
  winedroid copy-key         # Install your SSH key on the device
  winedroid build            # Compile box64 on the device
  winedroid wine install     # Build Wine on the device
  winedroid wine init        # Create the Wine prefix

Commands:
  devices       List Android devices attached over ADB
  setup         Bootstrap the Termux build environment
  info          Show the device connection settings
  copy-key      Install the local SSH public key on the device
  exec          Run a command on the device
  shell         Open an interactive shell on the device
  push          Copy a file or directory to the device
  build         Compile box64 on the device (or cross-compile locally)
  wine          Manage Wine and its prefix on the device

The device connection is read from a flat key=value file (default
termux-user.txt) with host=, port= and user= entries. Port 8022 is
the usual Termux sshd port.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd exposes the root command for documentation generation
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed logs")
	rootCmd.PersistentFlags().StringVar(&deviceFile, "config", "termux-user.txt", "Device connection file")

	rootCmd.SetVersionTemplate(`winedroid {{.Version}}
`)
}

// IsVerbose returns true if verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// GetDeviceFile returns the device connection file path
func GetDeviceFile() string {
	return deviceFile
}

// PrintError prints a formatted error message
func PrintError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "❌ "+msg+"\n", args...)
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	fmt.Printf("✅ "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	fmt.Printf("ℹ️  "+msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	fmt.Printf("⚠️  "+msg+"\n", args...)
}

// PrintVerbose prints a message only in verbose mode
func PrintVerbose(msg string, args ...interface{}) {
	if verbose {
		fmt.Printf("   "+msg+"\n", args...)
	}
}
