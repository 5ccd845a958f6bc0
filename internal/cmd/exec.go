package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <command>",
	Short: "Run a command on the device",
	Long: `Runs a command in the Termux environment on the device and prints
its output. The local exit status reflects the remote one.

Example:
  winedroid exec uname -m
  winedroid exec "ls -la ~/box64-build"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

var (
	execTimeout int
	execStream  bool
)

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().IntVarP(&execTimeout, "timeout", "t", 0, "Command timeout in seconds (0 = default)")
	execCmd.Flags().BoolVar(&execStream, "stream", false, "Stream output instead of capturing it")
}

func runExec(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	client, err := ConnectToDevice(commandTimeoutOpts(execTimeout)...)
	if err != nil {
		return err
	}

	PrintVerbose("Running: %s", command)

	if execStream {
		code, err := client.ExecuteStream(context.Background(), command, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("command exited with code %d", code)
		}
		return nil
	}

	result, err := client.Execute(context.Background(), command)
	if err != nil {
		return err
	}

	fmt.Print(result.Stdout)
	fmt.Fprint(os.Stderr, result.Stderr)

	if !result.Success() {
		return fmt.Errorf("command exited with code %d", result.ExitCode)
	}
	return nil
}
