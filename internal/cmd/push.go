package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/randomgraphics/wine-droid/internal/security"
)

var pushCmd = &cobra.Command{
	Use:   "push <local> <remote>",
	Short: "Copy a file or directory to the device",
	Long: `Copies a local file or directory to the device over SSH. Directories
are copied recursively.

Example:
  winedroid push box64-build/box64 bin/box64
  winedroid push dxvk-2.3/ dxvk`,
	Args: cobra.ExactArgs(2),
	RunE: runPush,
}

var pushExecutable bool

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().BoolVarP(&pushExecutable, "executable", "x", false, "Mark the pushed file executable")
}

func runPush(cmd *cobra.Command, args []string) error {
	localPath, remotePath := args[0], args[1]

	if err := security.ValidateRemotePath(remotePath); err != nil {
		return fmt.Errorf("invalid remote path: %w", err)
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", localPath, err)
	}

	client, err := ConnectToDevice()
	if err != nil {
		return err
	}

	if info.IsDir() {
		if pushExecutable {
			return fmt.Errorf("--executable only applies to single files")
		}
		PrintInfo("Pushing directory %s to %s", localPath, remotePath)
		if err := client.PushDirectory(localPath, remotePath); err != nil {
			return err
		}
	} else {
		PrintInfo("Pushing %s to %s", localPath, remotePath)
		if err := client.PushFile(localPath, remotePath); err != nil {
			return err
		}
		if pushExecutable {
			if err := client.MakeExecutable(remotePath); err != nil {
				return err
			}
		}
	}

	if IsVerbose() {
		target := remotePath
		if !info.IsDir() {
			target = path.Dir(remotePath)
		}
		listing, err := client.Listing(target)
		if err == nil {
			PrintVerbose("Remote %s:\n%s", target, listing)
		}
	}

	PrintSuccess("Push complete")
	return nil
}
