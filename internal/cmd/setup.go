package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randomgraphics/wine-droid/internal/adb"
	"github.com/randomgraphics/wine-droid/internal/config"
	"github.com/randomgraphics/wine-droid/internal/setup"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Bootstrap the Termux build environment",
	Long: `Checks the ADB bridge, side-loads Termux over adb when it is
missing, then installs the build packages inside Termux over SSH.
Package installs are best-effort: a package that fails to install
is reported as a warning and the rest still install.

If sshd is not reachable yet, the bridge checks still run and the
SSH enablement steps are printed.

Example:
  winedroid setup
  winedroid setup --skip-bridge`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

var (
	setupProfile    string
	setupSkipBridge bool
	setupTermuxAPK  string
)

func init() {
	rootCmd.AddCommand(setupCmd)
	setupCmd.Flags().StringVar(&setupProfile, "profile", config.DefaultProfileFile, "Build profile file")
	setupCmd.Flags().BoolVar(&setupSkipBridge, "skip-bridge", false, "Skip the ADB bridge checks")
	setupCmd.Flags().StringVar(&setupTermuxAPK, "termux-apk", "", "Local Termux APK to side-load (default: download from F-Droid)")
}

func runSetup(cmd *cobra.Command, args []string) error {
	profile, err := config.LoadProfile(setupProfile)
	if err != nil {
		return err
	}

	if !setupSkipBridge {
		o := setup.NewOrchestrator(adb.NewBridge(), nil)
		o.OnMessage(func(msg string) { PrintInfo("%s", msg) })

		if err := o.CheckBridge(); err != nil {
			return err
		}
		if err := o.EnsureTermux(setupTermuxAPK); err != nil {
			return err
		}
	}

	client, err := ConnectToDevice()
	if err != nil {
		PrintWarning("Device connection not configured: %v", err)
		fmt.Println(setup.SSHInstructions)
		return nil
	}

	ctx := context.Background()
	if _, err := client.Execute(ctx, "true"); err != nil {
		PrintWarning("Cannot reach sshd on the device: %v", err)
		fmt.Println(setup.SSHInstructions)
		return nil
	}

	o := setup.NewOrchestrator(nil, client)
	o.OnMessage(func(msg string) { PrintInfo("%s", msg) })

	if err := o.InstallPackages(ctx, profile.Packages); err != nil {
		return err
	}
	o.VerifyTools(ctx, []string{"git", "cmake", "make", "clang"})

	for _, w := range o.Warnings() {
		PrintWarning("%s", w)
	}

	PrintSuccess("Termux environment ready")
	return nil
}
