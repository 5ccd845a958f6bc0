package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randomgraphics/wine-droid/internal/adb"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List Android devices attached over ADB",
	Long: `Lists the Android devices visible to adb. Only devices in the
authorized "device" state are shown; a phone stuck in "unauthorized"
needs the USB debugging prompt accepted on its screen.

Example:
  winedroid devices`,
	Args: cobra.NoArgs,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	bridge := adb.NewBridge()

	if !bridge.Available() {
		return fmt.Errorf("adb is not installed or not in PATH (install android-tools)")
	}

	devices, err := bridge.Devices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		PrintWarning("No devices connected (enable USB debugging and accept the prompt on the device)")
		return nil
	}

	for _, d := range devices {
		fmt.Printf("%s\t%s\n", d.Serial, d.State)
	}
	PrintVerbose("%d device(s)", len(devices))
	return nil
}
