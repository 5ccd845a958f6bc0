package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/randomgraphics/wine-droid/internal/config"
	"github.com/randomgraphics/wine-droid/internal/ssh"
	"github.com/randomgraphics/wine-droid/internal/wine"
)

var wineCmd = &cobra.Command{
	Use:   "wine",
	Short: "Manage Wine on the device",
	Long: `Manages the Wine installation and its prefix ("container") in the
Termux environment.

Example:
  winedroid wine install
  winedroid wine init
  winedroid wine init --dxvk ./dxvk-2.3`,
}

var wineInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Build and install Wine on the device",
	Long: `Builds Wine from source inside Termux, links the binaries onto
PATH and installs winetricks. Termux's package repo does not carry
wine, so this compiles it on the device; expect it to run for
hours.`,
	Args: cobra.NoArgs,
	RunE: runWineInstall,
}

var wineInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create and boot the Wine prefix",
	Long: `Creates the Wine prefix on the device and runs wineboot to populate
it. With --dxvk, the DXVK DLLs from a local distribution directory
are installed into the prefix afterwards.`,
	Args: cobra.NoArgs,
	RunE: runWineInit,
}

var (
	wineProfile        string
	winePrefix         string
	wineDXVK           string
	wineInstallProfile string
	wineInstallTimeout int
	wineSkipWinetricks bool
)

func init() {
	rootCmd.AddCommand(wineCmd)
	wineCmd.AddCommand(wineInstallCmd)
	wineCmd.AddCommand(wineInitCmd)
	wineInitCmd.Flags().StringVar(&wineProfile, "profile", config.DefaultProfileFile, "Build profile file")
	wineInitCmd.Flags().StringVar(&winePrefix, "prefix", "", "Prefix directory on the device (default: from profile)")
	wineInitCmd.Flags().StringVar(&wineDXVK, "dxvk", "", "Local DXVK distribution directory to install (default: from profile)")
	wineInstallCmd.Flags().StringVar(&wineInstallProfile, "profile", config.DefaultProfileFile, "Build profile file")
	wineInstallCmd.Flags().IntVarP(&wineInstallTimeout, "timeout", "t", 0, "Per-step timeout in seconds (0 = unlimited)")
	wineInstallCmd.Flags().BoolVar(&wineSkipWinetricks, "skip-winetricks", false, "Skip the winetricks installation")
}

func runWineInstall(cmd *cobra.Command, args []string) error {
	profile, err := config.LoadProfile(wineInstallProfile)
	if err != nil {
		return err
	}

	// A wine compile runs for hours; never cap it at the default timeout.
	client, err := ConnectToDevice(ssh.WithCommandTimeout(time.Duration(wineInstallTimeout) * time.Second))
	if err != nil {
		return err
	}

	installer, err := wine.NewInstaller(client, &profile.Wine)
	if err != nil {
		return err
	}
	installer.OnMessage(func(msg string) { PrintInfo("%s", msg) })

	ctx := context.Background()
	if err := installer.Install(ctx); err != nil {
		return err
	}

	if !wineSkipWinetricks {
		if err := installer.InstallWinetricks(ctx); err != nil {
			PrintWarning("winetricks not installed: %v", err)
		}
	}

	PrintSuccess("Wine ready; next: winedroid wine init")
	return nil
}

func runWineInit(cmd *cobra.Command, args []string) error {
	profile, err := config.LoadProfile(wineProfile)
	if err != nil {
		return err
	}

	prefixDir := profile.Wine.PrefixDir
	if winePrefix != "" {
		prefixDir = winePrefix
	}
	dxvkDir := profile.Wine.DXVKDir
	if wineDXVK != "" {
		dxvkDir = wineDXVK
	}

	client, err := ConnectToDevice()
	if err != nil {
		return err
	}

	init, err := wine.NewInitializer(client, prefixDir)
	if err != nil {
		return err
	}
	init.OnMessage(func(msg string) { PrintInfo("%s", msg) })

	ctx := context.Background()
	if err := init.Init(ctx); err != nil {
		return err
	}

	if dxvkDir != "" {
		if err := init.InstallDXVK(ctx, dxvkDir); err != nil {
			return err
		}
	}

	for _, w := range init.Warnings() {
		PrintWarning("%s", w)
	}

	PrintSuccess("Wine prefix ready at %s", prefixDir)
	return nil
}
