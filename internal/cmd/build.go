package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/randomgraphics/wine-droid/internal/build"
	"github.com/randomgraphics/wine-droid/internal/config"
	"github.com/randomgraphics/wine-droid/internal/ssh"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile box64 on the device (or cross-compile locally)",
	Long: `Compiles box64 in the Termux environment on the device: clones the
source, configures cmake for the detected SoC, compiles and installs
it. Build output streams to the terminal.

With --cross the build runs on the local machine against the Android
NDK instead; the resulting binary can be pushed with --deploy.

Example:
  winedroid build
  winedroid build --cross --abi arm64-v8a --deploy`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var (
	buildProfile string
	buildCross   bool
	buildABI     string
	buildSDK     string
	buildDeploy  bool
	buildTimeout int
)

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVar(&buildProfile, "profile", config.DefaultProfileFile, "Build profile file")
	buildCmd.Flags().BoolVar(&buildCross, "cross", false, "Cross-compile locally with the Android NDK")
	buildCmd.Flags().StringVar(&buildABI, "abi", "arm64-v8a", "Android ABI for --cross")
	buildCmd.Flags().StringVar(&buildSDK, "sdk", "", "Android SDK root for --cross (default: auto-detect)")
	buildCmd.Flags().BoolVar(&buildDeploy, "deploy", false, "Push the cross-compiled binary to the device")
	buildCmd.Flags().IntVarP(&buildTimeout, "timeout", "t", 0, "Per-step timeout in seconds (0 = unlimited)")
}

// buildClientOpts lifts the default per-command cap for build steps: an
// on-device compile takes the better part of an hour and must not be cut
// off at the client's default timeout.
func buildClientOpts() []ssh.ClientOption {
	return []ssh.ClientOption{ssh.WithCommandTimeout(time.Duration(buildTimeout) * time.Second)}
}

func runBuild(cmd *cobra.Command, args []string) error {
	profile, err := config.LoadProfile(buildProfile)
	if err != nil {
		return err
	}

	if buildCross {
		return runCrossBuild(profile)
	}
	return runDeviceBuild(profile)
}

func runDeviceBuild(profile *config.Profile) error {
	client, err := ConnectToDevice(buildClientOpts()...)
	if err != nil {
		return err
	}

	builder, err := build.NewOnDeviceBuilder(client, &profile.Box64)
	if err != nil {
		return err
	}
	builder.OnMessage(func(msg string) { PrintInfo("%s", msg) })

	if err := builder.Build(context.Background()); err != nil {
		return err
	}

	// Drop a launch script next to the install so box64 can be started
	// without remembering the prefix paths.
	script := build.LaunchScript(profile.Box64.Prefix)
	if err := client.PushContent([]byte(script), "run-box64.sh", ".sh"); err != nil {
		return err
	}
	if err := client.MakeExecutable("run-box64.sh"); err != nil {
		return err
	}

	PrintSuccess("box64 installed under %s", profile.Box64.Prefix)
	return nil
}

func runCrossBuild(profile *config.Profile) error {
	tc, err := build.DetectNDK(buildSDK)
	if err != nil {
		return err
	}
	PrintInfo("Using NDK %s at %s", tc.Version, tc.NDKRoot)

	builder, err := build.NewCrossBuilder(tc, buildABI, profile.Box64.Repo,
		profile.Box64.SourceDir, profile.Box64.BuildDir+"-"+buildABI, profile.Box64.Jobs)
	if err != nil {
		return err
	}
	builder.OnMessage(func(msg string) { PrintInfo("%s", msg) })

	binary, err := builder.Build()
	if err != nil {
		return err
	}
	PrintSuccess("Built %s", binary)

	if !buildDeploy {
		return nil
	}

	client, err := ConnectToDevice()
	if err != nil {
		return err
	}

	remote := "bin/box64"
	PrintInfo("Pushing %s to %s", binary, remote)
	if err := client.MakeDirectory("bin"); err != nil {
		return err
	}
	if err := client.PushFile(binary, remote); err != nil {
		return err
	}
	if err := client.MakeExecutable(remote); err != nil {
		return err
	}

	PrintSuccess("Deployed to %s", remote)
	return nil
}
