package main

import (
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=...".
var version = "dev"

type globalFlags struct {
	configPath string
	envFile    string
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "tcodebridge",
		Short: "Sync a T-code device with a media player",
		Long: `tcodebridge keeps a tcode-player process in step with a media player.

It installs and launches tcode-player, then follows the player: loading a
local file loads its scripts, play, pause and seeks are mirrored, and device
preferences are pushed every two seconds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/tcodebridge/config.toml)")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "dotenv file with TCODEBRIDGE_* overrides (default ./.env)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "log at debug level")

	runCmd := newRunCmd(flags)
	root.AddCommand(
		runCmd,
		newInstallCmd(flags),
		newSendCmd(flags),
		newLogsCmd(flags),
		newVersionCmd(),
	)

	// Bare invocation behaves like "run".
	root.Flags().AddFlagSet(runCmd.Flags())
	root.Args = runCmd.Args
	root.RunE = runCmd.RunE
	return root
}
