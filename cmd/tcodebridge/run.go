package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/five82/tcodebridge/internal/app"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var (
		hostName  string
		prefsPath string
		noLaunch  bool
	)

	cmd := &cobra.Command{
		Use:   "run [file...]",
		Short: "Launch tcode-player and follow the host player",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: flags.configPath,
				EnvFile:    flags.envFile,
				PrefsPath:  prefsPath,
				Host:       hostName,
				Files:      args,
				Debug:      flags.debug,
				NoLaunch:   noLaunch,
				Console:    os.Stderr,
			})
		},
	}

	cmd.Flags().StringVar(&hostName, "host", app.HostTerm, "player host: term or mpv (mpv needs a libmpv build)")
	cmd.Flags().StringVar(&prefsPath, "prefs", "", "device preferences file (default from config)")
	cmd.Flags().BoolVar(&noLaunch, "no-launch", false, "connect to an already running tcode-player")
	return cmd
}
