package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/tcodebridge/internal/app"
)

func newInstallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Download tcode-player into the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := app.Setup(flags.configPath, flags.envFile, flags.debug, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer env.Close()

			v, path, err := app.Install(cmd.Context(), env)
			if err != nil {
				return err
			}
			if v.IsDev() {
				fmt.Fprintln(cmd.OutOrStdout(), "using dev build, nothing to install")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tcode-player %s at %s\n", v.Tag, path)
			return nil
		},
	}
}
