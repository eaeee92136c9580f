package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/tcodebridge/internal/app"
	"github.com/five82/tcodebridge/internal/tcode"
)

func newSendCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "send <method> [param...]",
		Short: "Make one RPC call to tcode-player",
		Example: `  tcodebridge send version
  tcodebridge send load filename /tmp/video.mp4
  tcodebridge send seek seek 12.5s
  tcodebridge send set min 0.2 max 0.8 offset 40ms`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.Setup(flags.configPath, flags.envFile, flags.debug, nil)
			if err != nil {
				return err
			}
			defer env.Close()

			reply, err := app.Send(cmd.Context(), env, tcode.Raw(args[0], args[1:]...))
			if err != nil {
				return err
			}
			if reply != "" {
				fmt.Fprintln(cmd.OutOrStdout(), reply)
			}
			return nil
		},
	}
}
