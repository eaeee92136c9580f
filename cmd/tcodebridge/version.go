package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/five82/tcodebridge/internal/supervisor"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tcodebridge %s (%s/%s), tcode-player %s\n",
				version, runtime.GOOS, runtime.GOARCH, supervisor.DefaultVersion)
		},
	}
}
