package main

import (
	"fmt"

	"github.com/philipparndt/gotrimesh/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gotrimesh %s\n", version.GetVersion())
			fmt.Fprintf(out, "  commit: %s\n", version.GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", version.BuildDate)
		},
	}
}
