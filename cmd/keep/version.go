package main

import (
	"fmt"

	"github.com/aretw0/keep"
	"github.com/spf13/cobra"
)

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of keep",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keep version %s\n", keep.Version)
		},
	}
}
