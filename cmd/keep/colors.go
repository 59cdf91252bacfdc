package main

import (
	"fmt"

	"github.com/aretw0/keep/pkg/core"
	"github.com/aretw0/keep/pkg/tui"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newColorsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "List the palette",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, color := range core.Palette {
				dot := lipgloss.NewStyle().Foreground(tui.Swatch(string(color))).Render("●")
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dot, color)
			}
		},
	}
}
