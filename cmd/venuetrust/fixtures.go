package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/venuetrust/internal/fixture"
)

func newFixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "List built-in snapshot fixtures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := fixture.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range names {
				fx, err := fixture.LoadBuiltin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%s\n", fx.Name, fx.Description)
			}
			return tw.Flush()
		},
	}
}
