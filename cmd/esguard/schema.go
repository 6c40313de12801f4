package main

import (
	"fmt"

	"github.com/spf13/cobra"

	g "github.com/reoring/esguard"
)

func newSchemaCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [ID]",
		Short: "List schema ids or export one as JSON Schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := global.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, id := range cat.IDs() {
					s, _ := cat.Schema(id)
					fmt.Fprintf(out, "%-10s %s\n", id, s.Title)
				}
				return nil
			}
			s, err := cat.Schema(args[0])
			if err != nil {
				return err
			}
			return writeJSON(out, g.ExportJSONSchema(s))
		},
	}
}
