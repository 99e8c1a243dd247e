package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint [dir]",
		Short: "Parse standard documents and report the first format error",
		Long: `Lint loads manifest.yaml and every standard document it lists from dir,
or the bundled standards when dir is omitted, and prints a summary per standard.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			registry, err := loadRegistry(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, entry := range registry.Entries() {
				fmt.Fprintf(out, "%s\t%s\t%d tags\n", entry.ID, entry.Standard.Title, len(entry.Standard.Tags))
			}
			fmt.Fprintf(out, "ok: %d standards\n", registry.Len())
			return nil
		},
	}
}
