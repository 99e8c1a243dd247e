package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tonetags/internal/delivery"
	"tonetags/internal/explain"
	"tonetags/internal/preference"
	platformstrings "tonetags/pkg/platform/strings"
)

func newExplainCmd() *cobra.Command {
	var (
		standards    string
		standardsDir string
		limit        int
	)
	cmd := &cobra.Command{
		Use:   "explain <text>...",
		Short: "Explain the trailing tone tags of text without a server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(standardsDir)
			if err != nil {
				return err
			}
			enabled := registry.Filter(platformstrings.SplitList(standards, ","))
			report := explain.Resolve(strings.Join(args, " "), enabled, registry)

			out := cmd.OutOrStdout()
			for _, chunk := range delivery.Chunk(report.String(), limit) {
				fmt.Fprintln(out, chunk)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&standards, "standards", preference.DefaultStandard, "comma-separated standards to enable")
	cmd.Flags().StringVar(&standardsDir, "standards-dir", "", "directory with manifest.yaml; defaults to the bundled standards")
	cmd.Flags().IntVar(&limit, "chunk-limit", delivery.DefaultLimit, "maximum message size")
	return cmd
}
