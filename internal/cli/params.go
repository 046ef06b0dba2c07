package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fluvsynth/internal/styles"
)

func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params [style]",
		Short: "List the recognized parameters for a style (or all styles)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var list []styles.Style
			if len(args) == 1 {
				style := styles.ParseStyle(args[0])
				list = []styles.Style{style}
			} else {
				list = styles.Styles()
			}
			for _, style := range list {
				cmd.Printf("%s:\n", style)
				for _, p := range styles.Parameters(style) {
					rangeNote := ""
					if p.HasRange {
						rangeNote = fmt.Sprintf(" [%g..%g]", p.Min, p.Max)
					}
					cmd.Printf("  %-24s %-7s default=%-8s%s  %s\n", p.Key, p.Type, p.Default, rangeNote, p.Description)
				}
				cmd.Println()
			}
			return nil
		},
	}
	return cmd
}
