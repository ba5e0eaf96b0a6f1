package cli

import (
	"fmt"
	"strings"

	"github.com/me/probsched/pkg/model"
	"github.com/spf13/cobra"
)

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported scheduling algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tENGINE NAME\tREQUIRES")
			for _, a := range model.Algorithms {
				var req []string
				if a.NeedsQuantum() {
					req = append(req, "--quantum")
				}
				if a.NeedsMaxTime() {
					req = append(req, "--max")
				}
				requires := strings.Join(req, " ")
				if requires == "" {
					requires = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", a, a.EngineName(), requires)
			}
			return tw.Flush()
		},
	}
}
