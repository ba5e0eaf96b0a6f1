package cli

import (
	"fmt"
	"runtime"

	"github.com/me/probsched/pkg/model"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the probsched version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "probsched %s (%s)\n", model.Version, runtime.Version())
		},
	}
}
