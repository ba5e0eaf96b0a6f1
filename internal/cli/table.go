package cli

import (
	"fmt"

	"github.com/me/probsched/internal/proctable"
	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "table <csv-file>",
		Short: "Load and print a process table file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := proctable.LoadFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("process table loaded", "path", args[0], "rows", len(t.Processes), "skipped", t.Skipped)

			out := cmd.OutOrStdout()
			if output == outputJSON {
				return writeJSON(out, t)
			}
			if len(t.Processes) == 0 {
				fmt.Fprintln(out, "No processes found.")
			} else {
				renderProcesses(out, t.Header, t.Processes)
			}
			if t.Skipped > 0 {
				fmt.Fprintf(out, "(%d rows with fewer than %d columns skipped)\n", t.Skipped, proctable.MinColumns)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json")
	return cmd
}
