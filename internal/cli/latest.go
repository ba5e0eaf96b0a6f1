package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/me/probsched/internal/simulation"
	"github.com/me/probsched/pkg/model"
	"github.com/spf13/cobra"
)

func newLatestCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent simulation on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := client.Get("/api/v1/simulations/latest")
			if err != nil {
				return fmt.Errorf("get latest simulation: %w", err)
			}

			var data struct {
				RunID      string             `json:"run_id"`
				FinishedAt time.Time          `json:"finished_at"`
				Report     *simulation.Report `json:"report"`
				Error      *model.APIError    `json:"error"`
			}
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			out := cmd.OutOrStdout()
			if output == outputJSON {
				return writeJSON(out, data)
			}
			if data.Error != nil {
				printFailure(cmd.ErrOrStderr(), data.Error)
				return errors.New(statusLine(data.Error, 0))
			}
			if data.Report == nil {
				return fmt.Errorf("run %s has no report", data.RunID)
			}
			renderReport(out, data.Report, nil)
			fmt.Fprintf(out, "%s (finished %s)\n", statusComplete, data.FinishedAt.Local().Format(time.DateTime))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json")
	return cmd
}
