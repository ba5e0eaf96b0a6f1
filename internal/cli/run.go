package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/me/probsched/internal/cmdline"
	"github.com/me/probsched/internal/execution"
	"github.com/me/probsched/internal/proctable"
	"github.com/me/probsched/internal/simulation"
	"github.com/me/probsched/pkg/model"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		req         model.SimulationRequest
		runtimeName string
		output      string
		remote      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scheduling simulation",
		Long: `Run one simulation with the engine and print the process table, the
statistics, the raw timeline and its Gantt intervals.

Processes come from --file or are generated by the engine with --gen; --gen
wins when both are given. round_robin needs --quantum, rate_monotonic and edf
need --max. With --remote the simulation runs on the probsched server.`,
		Example: `  probsched run --algo fcfs --file procs.csv
  probsched run --algo rr --gen 5 --quantum 2
  probsched run --algo edf --file tasks.csv --max 40 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputJSON {
				return fmt.Errorf("unknown output format %q (want %s or %s)", output, outputText, outputJSON)
			}

			var (
				report *simulation.Report
				err    error
			)
			if remote {
				report, err = runRemote(req)
			} else {
				report, err = runLocal(cmd.Context(), req, runtimeName)
			}
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return errors.New(statusLine(err, appConfig.Engine.Timeout))
			}

			out := cmd.OutOrStdout()
			if output == outputJSON {
				return writeJSON(out, report)
			}

			var fileTable *proctable.Table
			if len(report.Processes) == 0 && report.Config.Input.Resolve() == model.InputFile {
				// The engine did not echo the processes; show the file instead.
				if t, err := proctable.LoadFile(report.Config.Input.Path); err == nil {
					fileTable = t
				} else {
					logger.Debug("process file not readable for display", "error", err)
				}
			}
			renderReport(out, report, fileTable)
			fmt.Fprintln(out, statusComplete)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Algorithm, "algo", "", "Scheduling algorithm (see 'probsched algorithms')")
	cmd.Flags().StringVar(&req.File, "file", "", "CSV process file")
	cmd.Flags().IntVar(&req.Generate, "gen", 0, "Number of random processes for the engine to generate")
	cmd.Flags().IntVar(&req.Quantum, "quantum", 2, "Time quantum (round_robin)")
	cmd.Flags().IntVar(&req.MaxTime, "max", 20, "Simulation horizon (rate_monotonic, edf)")
	cmd.Flags().StringVar(&runtimeName, "runtime", "", "Engine runtime: local, docker (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format: text, json")
	cmd.Flags().BoolVar(&remote, "remote", false, "Run on the probsched server (--server)")
	cmd.MarkFlagRequired("algo")

	return cmd
}

// runLocal runs the pipeline in this process.
func runLocal(ctx context.Context, req model.SimulationRequest, runtimeName string) (*simulation.Report, error) {
	cfg, err := req.Config()
	if err != nil {
		return nil, err
	}

	engine := appConfig.Engine
	if runtimeName != "" {
		engine.Runtime = runtimeName
	}
	rt, err := engine.NewRuntime(logger)
	if err != nil {
		return nil, model.NewConfigurationError("%v", err)
	}

	runner := simulation.NewRunner(
		cmdline.NewBuilder(engine.Path),
		execution.NewInvoker(rt, engine.Timeout, logger),
		logger,
	)
	return runner.Run(ctx, cfg)
}

// runRemote posts the request to the server. A relative file path is made
// absolute first; the server must be able to read the same path.
func runRemote(req model.SimulationRequest) (*simulation.Report, error) {
	if req.File != "" {
		abs, err := filepath.Abs(req.File)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", req.File, err)
		}
		req.File = abs
	}

	resp, err := client.Post("/api/v1/simulations/", req)
	if err != nil {
		return nil, err
	}
	var report simulation.Report
	if err := json.Unmarshal(resp.Data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}
