// Package result classifies engine outcomes and parses the engine's JSON payload.
package result

import (
	"github.com/me/probsched/pkg/model"
)

// DefaultEngineError is reported when the engine says success=false on a zero
// exit without explaining why.
const DefaultEngineError = "unknown error reported by the engine"

// Interpret classifies an engine outcome. It returns the parsed result when
// the engine succeeded and a *model.RunError otherwise; exactly one of the two
// is non-nil.
//
// The exit code and the payload's success flag are checked independently: a
// zero exit may still carry success=false, and a non-zero exit may still carry
// a readable error message.
func Interpret(out model.EngineOutcome) (*model.SimulationResult, error) {
	if out.TimedOut {
		return nil, &model.RunError{Kind: model.KindTimeout, Message: "engine exceeded the time limit"}
	}

	p, parseErr := parsePayload(out.Stdout)

	if out.ExitCode != 0 {
		switch {
		case parseErr != nil:
			return nil, &model.RunError{
				Kind:     model.KindProcessFailedMalformed,
				Message:  "engine failed and its output is not valid JSON",
				ExitCode: out.ExitCode,
				Stdout:   out.Stdout,
				Stderr:   out.Stderr,
				Err:      parseErr,
			}
		case !p.Success && p.Error != nil:
			return nil, &model.RunError{Kind: model.KindEngineReportedError, Message: *p.Error, ExitCode: out.ExitCode}
		default:
			return nil, &model.RunError{
				Kind:     model.KindProcessFailedOpaque,
				Message:  "engine failed",
				ExitCode: out.ExitCode,
				Stdout:   out.Stdout,
				Stderr:   out.Stderr,
			}
		}
	}

	if parseErr != nil {
		return nil, &model.RunError{
			Kind:    model.KindMalformedSuccessOutput,
			Message: "engine succeeded but its output is not valid JSON",
			Stdout:  out.Stdout,
			Stderr:  out.Stderr,
			Err:     parseErr,
		}
	}

	if !p.Success {
		msg := DefaultEngineError
		if p.Error != nil {
			msg = *p.Error
		}
		return nil, &model.RunError{Kind: model.KindEngineReportedError, Message: msg}
	}

	res := &model.SimulationResult{Success: true, Error: p.Error}
	if err := decodeResults(p.Results, res); err != nil {
		return nil, &model.RunError{
			Kind:    model.KindResultProcessing,
			Message: "could not read simulation results",
			Stdout:  out.Stdout,
			Err:     err,
		}
	}
	return res, nil
}
