package result

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/me/probsched/pkg/model"
)

// payload is the top level of the engine's stdout. Members other than
// success are decoded lazily so a bad results section cannot make the
// envelope unparseable.
type payload struct {
	Success bool
	Error   *string
	Results json.RawMessage
}

var errNotObject = errors.New("payload is not a JSON object")

// parsePayload decodes stdout as the engine's JSON envelope. It fails when
// stdout is not a JSON object or when success is present but not a boolean.
func parsePayload(stdout string) (*payload, error) {
	data := bytes.TrimSpace([]byte(stdout))
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, err
	}
	if members == nil {
		return nil, errNotObject
	}

	p := &payload{Results: members["results"]}
	if raw, ok := members["success"]; ok {
		if err := json.Unmarshal(raw, &p.Success); err != nil {
			return nil, fmt.Errorf("success: %w", err)
		}
	}
	if raw, ok := members["error"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil {
			p.Error = &msg
		}
	}
	return p, nil
}

// results mirrors the "results" member of a successful payload.
type results struct {
	Stats              *json.RawMessage   `json:"stats"`
	ProcessesGenerated *[]json.RawMessage `json:"processes_generated"`
	Processes          *[]json.RawMessage `json:"processes"`
	Timeline           *json.RawMessage   `json:"timeline_string"`
}

// decodeResults fills the optional parts of a SimulationResult.
func decodeResults(raw json.RawMessage, out *model.SimulationResult) error {
	if isAbsent(raw) {
		out.Processes = []model.ProcessRecord{}
		return nil
	}
	var r results
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("results: %w", err)
	}

	if r.Stats != nil && !isAbsent(*r.Stats) {
		var stats model.Stats
		if err := json.Unmarshal(*r.Stats, &stats); err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		out.Stats = &stats
	}

	rows := r.ProcessesGenerated
	if rows == nil {
		rows = r.Processes
	}
	out.Processes = []model.ProcessRecord{}
	if rows != nil {
		for i, row := range *rows {
			rec, err := decodeProcessRow(row)
			if err != nil {
				return fmt.Errorf("process %d: %w", i, err)
			}
			out.Processes = append(out.Processes, rec)
		}
	}

	if r.Timeline != nil && !isAbsent(*r.Timeline) {
		var trace string
		if err := json.Unmarshal(*r.Timeline, &trace); err != nil {
			return fmt.Errorf("timeline_string: %w", err)
		}
		out.TimelineTrace = &trace
	}
	return nil
}

// decodeProcessRow reads [id, start_time, burst_time, priority_or_period].
// The id may be a string or a number.
func decodeProcessRow(raw json.RawMessage) (model.ProcessRecord, error) {
	var cells []json.RawMessage
	if err := json.Unmarshal(raw, &cells); err != nil {
		return model.ProcessRecord{}, err
	}
	if len(cells) < 4 {
		return model.ProcessRecord{}, fmt.Errorf("want 4 columns, got %d", len(cells))
	}

	var rec model.ProcessRecord
	var id any
	if err := json.Unmarshal(cells[0], &id); err != nil {
		return rec, fmt.Errorf("id: %w", err)
	}
	switch v := id.(type) {
	case string:
		rec.ID = v
	case float64:
		rec.ID = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return rec, fmt.Errorf("id: unexpected %T", id)
	}

	fields := []struct {
		name string
		dst  *int
	}{
		{"start_time", &rec.StartTime},
		{"burst_time", &rec.BurstTime},
		{"priority_or_period", &rec.PriorityOrPeriod},
	}
	for i, f := range fields {
		if err := json.Unmarshal(cells[i+1], f.dst); err != nil {
			return rec, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return rec, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
