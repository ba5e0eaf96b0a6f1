// Package stats turns the engine's statistics into display strings.
package stats

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/me/probsched/pkg/model"
)

// NotAvailable is shown for a statistic that is missing or unreadable.
const NotAvailable = "N/A"

// Display holds one formatted string per statistic.
type Display struct {
	AvgWaitingTime    string `json:"avg_waiting_time"`
	AvgTurnaroundTime string `json:"avg_turnaround_time"`
	CPUUtilization    string `json:"cpu_utilization"`
	Throughput        string `json:"throughput"`
	DeadlineMisses    string `json:"deadline_misses"`
}

// Empty returns a Display with every statistic unavailable.
func Empty() Display {
	return Display{
		AvgWaitingTime:    NotAvailable,
		AvgTurnaroundTime: NotAvailable,
		CPUUtilization:    NotAvailable,
		Throughput:        NotAvailable,
		DeadlineMisses:    NotAvailable,
	}
}

// Extract formats each statistic independently. A nil Stats yields Empty().
func Extract(s *model.Stats) Display {
	if s == nil {
		return Empty()
	}
	return Display{
		AvgWaitingTime:    formatNumber(s.AvgWaitingTime, 2),
		AvgTurnaroundTime: formatNumber(s.AvgTurnaroundTime, 2),
		CPUUtilization:    formatNumber(s.CPUUtilization, 2),
		Throughput:        formatNumber(s.Throughput, 4),
		DeadlineMisses:    formatCount(s.DeadlineMisses),
	}
}

// Available reports how many statistics have a value.
func (d Display) Available() int {
	n := 0
	for _, v := range []string{d.AvgWaitingTime, d.AvgTurnaroundTime, d.CPUUtilization, d.Throughput, d.DeadlineMisses} {
		if v != NotAvailable {
			n++
		}
	}
	return n
}

// formatNumber accepts any JSON number.
func formatNumber(raw json.RawMessage, decimals int) string {
	num, ok := jsonNumber(raw)
	if !ok {
		return NotAvailable
	}
	f, err := num.Float64()
	if err != nil {
		return NotAvailable
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// formatCount accepts only a JSON integer literal that is not negative.
// 3.0 and 1e2 are numbers but not integers.
func formatCount(raw json.RawMessage) string {
	num, ok := jsonNumber(raw)
	if !ok {
		return NotAvailable
	}
	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil || n < 0 {
		return NotAvailable
	}
	return strconv.FormatInt(n, 10)
}

func jsonNumber(raw json.RawMessage) (json.Number, bool) {
	if len(raw) == 0 {
		return "", false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	num, ok := v.(json.Number)
	return num, ok
}
