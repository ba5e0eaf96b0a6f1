package timeline

import (
	"strings"
	"testing"

	"github.com/me/probsched/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		trace string
		want  []model.GanttInterval
	}{
		{"empty", "", []model.GanttInterval{}},
		{"no tokens", "no data", []model.GanttInterval{}},
		{"single tick", "[P1]", []model.GanttInterval{{Label: "P1", Start: 0, End: 1}}},
		{"one run", "[P2][P2][P2][P2]", []model.GanttInterval{{Label: "P2", Start: 0, End: 4}}},
		{
			"runs with idle",
			"[P1][P1][P2][-][-][P1]",
			[]model.GanttInterval{
				{Label: "P1", Start: 0, End: 2},
				{Label: "P2", Start: 2, End: 3},
				{Label: model.IdleLabel, Start: 3, End: 5},
				{Label: "P1", Start: 5, End: 6},
			},
		},
		{"starts idle", "[-][P3]", []model.GanttInterval{{Label: model.IdleLabel, Start: 0, End: 1}, {Label: "P3", Start: 1, End: 2}}},
		{"whitespace between tokens", "[A] [A]\n[B]", []model.GanttInterval{{Label: "A", Start: 0, End: 2}, {Label: "B", Start: 2, End: 3}}},
		{"unknown labels are opaque", "[zz][]", []model.GanttInterval{{Label: "zz", Start: 0, End: 1}, {Label: "", Start: 1, End: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.trace))
		})
	}
}

func TestDecode_Invariants(t *testing.T) {
	trace := "[P1][P2][P2][-][P3][P3][P3][P1][-][-]"
	intervals := Decode(trace)
	require.NotEmpty(t, intervals)

	assert.Equal(t, 0, intervals[0].Start)
	assert.Equal(t, len(Tokens(trace)), intervals[len(intervals)-1].End)
	for i, iv := range intervals {
		assert.Less(t, iv.Start, iv.End, "interval %d must be non-empty", i)
		if i > 0 {
			assert.Equal(t, intervals[i-1].End, iv.Start, "intervals %d and %d must be contiguous", i-1, i)
			assert.NotEqual(t, intervals[i-1].Label, iv.Label, "runs must be maximal")
		}
		assert.NotEqual(t, RawIdle, iv.Label)
	}
}

func shift(intervals []model.GanttInterval, by int) []model.GanttInterval {
	out := make([]model.GanttInterval, len(intervals))
	for i, iv := range intervals {
		out[i] = model.GanttInterval{Label: iv.Label, Start: iv.Start + by, End: iv.End + by}
	}
	return out
}

// Splitting a trace where the label changes and decoding the halves gives the
// same intervals as decoding the whole, once the second half is shifted.
func TestDecode_SplitAtTransition(t *testing.T) {
	trace := "[P1][P1][P2][-][-][P1][P3][P3]"
	tokens := Tokens(trace)
	whole := Decode(trace)

	for split := 1; split < len(tokens); split++ {
		if tokens[split-1] == tokens[split] {
			continue
		}
		left := "[" + strings.Join(tokens[:split], "][") + "]"
		right := "[" + strings.Join(tokens[split:], "][") + "]"

		joined := append(Decode(left), shift(Decode(right), split)...)
		assert.Equal(t, whole, joined, "split at tick %d", split)
	}
}

func TestSpanLabelsBusy(t *testing.T) {
	intervals := Decode("[P2][P1][P1][-][P2]")

	assert.Equal(t, 5, Span(intervals))
	assert.Equal(t, []string{model.IdleLabel, "P1", "P2"}, Labels(intervals))
	assert.Equal(t, 4, Busy(intervals))

	assert.Equal(t, 0, Span(nil))
	assert.Empty(t, Labels(nil))
}
