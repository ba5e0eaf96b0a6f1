package proctable

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/probsched/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WithHeader(t *testing.T) {
	in := "id,start_time,burst_time,priority\nP1,0,5,2\nP2, 3, 1, 1\n"
	tab, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "start_time", "burst_time", "priority"}, tab.Header)
	assert.Equal(t, []model.ProcessRecord{
		{ID: "P1", StartTime: 0, BurstTime: 5, PriorityOrPeriod: 2},
		{ID: "P2", StartTime: 3, BurstTime: 1, PriorityOrPeriod: 1},
	}, tab.Processes)
	assert.Zero(t, tab.Skipped)
}

func TestParse_WithoutHeader(t *testing.T) {
	tab, err := Parse(strings.NewReader("1,0,4,10\n2,1,2,20\n"))
	require.NoError(t, err)
	assert.Nil(t, tab.Header)
	require.Len(t, tab.Processes, 2)
	assert.Equal(t, "1", tab.Processes[0].ID)
	assert.Equal(t, 20, tab.Processes[1].PriorityOrPeriod)
}

func TestParse_ShortRowsSkipped(t *testing.T) {
	in := "id,start,burst,prio,extra\nP1,0,1,1,x\nP2,1\n\nP3,2,2,2\n"
	tab, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, tab.Processes, 2)
	assert.Equal(t, 1, tab.Skipped)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ErrEmpty.Error()},
		{"short header", "id,start,burst\nP1,0,1\n", "line 1: need at least 4 columns"},
		{"non-integer cell", "id,start,burst,prio\nP1,0,1,1\nP2,zero,1,1\n", `line 3: column 2: "zero" is not an integer`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procs.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,a,b,c\nP1,0,3,1\n"), 0o644))

	tab, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, tab.Processes, 1)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
