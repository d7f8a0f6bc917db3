package report_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oisee/bfsc/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAddAndSort(t *testing.T) {
	tbl := report.NewTable()
	tbl.Add(report.Mismatch{Seed: 3})
	tbl.Add(report.Mismatch{Seed: 1})
	tbl.Add(report.Mismatch{Seed: 2})

	assert.Equal(t, 3, tbl.Len())

	got := tbl.Mismatches()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].Seed, got[1].Seed, got[2].Seed})
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fuzz.checkpoint")

	ckpt := &report.Checkpoint{
		Mismatches: []report.Mismatch{{Seed: 7, IRError: "boom"}},
		CasesRun:   42,
		NextSeed:   43,
	}
	require.NoError(t, report.SaveCheckpoint(path, ckpt))

	loaded, err := report.LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, ckpt.CasesRun, loaded.CasesRun)
	assert.Equal(t, ckpt.NextSeed, loaded.NextSeed)
	require.Len(t, loaded.Mismatches, 1)
	assert.Equal(t, int64(7), loaded.Mismatches[0].Seed)
	assert.Equal(t, "boom", loaded.Mismatches[0].IRError)
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mismatches.json")

	err := report.WriteJSON(path, []report.Mismatch{{Seed: 1}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Seed": 1`)
}
