// Package report stores the mismatches pkg/fuzz finds: a thread-safe table
// plus JSON and gob checkpoint I/O, adapted from pkg/result's optimization
// rule table in the teacher repo.
package report

import (
	"sort"
	"sync"
)

// Mismatch records one program for which the IR interpreter and the BF
// interpreter disagreed (or one of them errored) for the same input.
type Mismatch struct {
	Source    string // BFS source that produced the divergent program
	Input     []byte
	IROutput  []byte
	BFOutput  []byte
	IRError   string
	BFError   string
	Seed      int64
}

// Table stores discovered mismatches, guarded by a mutex since pkg/fuzz's
// worker pool reports concurrently.
type Table struct {
	mu         sync.Mutex
	mismatches []Mismatch
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a mismatch into the table.
func (t *Table) Add(m Mismatch) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mismatches = append(t.mismatches, m)
}

// Mismatches returns a copy of all recorded mismatches, sorted by seed so
// output is deterministic across runs over the same fuzzing session.
func (t *Table) Mismatches() []Mismatch {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Mismatch, len(t.mismatches))
	copy(result, t.mismatches)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Seed < result[j].Seed
	})
	return result
}

// Len returns the number of recorded mismatches.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.mismatches)
}
