package report

import (
	"encoding/gob"
	"encoding/json"
	"os"
)

// Checkpoint holds state for resuming a fuzzing session.
type Checkpoint struct {
	Mismatches   []Mismatch
	CasesRun     int64
	NextSeed     int64
}

func init() {
	gob.Register(Mismatch{})
}

// SaveCheckpoint writes fuzzing state to path.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint loads fuzzing state from path.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}

// WriteJSON writes the table's mismatches to path as an indented JSON
// array, the format a developer inspects after a fuzz run.
func WriteJSON(path string, mismatches []Mismatch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(mismatches)
}
