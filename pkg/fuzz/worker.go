package fuzz

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oisee/bfsc/pkg/backend"
	"github.com/oisee/bfsc/pkg/bfvm"
	"github.com/oisee/bfsc/pkg/ir"
	"github.com/oisee/bfsc/pkg/lower"
	"github.com/oisee/bfsc/pkg/report"
)

// maxSteps bounds both interpreters so a generated program with a
// never-clearing while condition cannot hang a worker.
const maxSteps = 2_000_000

// Config controls a fuzzing run, mirroring the shape of the teacher's
// search.Config: worker count plus the parameters fed to each task.
type Config struct {
	NumWorkers int
	Cases      int
	MaxStmts   int
	Seed       uint64
}

// Pool runs generated programs through the IR and BF interpreters in
// parallel and collects any divergence, adapted from
// pkg/search.WorkerPool: the same atomic counters and ticking progress
// goroutine, now checking for output equality instead of searching for a
// shorter instruction sequence.
type Pool struct {
	NumWorkers int
	Results    *report.Table

	checked    atomic.Int64
	mismatched atomic.Int64
	completed  atomic.Int64
}

// NewPool creates a pool with the given number of workers.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers, Results: report.NewTable()}
}

// Stats returns running totals.
func (p *Pool) Stats() (checked, mismatched int64) {
	return p.checked.Load(), p.mismatched.Load()
}

// Run generates cfg.Cases random programs, splits them across the pool's
// workers, and returns once every case has been checked.
func (p *Pool) Run(cfg Config) {
	total := int64(cfg.Cases)
	seeds := make(chan int64, cfg.Cases)
	for i := 0; i < cfg.Cases; i++ {
		seeds <- int64(cfg.Seed + uint64(i))
	}
	close(seeds)

	done := make(chan struct{})
	start := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				comp := p.completed.Load()
				fmt.Printf("  [%s] %d/%d cases | %d mismatches\n",
					time.Since(start).Round(time.Second), comp, total, p.mismatched.Load())
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range seeds {
				p.runCase(seed, cfg.MaxStmts)
				p.completed.Add(1)
			}
		}()
	}
	wg.Wait()
	close(done)
}

func (p *Pool) runCase(seed int64, maxStmts int) {
	p.checked.Add(1)

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	gen := NewGenerator(rng, maxStmts)
	prog := gen.Program()

	lowered, err := lower.Lower(prog)
	if err != nil {
		// a program the generator produced failed to lower; not a
		// compiler mismatch, just an invalid random program. Skip it.
		return
	}

	input := make([]byte, 4)
	for i := range input {
		input[i] = byte(rng.IntN(256))
	}

	irOut := &bytes.Buffer{}
	mem := make([]byte, lowered.MemSize)
	_, irErr := ir.RunBounded(lowered.Program, mem, bytes.NewReader(input), irOut, maxSteps)

	bfSrc := backend.Compile(lowered.Program, backend.Options{})
	bfOut := &bytes.Buffer{}
	_, bfErr := bfvm.RunBounded(bfSrc, bfvm.DefaultTapeSize, bytes.NewReader(input), bfOut, maxSteps)

	irFailed, bfFailed := irErr != nil, bfErr != nil
	if irFailed != bfFailed || (!irFailed && !bytes.Equal(irOut.Bytes(), bfOut.Bytes())) {
		p.mismatched.Add(1)
		m := report.Mismatch{
			Input:    input,
			IROutput: irOut.Bytes(),
			BFOutput: bfOut.Bytes(),
			Seed:     seed,
		}
		if irErr != nil {
			m.IRError = irErr.Error()
		}
		if bfErr != nil {
			m.BFError = bfErr.Error()
		}
		p.Results.Add(m)
	}
}
