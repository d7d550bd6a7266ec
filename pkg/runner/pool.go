package runner

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/oisee/sim8085/pkg/cpu"
)

// Job is one independent machine to run.
type Job struct {
	Name    string
	CPU     *cpu.CPU
	Options Options
}

// JobResult is the outcome of one Job. Err holds per-job stops such as a
// step limit or an illegal opcode.
type JobResult struct {
	Name   string
	Result Result
	Err    error
}

// Pool runs jobs in parallel. Each job owns its CPU; nothing is shared.
type Pool struct {
	NumWorkers int
	jobs       atomic.Int64
	steps      atomic.Int64
}

// NewPool creates a pool with the given number of workers.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers}
}

// Stats returns the jobs finished and instructions executed so far.
func (p *Pool) Stats() (jobs, steps int64) {
	return p.jobs.Load(), p.steps.Load()
}

// RunJobs runs every job and returns results in job order. Only context
// cancellation fails the batch.
func (p *Pool) RunJobs(ctx context.Context, jobs []Job) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.NumWorkers)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := Run(ctx, job.CPU, job.Options)
			results[i] = JobResult{Name: job.Name, Result: res, Err: err}
			p.jobs.Add(1)
			p.steps.Add(int64(res.Steps))
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	return results, g.Wait()
}
