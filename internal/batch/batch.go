// Package batch transliterates several documents concurrently while keeping
// the results in input order.
package batch

import (
	"context"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// Job is a single document to process.
type Job struct {
	Index int
	Name  string
}

// Result is the outcome of a Job. Exactly one of Output or Err is meaningful.
type Result struct {
	Job      Job
	Output   string
	Err      error
	Duration time.Duration
}

// Func processes one job.
type Func func(ctx context.Context, job Job) (string, error)

// DefaultWorkers is used when Run is given a non-positive worker count.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Run calls fn for every job with at most workers calls in flight and
// returns one Result per job, in the order of jobs. A failing job does not
// stop the others; jobs that have not started when ctx is cancelled report
// ctx.Err().
func Run(ctx context.Context, jobs []Job, workers int, fn Func) []Result {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, job := range jobs {
		i, job := i, job
		results[i].Job = job
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			out, err := fn(ctx, job)
			results[i].Output = out
			results[i].Err = err
			results[i].Duration = time.Since(start)
			if err != nil {
				log.Debug("batch job failed", "name", job.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
