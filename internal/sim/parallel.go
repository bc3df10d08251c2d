package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run pairs a simulation with the seconds it should simulate.
type Run struct {
	Sim     *Simulation
	Seconds float64
}

// Ensemble runs independent simulations concurrently. Each simulation is
// still single-threaded; only distinct runs share the pool.
type Ensemble struct {
	runs    []Run
	workers int
}

// NewEnsemble limits concurrency to workers; zero or less means unlimited.
func NewEnsemble(workers int, runs ...Run) *Ensemble {
	return &Ensemble{runs: runs, workers: workers}
}

func (e *Ensemble) Add(r Run) { e.runs = append(e.runs, r) }

// Run simulates every run and returns the first error. Runs that have not
// started when ctx is canceled are skipped.
func (e *Ensemble) Run(ctx context.Context) ([]Summary, error) {
	g, ctx := errgroup.WithContext(ctx)
	if e.workers > 0 {
		g.SetLimit(e.workers)
	}

	summaries := make([]Summary, len(e.runs))
	for i, r := range e.runs {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.Sim.Simulate(r.Seconds); err != nil {
				return err
			}
			summaries[i] = r.Sim.Summary()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
