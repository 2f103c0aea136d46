// Package montecarlo aggregates many independent path evaluations into
// summary valuation statistics. Path generation is the caller's job; the
// valuator only prices and reduces.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rustyeddy/phoenix/payoff"
)

// ErrShapeMismatch is returned when the path batch's dimensions do not match
// the product's schedule length or underlying count. The batch is rejected
// upfront; nothing is priced.
var ErrShapeMismatch = errors.New("montecarlo: path batch shape mismatch")

// PercentileLevels are the total-value percentiles reported in every Summary.
var PercentileLevels = []int{5, 25, 50, 75, 95}

// Config controls batch execution. NumWorkers <= 0 means one worker per CPU.
type Config struct {
	NumWorkers int
}

// Summary holds the aggregate statistics of one valuation batch. All values
// are undiscounted; discounting is a post-processing concern.
type Summary struct {
	Simulations         int             `json:"simulations"`
	MeanValue           float64         `json:"mean_value"`
	StdValue            float64         `json:"std_value"`
	MeanCoupons         float64         `json:"mean_coupons"`
	MeanPayoff          float64         `json:"mean_payoff"`
	AutocallProbability float64         `json:"autocall_probability"`
	Percentiles         map[int]float64 `json:"value_percentiles"`
}

// Valuator runs a payoff engine over a batch of simulated paths. The engines
// are stateless per call, so simulations are partitioned across workers and
// the reduction is invariant to evaluation order.
type Valuator struct {
	cfg    Config
	single *payoff.SingleEngine
	worst  *payoff.WorstOfEngine

	schedule int
	assets   int
}

// NewSingleValuator builds a valuator for single-underlying batches.
func NewSingleValuator(e *payoff.SingleEngine, cfg Config) *Valuator {
	return &Valuator{
		cfg:      cfg,
		single:   e,
		schedule: e.ObservationCount(),
		assets:   1,
	}
}

// NewWorstOfValuator builds a valuator for worst-of batches.
func NewWorstOfValuator(e *payoff.WorstOfEngine, cfg Config) *Valuator {
	return &Valuator{
		cfg:      cfg,
		worst:    e,
		schedule: e.ObservationCount(),
		assets:   e.NumUnderlyings(),
	}
}

// ValueSingle prices a batch shaped [simulation][observation].
func (v *Valuator) ValueSingle(ctx context.Context, paths [][]float64) (*Summary, error) {
	if v.single == nil {
		return nil, fmt.Errorf("montecarlo: valuator was not built for single-asset batches")
	}
	for i, p := range paths {
		if len(p) != v.schedule {
			return nil, fmt.Errorf("%w: path %d has %d observations, schedule has %d",
				ErrShapeMismatch, i, len(p), v.schedule)
		}
	}
	return v.run(ctx, len(paths), func(i int) (*payoff.Result, error) {
		return v.single.Calculate(paths[i])
	})
}

// ValueWorstOf prices a batch shaped [simulation][underlying][observation].
func (v *Valuator) ValueWorstOf(ctx context.Context, paths [][][]float64) (*Summary, error) {
	if v.worst == nil {
		return nil, fmt.Errorf("montecarlo: valuator was not built for worst-of batches")
	}
	for i, sim := range paths {
		if len(sim) != v.assets {
			return nil, fmt.Errorf("%w: simulation %d has %d underlyings, product has %d",
				ErrShapeMismatch, i, len(sim), v.assets)
		}
		for k, p := range sim {
			if len(p) != v.schedule {
				return nil, fmt.Errorf("%w: simulation %d path %d has %d observations, schedule has %d",
					ErrShapeMismatch, i, k, len(p), v.schedule)
			}
		}
	}
	return v.run(ctx, len(paths), func(i int) (*payoff.Result, error) {
		return v.worst.Calculate(paths[i])
	})
}

// run partitions [0, n) across workers, prices every simulation, and reduces.
// Each worker writes only its own index range, so no locking is needed on the
// result slices.
func (v *Valuator) run(ctx context.Context, n int, price func(int) (*payoff.Result, error)) (*Summary, error) {
	if n == 0 {
		return nil, fmt.Errorf("%w: empty path batch", ErrShapeMismatch)
	}

	workers := v.cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	values := make([]float64, n)
	coupons := make([]float64, n)
	payoffs := make([]float64, n)
	autocalls := make([]int, workers)
	errs := make([]error, workers)

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}

		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					errs[w] = err
					return
				}
				r, err := price(i)
				if err != nil {
					errs[w] = fmt.Errorf("simulation %d: %w", i, err)
					return
				}
				values[i] = r.TotalValue
				coupons[i] = r.TotalCoupons
				payoffs[i] = r.FinalPayoff
				if r.AutocallTriggered {
					autocalls[w]++
				}
			}
		}(w, lo, hi)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	autocallCount := 0
	for _, c := range autocalls {
		autocallCount += c
	}

	return &Summary{
		Simulations:         n,
		MeanValue:           Mean(values),
		StdValue:            StdDev(values),
		MeanCoupons:         Mean(coupons),
		MeanPayoff:          Mean(payoffs),
		AutocallProbability: float64(autocallCount) / float64(n),
		Percentiles:         Percentiles(values, PercentileLevels),
	}, nil
}
