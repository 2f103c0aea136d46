// Package scenario drives the payoff engines over batches of path scenarios
// read from files, recording results and failures without letting one
// malformed scenario abort the batch.
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/phoenix/journal"
	"github.com/rustyeddy/phoenix/payoff"
	"github.com/rustyeddy/phoenix/pkg/id"
)

// Pricer prices one scenario's paths.
type Pricer interface {
	Price(p Paths) (*payoff.Result, error)
}

// SinglePricer adapts a single-asset engine to the Pricer interface.
type SinglePricer struct {
	Engine *payoff.SingleEngine
}

func (s SinglePricer) Price(p Paths) (*payoff.Result, error) {
	if len(p) != 1 {
		return nil, fmt.Errorf("%w: expected 1 path row, got %d",
			payoff.ErrPathCardinality, len(p))
	}
	return s.Engine.Calculate(p[0])
}

// WorstOfPricer adapts a worst-of engine to the Pricer interface.
type WorstOfPricer struct {
	Engine *payoff.WorstOfEngine
}

func (w WorstOfPricer) Price(p Paths) (*payoff.Result, error) {
	return w.Engine.Calculate(p)
}

// RunnerOptions controls how the scenario runner behaves.
type RunnerOptions struct {
	// Terms labels the run in the journal (usually the term sheet path).
	Terms string
	// Structure labels the product family in the journal.
	Structure string
	// StopOnError aborts at the first failed scenario instead of recording
	// it and continuing.
	StopOnError bool
}

// Failure records one scenario that could not be priced.
type Failure struct {
	Index int
	Err   error
}

// Result is a lightweight summary of a scenario run.
type Result struct {
	RunID string

	Scenarios int
	Priced    int
	Failures  []Failure

	Autocalls int
	KnockIns  int

	MeanValue float64
}

// Runner prices every scenario a feed yields.
type Runner struct {
	Pricer  Pricer
	Feed    PathFeed
	Journal journal.Journal // optional
	Options RunnerOptions
	Log     zerolog.Logger
}

// Run executes the scenario loop:
//  1. read the next scenario's paths
//  2. price them
//  3. journal the record (when a journal is set)
//
// A completed run is journaled as a ValuationRun so every scenario row has a
// parent row in the runs table. A scenario that fails to price is recorded as
// a Failure and the loop continues, unless StopOnError is set. Feed errors
// (I/O, malformed rows) end the run: the reader cannot resynchronize on the
// next scenario boundary once a row is bad.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Pricer == nil {
		return Result{}, fmt.Errorf("scenario: Pricer is required")
	}
	if r.Feed == nil {
		return Result{}, fmt.Errorf("scenario: Feed is required")
	}
	defer r.Feed.Close()

	res := Result{RunID: id.New()}
	var sumValue float64

	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		paths, ok, err := r.Feed.Next()
		if err != nil {
			r.recordFailure(&res, i, err)
			return res, err
		}
		if !ok {
			break
		}

		res.Scenarios++

		out, err := r.Pricer.Price(paths)
		if err != nil {
			r.recordFailure(&res, i, err)
			if r.Options.StopOnError {
				return res, err
			}
			continue
		}

		res.Priced++
		sumValue += out.TotalValue
		if out.AutocallTriggered {
			res.Autocalls++
		}
		if out.KnockInEvent {
			res.KnockIns++
		}

		if r.Journal != nil {
			if err := r.Journal.RecordScenario(journal.ScenarioRecord{
				RunID:             res.RunID,
				Index:             i,
				TotalCoupons:      out.TotalCoupons,
				FinalPayoff:       out.FinalPayoff,
				TotalValue:        out.TotalValue,
				AutocallTriggered: out.AutocallTriggered,
				AutocallDate:      out.AutocallDate,
				KnockInEvent:      out.KnockInEvent,
			}); err != nil {
				return res, fmt.Errorf("scenario: journal: %w", err)
			}
		}
	}

	if res.Priced > 0 {
		res.MeanValue = sumValue / float64(res.Priced)
	}

	if r.Journal != nil {
		if err := r.Journal.RecordRun(journal.ValuationRun{
			RunID:       res.RunID,
			Created:     time.Now().UTC(),
			Terms:       r.Options.Terms,
			Structure:   r.Options.Structure,
			Simulations: res.Scenarios,
			Failures:    len(res.Failures),
			MeanValue:   res.MeanValue,
		}); err != nil {
			return res, fmt.Errorf("scenario: journal: %w", err)
		}
	}

	return res, nil
}

func (r *Runner) recordFailure(res *Result, idx int, err error) {
	res.Failures = append(res.Failures, Failure{Index: idx, Err: err})
	r.Log.Warn().Int("scenario", idx).Err(err).Msg("scenario failed")

	if r.Journal != nil {
		_ = r.Journal.RecordScenario(journal.ScenarioRecord{
			RunID: res.RunID,
			Index: idx,
			Err:   err.Error(),
		})
	}
}
