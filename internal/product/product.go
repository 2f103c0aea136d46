// Package product wires a term sheet file to the matching payoff engine so
// every command builds products the same way.
package product

import (
	"fmt"

	"github.com/rustyeddy/phoenix/montecarlo"
	"github.com/rustyeddy/phoenix/payoff"
	"github.com/rustyeddy/phoenix/scenario"
	"github.com/rustyeddy/phoenix/terms"
)

// Product is a loaded term sheet plus the engine built for its structure.
// Exactly one of Single or WorstOf is non-nil.
type Product struct {
	Terms   *terms.ProductTerms
	Single  *payoff.SingleEngine
	WorstOf *payoff.WorstOfEngine
}

// Load reads a term sheet, normalizes it, and builds the engine its
// structure type calls for. An absent structure type falls back on the
// underlying count.
func Load(path string) (*Product, error) {
	ts, err := terms.LoadTermSheet(path)
	if err != nil {
		return nil, err
	}

	pt, err := ts.Normalize()
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", path, err)
	}

	worstOf := pt.Structure == terms.StructureWorstOf ||
		(pt.Structure == "" && len(pt.Underlyings) > 1)

	p := &Product{Terms: pt}
	if worstOf {
		p.WorstOf, err = payoff.NewWorstOfEngine(pt)
	} else {
		p.Single, err = payoff.NewSingleEngine(pt)
	}
	if err != nil {
		return nil, fmt.Errorf("build engine for %s: %w", path, err)
	}
	return p, nil
}

// Structure is the journal label for the product family.
func (p *Product) Structure() string {
	if p.WorstOf != nil {
		return string(terms.StructureWorstOf)
	}
	return string(terms.StructureSingle)
}

// Assets is the number of path rows one scenario needs.
func (p *Product) Assets() int {
	if p.WorstOf != nil {
		return p.WorstOf.NumUnderlyings()
	}
	return 1
}

// Pricer adapts the engine for the scenario runner.
func (p *Product) Pricer() scenario.Pricer {
	if p.WorstOf != nil {
		return scenario.WorstOfPricer{Engine: p.WorstOf}
	}
	return scenario.SinglePricer{Engine: p.Single}
}

// Valuator builds a Monte Carlo valuator for the engine.
func (p *Product) Valuator(cfg montecarlo.Config) *montecarlo.Valuator {
	if p.WorstOf != nil {
		return montecarlo.NewWorstOfValuator(p.WorstOf, cfg)
	}
	return montecarlo.NewSingleValuator(p.Single, cfg)
}
