package payoff

import (
	"fmt"
	"math"

	"github.com/rustyeddy/phoenix/terms"
)

// SingleEngine prices Phoenix notes written on one underlying.
type SingleEngine struct {
	pt      *terms.ProductTerms
	initial float64
	denom   float64
}

// NewSingleEngine validates the terms and builds an engine. The terms must
// carry exactly one underlying with a positive initial price and a non-empty
// observation schedule.
func NewSingleEngine(pt *terms.ProductTerms) (*SingleEngine, error) {
	if pt == nil {
		return nil, fmt.Errorf("%w: nil terms", terms.ErrMissingParameter)
	}
	if len(pt.Underlyings) != 1 {
		return nil, fmt.Errorf("%w: single underlying expected, got %d",
			terms.ErrMissingParameter, len(pt.Underlyings))
	}
	if pt.Underlyings[0].InitialPrice <= 0 {
		return nil, fmt.Errorf("%w: initial_price for %q",
			terms.ErrMissingParameter, pt.Underlyings[0].Name)
	}
	if len(pt.ObservationDates) == 0 {
		return nil, fmt.Errorf("%w: observation_dates", terms.ErrMissingParameter)
	}

	denom := pt.Denomination
	if denom <= 0 {
		denom = terms.DefaultDenomination
	}

	return &SingleEngine{
		pt:      pt,
		initial: pt.Underlyings[0].InitialPrice,
		denom:   denom,
	}, nil
}

// Terms returns the terms the engine was built from.
func (e *SingleEngine) Terms() *terms.ProductTerms { return e.pt }

// ObservationCount is the length of the observation schedule.
func (e *SingleEngine) ObservationCount() int { return len(e.pt.ObservationDates) }

// NumUnderlyings is always 1 for a single-asset engine.
func (e *SingleEngine) NumUnderlyings() int { return 1 }

// Denomination is the face amount per note used when Calculate is called
// without an override.
func (e *SingleEngine) Denomination() float64 { return e.denom }

// Calculate evaluates one price path against the schedule using the term
// sheet denomination. The path must supply at least one price per observation
// date; extra trailing prices are ignored.
func (e *SingleEngine) Calculate(path []float64) (*Result, error) {
	return e.CalculateWithDenomination(path, e.denom)
}

// CalculateWithDenomination is Calculate with an explicit face amount.
//
// The evaluation is a single forward pass over the schedule. Each observation
// accrues one period's coupon; meeting the coupon barrier pays the whole
// accrued balance (memory). Meeting the autocall barrier flushes any accrued
// balance, redeems at full denomination, and ends the evaluation — knock-in
// is never consulted for an autocalled path. An American knock-in breach is
// sticky; a European knock-in is decided only from the final observation.
func (e *SingleEngine) CalculateWithDenomination(path []float64, denomination float64) (*Result, error) {
	obs := e.pt.ObservationDates
	if len(path) < len(obs) {
		return nil, fmt.Errorf("%w: got %d prices, schedule has %d observations",
			ErrInsufficientPath, len(path), len(obs))
	}

	res := &Result{}
	accrued := 0.0
	ki := e.pt.KnockIn

	for i, date := range obs {
		performance := path[i] / e.initial

		accrued += e.pt.Coupon.Rate * denomination

		if performance >= e.pt.Coupon.Barrier {
			res.ConditionalCoupons += accrued
			res.CouponPayments = append(res.CouponPayments, CouponPayment{
				Date:        date,
				Amount:      accrued,
				Performance: performance,
			})
			accrued = 0
		}

		if e.pt.Autocall != nil && performance >= e.pt.Autocall.Barrier {
			res.ConditionalCoupons += accrued
			accrued = 0
			res.AutocallTriggered = true
			res.AutocallDate = date
			res.FinalPayoff = denomination
			break
		}

		if ki.Style == terms.KnockInAmerican && performance < ki.Barrier {
			res.KnockInEvent = true
		}
	}

	if !res.AutocallTriggered {
		finalPerf := path[len(obs)-1] / e.initial

		if ki.Style == terms.KnockInEuropean && finalPerf < ki.Barrier {
			res.KnockInEvent = true
		}

		if res.KnockInEvent {
			// Principal at risk: redemption tracks final performance, floored
			// at zero.
			res.FinalPayoff = denomination * math.Max(finalPerf, 0)
		} else {
			res.FinalPayoff = denomination
		}
	}

	res.AccruedUnpaid = accrued
	res.TotalCoupons = res.ConditionalCoupons
	res.TotalValue = res.TotalCoupons + res.FinalPayoff
	return res, nil
}
