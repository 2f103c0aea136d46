package payoff

import (
	"fmt"
	"math"

	"github.com/rustyeddy/phoenix/terms"
)

// WorstOfEngine prices Phoenix notes written on a basket of underlyings where
// every barrier decision is driven by the worst performer.
type WorstOfEngine struct {
	pt       *terms.ProductTerms
	initials []float64
	denom    float64
}

// NewWorstOfEngine validates the terms and builds an engine. Worst-of
// products need at least two underlyings, each with a positive initial price.
func NewWorstOfEngine(pt *terms.ProductTerms) (*WorstOfEngine, error) {
	if pt == nil {
		return nil, fmt.Errorf("%w: nil terms", terms.ErrMissingParameter)
	}
	if len(pt.Underlyings) < 2 {
		return nil, fmt.Errorf("%w: worst-of requires 2+ underlyings, got %d",
			ErrInsufficientUnderlyings, len(pt.Underlyings))
	}

	initials := make([]float64, len(pt.Underlyings))
	for i, u := range pt.Underlyings {
		if u.InitialPrice <= 0 {
			return nil, fmt.Errorf("%w: initial_price for %q",
				ErrInsufficientUnderlyings, u.Name)
		}
		initials[i] = u.InitialPrice
	}
	if len(pt.ObservationDates) == 0 {
		return nil, fmt.Errorf("%w: observation_dates", terms.ErrMissingParameter)
	}

	denom := pt.Denomination
	if denom <= 0 {
		denom = terms.DefaultDenomination
	}

	return &WorstOfEngine{pt: pt, initials: initials, denom: denom}, nil
}

// Terms returns the terms the engine was built from.
func (e *WorstOfEngine) Terms() *terms.ProductTerms { return e.pt }

// ObservationCount is the length of the observation schedule.
func (e *WorstOfEngine) ObservationCount() int { return len(e.pt.ObservationDates) }

// NumUnderlyings is the basket size.
func (e *WorstOfEngine) NumUnderlyings() int { return len(e.initials) }

// Denomination is the face amount per note used when Calculate is called
// without an override.
func (e *WorstOfEngine) Denomination() float64 { return e.denom }

// Calculate evaluates one set of parallel price paths, one per underlying in
// the same order as the terms list them.
func (e *WorstOfEngine) Calculate(paths [][]float64) (*Result, error) {
	return e.CalculateWithDenomination(paths, e.denom)
}

// CalculateWithDenomination is Calculate with an explicit face amount.
//
// The state machine matches the single-asset engine, with every performance
// replaced by the minimum across underlyings at that observation. An optional
// fixed coupon is paid once, unconditionally, and reported separately from
// the path-conditional coupons; both feed TotalCoupons.
func (e *WorstOfEngine) CalculateWithDenomination(paths [][]float64, denomination float64) (*Result, error) {
	if len(paths) != len(e.initials) {
		return nil, fmt.Errorf("%w: expected %d paths, got %d",
			ErrPathCardinality, len(e.initials), len(paths))
	}

	obs := e.pt.ObservationDates
	for i, p := range paths {
		if len(p) < len(obs) {
			return nil, fmt.Errorf("%w: path %d has %d prices, schedule has %d observations",
				ErrPathCardinality, i, len(p), len(obs))
		}
	}

	res := &Result{}
	if e.pt.FixedCoupon != nil {
		res.FixedCoupon = e.pt.FixedCoupon.Rate * denomination
	}

	accrued := 0.0
	ki := e.pt.KnockIn

	for i, date := range obs {
		worst := e.worstPerformance(paths, i)

		accrued += e.pt.Coupon.Rate * denomination

		if worst >= e.pt.Coupon.Barrier {
			res.ConditionalCoupons += accrued
			res.CouponPayments = append(res.CouponPayments, CouponPayment{
				Date:        date,
				Amount:      accrued,
				Performance: worst,
			})
			accrued = 0
		}

		if e.pt.Autocall != nil && worst >= e.pt.Autocall.Barrier {
			res.ConditionalCoupons += accrued
			accrued = 0
			res.AutocallTriggered = true
			res.AutocallDate = date
			res.FinalPayoff = denomination
			break
		}

		if ki.Style == terms.KnockInAmerican && worst < ki.Barrier {
			res.KnockInEvent = true
		}
	}

	if !res.AutocallTriggered {
		worstFinal := e.worstPerformance(paths, len(obs)-1)

		if ki.Style == terms.KnockInEuropean && worstFinal < ki.Barrier {
			res.KnockInEvent = true
		}

		if res.KnockInEvent {
			// The worst performer alone drives the principal loss.
			res.FinalPayoff = denomination * math.Max(worstFinal, 0)
		} else {
			res.FinalPayoff = denomination
		}
	}

	res.AccruedUnpaid = accrued
	res.TotalCoupons = res.FixedCoupon + res.ConditionalCoupons
	res.TotalValue = res.TotalCoupons + res.FinalPayoff
	return res, nil
}

func (e *WorstOfEngine) worstPerformance(paths [][]float64, obsIdx int) float64 {
	worst := math.Inf(1)
	for k, p := range paths {
		perf := p[obsIdx] / e.initials[k]
		if perf < worst {
			worst = perf
		}
	}
	return worst
}
