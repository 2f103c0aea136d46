package terms

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TermSheet is the wire shape produced by the external extraction/validation
// pipeline. Rates and barriers may arrive as numbers ("0.026"), percentage
// strings ("2.60%"), or formula strings ("0.3333% x t"), so those fields are
// typed as any until Normalize resolves them.
type TermSheet struct {
	StructureType      string              `json:"structure_type" yaml:"structure_type"`
	Underlyings        []UnderlyingSpec    `json:"underlyings" yaml:"underlyings"`
	Dates              DatesSpec           `json:"dates" yaml:"dates"`
	ConditionalCoupons []CouponSpec        `json:"conditional_coupons" yaml:"conditional_coupons"`
	Autocall           *AutocallSpec       `json:"autocall,omitempty" yaml:"autocall,omitempty"`
	KnockIn            *KnockInSpec        `json:"knock_in,omitempty" yaml:"knock_in,omitempty"`
	FixedCoupon        *FixedCouponSpec    `json:"fixed_coupon,omitempty" yaml:"fixed_coupon,omitempty"`
	ProductDetails     *ProductDetailsSpec `json:"product_details,omitempty" yaml:"product_details,omitempty"`
}

type UnderlyingSpec struct {
	Name         string  `json:"name" yaml:"name"`
	Ticker       string  `json:"ticker,omitempty" yaml:"ticker,omitempty"`
	InitialPrice float64 `json:"initial_price" yaml:"initial_price"`
}

type DatesSpec struct {
	ObservationDates []string `json:"observation_dates" yaml:"observation_dates"`
	ValuationDate    string   `json:"valuation_date,omitempty" yaml:"valuation_date,omitempty"`
}

type CouponSpec struct {
	Rate               any    `json:"rate,omitempty" yaml:"rate,omitempty"`
	CalculationFormula string `json:"calculation_formula,omitempty" yaml:"calculation_formula,omitempty"`
	BarrierLevel       any    `json:"barrier_level,omitempty" yaml:"barrier_level,omitempty"`
	MemoryFeature      bool   `json:"memory_feature,omitempty" yaml:"memory_feature,omitempty"`
	TriggerCondition   string `json:"trigger_condition,omitempty" yaml:"trigger_condition,omitempty"`
}

type AutocallSpec struct {
	BarrierLevel any `json:"barrier_level,omitempty" yaml:"barrier_level,omitempty"`
}

type KnockInSpec struct {
	Type          string             `json:"type,omitempty" yaml:"type,omitempty"`
	BarrierLevel  any                `json:"barrier_level,omitempty" yaml:"barrier_level,omitempty"`
	BarrierPrices []BarrierPriceSpec `json:"barrier_prices,omitempty" yaml:"barrier_prices,omitempty"`
}

// BarrierPriceSpec is an absolute knock-in level quoted per underlying.
// Either field may carry the price depending on the issuing bank's wording.
type BarrierPriceSpec struct {
	Underlying   string  `json:"underlying,omitempty" yaml:"underlying,omitempty"`
	KnockInPrice float64 `json:"knock_in_price,omitempty" yaml:"knock_in_price,omitempty"`
	BarrierPrice float64 `json:"barrier_price,omitempty" yaml:"barrier_price,omitempty"`
}

type FixedCouponSpec struct {
	Rate any `json:"rate,omitempty" yaml:"rate,omitempty"`
}

type ProductDetailsSpec struct {
	Denomination float64 `json:"denomination,omitempty" yaml:"denomination,omitempty"`
}

// LoadTermSheet reads a term sheet from a YAML or JSON file.
func LoadTermSheet(path string) (*TermSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read term sheet: %w", err)
	}

	ts := &TermSheet{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, ts); err != nil {
		if jerr := json.Unmarshal(data, ts); jerr != nil {
			return nil, fmt.Errorf("parse term sheet (tried YAML and JSON): %w", err)
		}
	}

	return ts, nil
}

// Normalize resolves the heterogeneous term sheet fields into a canonical
// ProductTerms value. Selection rules for worst-of products follow the
// extraction pipeline's conventions: the main conditional coupon is the first
// one carrying a trigger condition (else the first entry), the coupon barrier
// is the first non-empty barrier level across all coupon chunks, and the
// knock-in barrier may be inferred from an absolute reference price when no
// decimal level is present. Single-asset sheets read only the first coupon
// entry.
func (ts *TermSheet) Normalize() (*ProductTerms, error) {
	if len(ts.Dates.ObservationDates) == 0 {
		return nil, fmt.Errorf("%w: observation_dates", ErrMissingParameter)
	}
	if len(ts.ConditionalCoupons) == 0 {
		return nil, fmt.Errorf("%w: conditional_coupons", ErrMissingParameter)
	}

	pt := &ProductTerms{
		Structure:        StructureType(ts.StructureType),
		ObservationDates: ts.Dates.ObservationDates,
		ValuationDate:    ts.Dates.ValuationDate,
		Denomination:     DefaultDenomination,
	}
	if ts.ProductDetails != nil && ts.ProductDetails.Denomination > 0 {
		pt.Denomination = ts.ProductDetails.Denomination
	}

	for _, u := range ts.Underlyings {
		pt.Underlyings = append(pt.Underlyings, Underlying{
			Name:         u.Name,
			Ticker:       u.Ticker,
			InitialPrice: u.InitialPrice,
		})
	}

	worstOf := pt.Structure == StructureWorstOf

	if err := ts.normalizeCoupon(pt, worstOf); err != nil {
		return nil, err
	}

	if ts.Autocall != nil {
		b, err := ParseBarrier(orDefault(ts.Autocall.BarrierLevel, "100%"))
		if err != nil {
			return nil, err
		}
		pt.Autocall = &AutocallRule{Barrier: b}
	}

	if err := ts.normalizeKnockIn(pt, worstOf); err != nil {
		return nil, err
	}

	if worstOf && ts.FixedCoupon != nil {
		r, err := ParseRate(orDefault(ts.FixedCoupon.Rate, "0%"))
		if err != nil {
			return nil, err
		}
		pt.FixedCoupon = &FixedCouponRule{Rate: r}
	}

	return pt, nil
}

func (ts *TermSheet) normalizeCoupon(pt *ProductTerms, worstOf bool) error {
	main := ts.ConditionalCoupons[0]
	if worstOf {
		for _, c := range ts.ConditionalCoupons {
			if c.TriggerCondition != "" {
				main = c
				break
			}
		}
	}

	if worstOf {
		// Worst-of coupons are often quoted as a per-period formula; the
		// lenient parser tolerates prose around the percentage token.
		rateVal := main.Rate
		if isEmpty(rateVal) {
			rateVal = main.CalculationFormula
		}
		pt.Coupon.Rate = ParseMonthlyRate(orDefault(rateVal, "0%"))
	} else {
		r, err := ParseRate(orDefault(main.Rate, "0%"))
		if err != nil {
			return err
		}
		pt.Coupon.Rate = r
	}

	// For worst-of sheets the barrier may live in a different extraction
	// chunk than the rate; single-asset sheets read only the first coupon.
	var barrier any
	fallback := "0%"
	if worstOf {
		for _, c := range ts.ConditionalCoupons {
			if !isEmpty(c.BarrierLevel) {
				barrier = c.BarrierLevel
				break
			}
		}
		fallback = "50%"
	} else {
		barrier = main.BarrierLevel
	}
	b, err := ParseBarrier(orDefault(barrier, fallback))
	if err != nil {
		return err
	}
	pt.Coupon.Barrier = b
	pt.Coupon.Memory = main.MemoryFeature
	return nil
}

func (ts *TermSheet) normalizeKnockIn(pt *ProductTerms, worstOf bool) error {
	if ts.KnockIn == nil {
		pt.KnockIn = KnockInRule{Barrier: 0, Style: KnockInEuropean}
		return nil
	}

	style := KnockInEuropean
	if strings.EqualFold(ts.KnockIn.Type, string(KnockInAmerican)) {
		style = KnockInAmerican
	}

	fallback := "0%"
	if worstOf {
		fallback = "50%"
	}

	// Worst-of sheets often quote absolute knock-in prices per underlying;
	// those are more reliable than the extracted percentage level.
	if worstOf && len(ts.KnockIn.BarrierPrices) > 0 {
		first := ts.KnockIn.BarrierPrices[0]
		price := first.KnockInPrice
		if price == 0 {
			price = first.BarrierPrice
		}
		if price > 0 && len(pt.Underlyings) > 0 {
			ref := pt.Underlyings[0]
			for _, u := range pt.Underlyings {
				if first.Underlying != "" &&
					strings.Contains(strings.ToLower(u.Name), strings.ToLower(first.Underlying)) {
					ref = u
					break
				}
			}
			if ref.InitialPrice <= 0 {
				return fmt.Errorf("%w: initial_price for %q", ErrMissingParameter, ref.Name)
			}
			pt.KnockIn = KnockInRule{Barrier: price / ref.InitialPrice, Style: style}
			return nil
		}
	}

	b, err := ParseBarrier(orDefault(ts.KnockIn.BarrierLevel, fallback))
	if err != nil {
		return err
	}
	pt.KnockIn = KnockInRule{Barrier: b, Style: style}
	return nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func orDefault(v any, def string) any {
	if isEmpty(v) {
		return def
	}
	return v
}
