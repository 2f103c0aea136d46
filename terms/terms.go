// Package terms holds the normalized, immutable representation of a Phoenix
// note's contractual terms. A ProductTerms value is built once from validated
// term sheet data and never mutated; the payoff engines read it concurrently.
package terms

// StructureType identifies the product family.
type StructureType string

const (
	StructureSingle  StructureType = "single"
	StructureWorstOf StructureType = "worst_of"
)

// KnockInStyle selects the knock-in monitoring regime.
type KnockInStyle string

const (
	// KnockInEuropean is evaluated only at the final observation.
	KnockInEuropean KnockInStyle = "European"
	// KnockInAmerican is evaluated at every observation; any breach is
	// permanent for the life of the trade.
	KnockInAmerican KnockInStyle = "American"
)

// DefaultDenomination is used when product_details.denomination is absent.
const DefaultDenomination = 1000.0

// Underlying is one reference asset. InitialPrice is the level fixed at the
// trade date; all performance ratios are relative to it.
type Underlying struct {
	Name         string
	Ticker       string
	InitialPrice float64
}

// CouponRule is the conditional (Phoenix) coupon. Rate and Barrier are
// decimal fractions. Memory records whether the term sheet advertises the
// memory feature; unpaid coupons accrue either way and are recovered in full
// the first period the barrier is met.
type CouponRule struct {
	Rate    float64
	Barrier float64
	Memory  bool
}

// AutocallRule redeems the note early at full denomination when performance
// meets or exceeds Barrier at an observation date.
type AutocallRule struct {
	Barrier float64
}

// KnockInRule removes principal protection once breached. A zero barrier
// means knock-in monitoring is disabled.
type KnockInRule struct {
	Barrier float64
	Style   KnockInStyle
}

// Disabled reports whether knock-in monitoring is off for this product.
func (k KnockInRule) Disabled() bool { return k.Barrier <= 0 }

// FixedCouponRule is a one-time unconditional coupon (worst-of products only).
type FixedCouponRule struct {
	Rate float64
}

// ProductTerms is the full normalized term set for one product. Treat it as
// immutable after construction.
type ProductTerms struct {
	Structure        StructureType
	Underlyings      []Underlying
	ObservationDates []string
	ValuationDate    string
	Coupon           CouponRule
	Autocall         *AutocallRule
	KnockIn          KnockInRule
	FixedCoupon      *FixedCouponRule
	Denomination     float64
}
