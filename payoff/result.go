// Package payoff evaluates Phoenix autocallable notes over realized or
// simulated price paths. Engines are built once from normalized terms and are
// pure functions of (terms, path) thereafter: no locking is needed to share
// one engine across goroutines.
package payoff

// CouponPayment records one conditional coupon payout. Amount includes any
// previously accrued coupons recovered by the memory feature. Performance is
// the worst performance for worst-of products.
type CouponPayment struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Performance float64 `json:"performance"`
}

// Result is the full event trace of one path evaluation.
//
// TotalValue == TotalCoupons + FinalPayoff always holds. AccruedUnpaid is
// zero whenever the note autocalled, since the accrued balance is flushed
// into the coupons on early redemption.
type Result struct {
	TotalCoupons       float64         `json:"total_coupons"`
	FinalPayoff        float64         `json:"final_payoff"`
	TotalValue         float64         `json:"total_value"`
	FixedCoupon        float64         `json:"fixed_coupon,omitempty"`
	ConditionalCoupons float64         `json:"conditional_coupons"`
	AutocallTriggered  bool            `json:"autocall_triggered"`
	AutocallDate       string          `json:"autocall_date,omitempty"`
	KnockInEvent       bool            `json:"knock_in_event"`
	CouponPayments     []CouponPayment `json:"coupon_payments"`
	AccruedUnpaid      float64         `json:"accrued_unpaid"`
}

// NumCouponPayments is the count of conditional coupon payouts on this path.
func (r *Result) NumCouponPayments() int { return len(r.CouponPayments) }
