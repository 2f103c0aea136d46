package terms

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Single(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType: "single",
		Underlyings: []UnderlyingSpec{
			{Name: "S&P 500", Ticker: "SPX", InitialPrice: 4500},
		},
		Dates: DatesSpec{
			ObservationDates: []string{"2025-06-30", "2025-12-31"},
			ValuationDate:    "2024-12-31",
		},
		ConditionalCoupons: []CouponSpec{
			{Rate: "2.60%", BarrierLevel: "70%", MemoryFeature: true},
		},
		Autocall:       &AutocallSpec{BarrierLevel: "110%"},
		KnockIn:        &KnockInSpec{Type: "European", BarrierLevel: "70%"},
		ProductDetails: &ProductDetailsSpec{Denomination: 10_000},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)

	assert.Equal(t, StructureSingle, pt.Structure)
	require.Len(t, pt.Underlyings, 1)
	assert.InDelta(t, 4500.0, pt.Underlyings[0].InitialPrice, 1e-9)
	assert.Equal(t, []string{"2025-06-30", "2025-12-31"}, pt.ObservationDates)

	assert.InDelta(t, 0.026, pt.Coupon.Rate, 1e-12)
	assert.InDelta(t, 0.70, pt.Coupon.Barrier, 1e-12)
	assert.True(t, pt.Coupon.Memory)

	require.NotNil(t, pt.Autocall)
	assert.InDelta(t, 1.10, pt.Autocall.Barrier, 1e-12)

	assert.Equal(t, KnockInEuropean, pt.KnockIn.Style)
	assert.InDelta(t, 0.70, pt.KnockIn.Barrier, 1e-12)
	assert.Nil(t, pt.FixedCoupon)
	assert.InDelta(t, 10_000.0, pt.Denomination, 1e-9)
}

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType: "single",
		Underlyings:   []UnderlyingSpec{{Name: "DAX", InitialPrice: 18_000}},
		Dates:         DatesSpec{ObservationDates: []string{"2025-12-31"}},
		ConditionalCoupons: []CouponSpec{
			{Rate: 0.05},
		},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)

	assert.InDelta(t, DefaultDenomination, pt.Denomination, 1e-9)
	assert.Zero(t, pt.Coupon.Barrier)
	assert.Nil(t, pt.Autocall)
	assert.True(t, pt.KnockIn.Disabled())
	assert.Equal(t, KnockInEuropean, pt.KnockIn.Style)
}

func TestNormalize_WorstOfCouponSelection(t *testing.T) {
	t.Parallel()

	// Extraction often splits one coupon clause across chunks: the rate
	// formula and trigger condition land in one entry, the barrier in another.
	ts := &TermSheet{
		StructureType: "worst_of",
		Underlyings: []UnderlyingSpec{
			{Name: "NVIDIA Corp", InitialPrice: 118.08},
			{Name: "Intel Corp", InitialPrice: 19.92},
		},
		Dates: DatesSpec{ObservationDates: []string{"2025-01-31", "2025-02-28"}},
		ConditionalCoupons: []CouponSpec{
			{BarrierLevel: "50%"},
			{
				CalculationFormula: "0.3333% x t",
				TriggerCondition:   "worst performer at or above 50%",
				MemoryFeature:      true,
			},
		},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)

	assert.InDelta(t, 0.003333, pt.Coupon.Rate, 1e-12)
	assert.InDelta(t, 0.50, pt.Coupon.Barrier, 1e-12)
	assert.True(t, pt.Coupon.Memory)
}

func TestNormalize_SingleReadsFirstCouponOnly(t *testing.T) {
	t.Parallel()

	// Single-asset sheets take the barrier from the first coupon entry; a
	// barrier in a later chunk is ignored rather than scanned for.
	ts := &TermSheet{
		StructureType: "single",
		Underlyings:   []UnderlyingSpec{{Name: "SPX", InitialPrice: 100}},
		Dates:         DatesSpec{ObservationDates: []string{"2025-12-31"}},
		ConditionalCoupons: []CouponSpec{
			{Rate: "5.0%"},
			{BarrierLevel: "70%"},
		},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)
	assert.InDelta(t, 0.05, pt.Coupon.Rate, 1e-12)
	assert.Zero(t, pt.Coupon.Barrier)
}

func TestNormalize_WorstOfBarrierDefaults(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType: "worst_of",
		Underlyings: []UnderlyingSpec{
			{Name: "AMD", InitialPrice: 140.75},
			{Name: "Intel", InitialPrice: 19.92},
		},
		Dates: DatesSpec{ObservationDates: []string{"2025-01-31"}},
		ConditionalCoupons: []CouponSpec{
			{CalculationFormula: "monthly coupon"},
		},
		KnockIn: &KnockInSpec{Type: "American"},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)

	// No parseable rate and no barriers anywhere: the worst-of defaults kick
	// in rather than failing the whole sheet.
	assert.Zero(t, pt.Coupon.Rate)
	assert.InDelta(t, 0.50, pt.Coupon.Barrier, 1e-12)
	assert.InDelta(t, 0.50, pt.KnockIn.Barrier, 1e-12)
	assert.Equal(t, KnockInAmerican, pt.KnockIn.Style)
}

func TestNormalize_KnockInFromBarrierPrices(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType: "worst_of",
		Underlyings: []UnderlyingSpec{
			{Name: "AMD Inc", InitialPrice: 140.75},
			{Name: "Intel Corp", InitialPrice: 19.92},
		},
		Dates: DatesSpec{ObservationDates: []string{"2025-01-31"}},
		ConditionalCoupons: []CouponSpec{
			{Rate: "1.0%", BarrierLevel: "50%"},
		},
		KnockIn: &KnockInSpec{
			Type: "American",
			BarrierPrices: []BarrierPriceSpec{
				{Underlying: "intel", KnockInPrice: 9.96},
			},
		},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)

	// 9.96 against Intel's 19.92 initial, matched case-insensitively.
	assert.InDelta(t, 0.50, pt.KnockIn.Barrier, 1e-9)
	assert.Equal(t, KnockInAmerican, pt.KnockIn.Style)
}

func TestNormalize_KnockInBarrierPriceFallsBackToFirstUnderlying(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType: "worst_of",
		Underlyings: []UnderlyingSpec{
			{Name: "AMD", InitialPrice: 200},
			{Name: "Intel", InitialPrice: 20},
		},
		Dates:              DatesSpec{ObservationDates: []string{"2025-01-31"}},
		ConditionalCoupons: []CouponSpec{{Rate: "1.0%"}},
		KnockIn: &KnockInSpec{
			BarrierPrices: []BarrierPriceSpec{
				{Underlying: "unrecognized name", BarrierPrice: 120},
			},
		},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)
	assert.InDelta(t, 0.60, pt.KnockIn.Barrier, 1e-9)
}

func TestNormalize_FixedCoupon(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType: "worst_of",
		Underlyings: []UnderlyingSpec{
			{Name: "A", InitialPrice: 100},
			{Name: "B", InitialPrice: 100},
		},
		Dates:              DatesSpec{ObservationDates: []string{"2025-01-31"}},
		ConditionalCoupons: []CouponSpec{{Rate: "1.0%"}},
		FixedCoupon:        &FixedCouponSpec{Rate: "19.0%"},
	}

	pt, err := ts.Normalize()
	require.NoError(t, err)
	require.NotNil(t, pt.FixedCoupon)
	assert.InDelta(t, 0.19, pt.FixedCoupon.Rate, 1e-12)
}

func TestNormalize_MissingSections(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType:      "single",
		Underlyings:        []UnderlyingSpec{{Name: "SPX", InitialPrice: 100}},
		ConditionalCoupons: []CouponSpec{{Rate: 0.05}},
	}
	_, err := ts.Normalize()
	assert.ErrorIs(t, err, ErrMissingParameter)

	ts = &TermSheet{
		StructureType: "single",
		Underlyings:   []UnderlyingSpec{{Name: "SPX", InitialPrice: 100}},
		Dates:         DatesSpec{ObservationDates: []string{"2025-12-31"}},
	}
	_, err = ts.Normalize()
	assert.ErrorIs(t, err, ErrMissingParameter)
}

func TestNormalize_BadRate(t *testing.T) {
	t.Parallel()

	ts := &TermSheet{
		StructureType:      "single",
		Underlyings:        []UnderlyingSpec{{Name: "SPX", InitialPrice: 100}},
		Dates:              DatesSpec{ObservationDates: []string{"2025-12-31"}},
		ConditionalCoupons: []CouponSpec{{Rate: "see appendix"}},
	}
	_, err := ts.Normalize()
	assert.ErrorIs(t, err, ErrParameter)
}

func TestLoadTermSheet_YAML(t *testing.T) {
	t.Parallel()

	doc := `
structure_type: single
underlyings:
  - name: EURO STOXX 50
    ticker: SX5E
    initial_price: 4900.0
dates:
  observation_dates: ["2025-06-30", "2025-12-31"]
conditional_coupons:
  - rate: "2.60%"
    barrier_level: "70%"
    memory_feature: true
autocall:
  barrier_level: "100%"
knock_in:
  type: European
  barrier_level: "60%"
`
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ts, err := LoadTermSheet(path)
	require.NoError(t, err)

	pt, err := ts.Normalize()
	require.NoError(t, err)
	assert.InDelta(t, 0.026, pt.Coupon.Rate, 1e-12)
	assert.InDelta(t, 0.60, pt.KnockIn.Barrier, 1e-12)
	require.NotNil(t, pt.Autocall)
	assert.InDelta(t, 1.0, pt.Autocall.Barrier, 1e-12)
}

func TestLoadTermSheet_JSON(t *testing.T) {
	t.Parallel()

	doc := `{
  "structure_type": "worst_of",
  "underlyings": [
    {"name": "NVIDIA", "initial_price": 118.08},
    {"name": "Intel", "initial_price": 19.92}
  ],
  "dates": {"observation_dates": ["2025-01-31", "2025-02-28"]},
  "conditional_coupons": [
    {"calculation_formula": "0.3333% x t", "trigger_condition": "worst >= 50%", "barrier_level": "50%"}
  ],
  "fixed_coupon": {"rate": "19.0%"}
}`
	path := filepath.Join(t.TempDir(), "sheet.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	ts, err := LoadTermSheet(path)
	require.NoError(t, err)

	pt, err := ts.Normalize()
	require.NoError(t, err)
	assert.Equal(t, StructureWorstOf, pt.Structure)
	assert.InDelta(t, 0.003333, pt.Coupon.Rate, 1e-12)
	require.NotNil(t, pt.FixedCoupon)
	assert.InDelta(t, 0.19, pt.FixedCoupon.Rate, 1e-12)
}

func TestLoadTermSheet_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadTermSheet(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
