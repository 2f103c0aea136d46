package terms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       any
		expected float64
	}{
		{name: "percent_string", in: "2.60%", expected: 0.026},
		{name: "percent_string_spaces", in: " 70% ", expected: 0.70},
		{name: "plain_string_treated_as_percent", in: "2.60", expected: 0.026},
		{name: "float_verbatim", in: 0.026, expected: 0.026},
		{name: "int_verbatim", in: 1, expected: 1.0},
		{name: "zero_percent", in: "0%", expected: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRate(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestParseRate_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []any{"garbled", "", nil, []string{"70%"}} {
		_, err := ParseRate(in)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrParameter)
	}
}

func TestParseMonthlyRate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       any
		expected float64
	}{
		{name: "formula", in: "0.3333% x t", expected: 0.003333},
		{name: "bare_percent", in: "0.3333%", expected: 0.003333},
		{name: "float_verbatim", in: 0.0033, expected: 0.0033},
		{name: "prose_around_token", in: "monthly 1.25% per period", expected: 0.0125},
		// The lenient fallback: no numeric token before % means zero, not an
		// error.
		{name: "no_token", in: "monthly coupon", expected: 0},
		{name: "empty", in: "", expected: 0},
		{name: "nil", in: nil, expected: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.expected, ParseMonthlyRate(tt.in), 1e-12)
		})
	}
}

func TestParseBarrier(t *testing.T) {
	t.Parallel()

	got, err := ParseBarrier("70%")
	require.NoError(t, err)
	assert.InDelta(t, 0.70, got, 1e-12)

	got, err = ParseBarrier(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-12)

	_, err = ParseBarrier("n/a")
	assert.ErrorIs(t, err, ErrParameter)
}
