package golcrmeter_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lcr "github.com/kacperjurak/golcrmeter"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name    string
		value   float64
		digits  int
		numeric bool
		want    string
	}{
		{"unit range keeps empty prefix", 327.8, 4, false, "327.8 "},
		{"kilo", 1000, 4, false, "1.000 k"},
		{"decade carry renormalizes", 999.96, 4, false, "1.000 k"},
		{"milli", 0.17827, 4, false, "178.3 m"},
		{"micro", 217e-6, 4, false, "217.0 u"},
		{"rounds half up", 0.0012345, 4, false, "1.235 m"},
		{"single integer digit", 8.81, 4, false, "8.810 "},
		{"two integer digits shrink fraction", 35.73, 4, false, "35.73 "},
		{"rounds to display precision", 5.271741, 4, false, "5.272 "},
		{"yotta at table edge", 2e24, 4, false, "2.000 Y"},
		{"beyond table falls back to exponent", 2e27, 4, false, "2.000e27"},
		{"beyond table on the small side", 1e-27, 4, false, "1.000e-27"},
		{"numeric mode", 6.659, 4, true, "6.659e0"},
		{"numeric mode negative exponent", 217e-6, 4, true, "217.0e-6"},
		{"negative value", -6.543, 4, false, "-6.543 "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lcr.Format(tc.value, tc.digits, tc.numeric)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatRejectsBadValues(t *testing.T) {
	for _, v := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := lcr.Format(v, 4, false)
		require.ErrorIs(t, err, lcr.ErrBadValue, "value %v", v)
	}
	// Subnormals overflow the precision rescale, so they violate the
	// contract the same way zero does.
	for _, v := range []float64{5e-320, -5e-320, math.SmallestNonzeroFloat64} {
		_, err := lcr.Format(v, 4, false)
		require.ErrorIs(t, err, lcr.ErrBadValue, "value %v", v)
	}
	_, err := lcr.Format(1.0, 0, false)
	require.ErrorIs(t, err, lcr.ErrBadDigits)
}

// Formatting a value that already carries exactly the requested digits
// must reproduce those digits unchanged.
func TestFormatRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		value float64
		want  string
	}{
		{123.4, "123.4 "},
		{1.234, "1.234 "},
		{12.34, "12.34 "},
		{9.999, "9.999 "},
	} {
		got, err := lcr.Format(tc.value, 4, false)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestFormatSignSymmetry(t *testing.T) {
	for _, v := range []float64{327.8, 6.543e-3, 999.96, 2e24, 1e-27} {
		pos, err := lcr.Format(v, 4, false)
		require.NoError(t, err)
		neg, err := lcr.Format(-v, 4, false)
		require.NoError(t, err)
		assert.Equal(t, "-"+pos, neg)
	}
}
