package golcrmeter

import (
	"errors"
	"fmt"
	"math"
)

// Formatter contract errors. ErrBadValue means the caller passed a value
// engineering notation cannot express (zero, subnormal, NaN or an
// infinity); that is a caller bug, not a measurement anomaly.
var (
	ErrBadValue  = errors.New("eng: value must be normal and nonzero")
	ErrBadDigits = errors.New("eng: digits must be at least 1")
)

// minNormal is the smallest positive normal float64. Subnormals are
// rejected: rescaling them to the display precision overflows.
const minNormal = 0x1p-1022

// SI magnitude prefixes by exponent group, yocto through yotta. Exponents
// outside the table fall back to exponential form.
var siPrefixes = map[int]string{
	-24: "y",
	-21: "z",
	-18: "a",
	-15: "f",
	-12: "p",
	-9:  "n",
	-6:  "u",
	-3:  "m",
	0:   "",
	3:   "k",
	6:   "M",
	9:   "G",
	12:  "T",
	15:  "P",
	18:  "E",
	21:  "Z",
	24:  "Y",
}

// Format renders value in engineering notation with the given number of
// significant digits. With numeric set the result uses a signed exponent
// ("6.659e0"), otherwise an SI prefix separated by a space ("6.659 ")
// where the prefix for 10^0 is the empty string.
//
// The value is rounded to digits significant figures before the exponent
// group is chosen, so a mantissa that rounds up across a decade boundary
// is renormalized into [1, 1000) and the group bumped. Rounding is
// half-up on the fractional remainder, not half-to-even; halfway values
// round away from zero.
func Format(value float64, digits int, numeric bool) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("%w, got %d", ErrBadDigits, digits)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) < minNormal {
		return "", fmt.Errorf("%w, got %v", ErrBadValue, value)
	}

	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	// Round to digits significant figures: scale so the value carries
	// exactly digits integer digits, round, scale back. Doing this before
	// any string formatting avoids double rounding.
	expof10 := int(math.Floor(math.Log10(value)))
	value *= math.Pow(10, float64(digits-1-expof10))

	display, fract := math.Modf(value)
	if fract >= 0.5 {
		display += 1.0
	}
	value = display * math.Pow(10, float64(expof10-digits+1))

	// Snap the exponent to its SI group (multiple of 3, toward -inf).
	if expof10 > 0 {
		expof10 = (expof10 / 3) * 3
	} else {
		expof10 = ((-expof10 + 3) / 3) * (-3)
	}

	value *= math.Pow(10, float64(-expof10))
	switch {
	case value >= 1000.0:
		// Rounding carried across a decade boundary (999.95 -> 1000).
		value /= 1000.0
		expof10 += 3
	case value >= 100.0:
		digits -= 2
	case value >= 10.0:
		digits -= 1
	}

	prefix, ok := siPrefixes[expof10]
	if numeric || !ok {
		return fmt.Sprintf("%s%.*fe%d", sign, digits-1, value, expof10), nil
	}
	return fmt.Sprintf("%s%.*f %s", sign, digits-1, value, prefix), nil
}
