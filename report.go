package golcrmeter

import (
	"fmt"
	"math"
	"strings"
)

// Report renders the Inputs/Outputs text block for one solved
// measurement, every numeric field in engineering notation at the given
// precision. Warnings are not part of the report; the caller surfaces
// them on its own diagnostic channel.
//
// Fields the solver could not keep finite (Q at Resr -> 0 and the branch
// values derived from it) render as "undefined" instead of failing the
// whole report. An exact zero (legal only for delta_t) renders as "0 ".
func Report(m Measurement, sc SolvedCircuit, digits int, numeric bool) (string, error) {
	eng := func(v float64) (string, error) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "undefined ", nil
		}
		if math.Abs(v) < minNormal {
			return "0 ", nil
		}
		return Format(v, digits, numeric)
	}

	var b strings.Builder
	line := func(label string, v float64, unit string) error {
		s, err := eng(v)
		if err != nil {
			return fmt.Errorf("report: %s: %w", label, err)
		}
		fmt.Fprintf(&b, "  %s: %s%s\n", label, s, unit)
		return nil
	}

	b.WriteString("Inputs:\n")
	inputs := []struct {
		label string
		value float64
		unit  string
	}{
		{"Rref", m.Rref, "Ohms"},
		{"freq", m.Freq, "Hz"},
		{"delta_t", m.DeltaT, "Sec"},
		{"V_in", m.Vin, "V"},
		{"V_dut", m.Vdut, "V"},
	}
	for _, in := range inputs {
		if err := line(in.label, in.value, in.unit); err != nil {
			return "", err
		}
	}

	b.WriteString("Outputs:\n")
	fmt.Fprintf(&b, "  theta: %f rad (%f deg)\n", sc.Theta, Degrees(sc.Theta))
	fmt.Fprintf(&b, "  phi: %f rad (%f deg)\n", sc.Phi, Degrees(sc.Phi))
	if err := line("Z", sc.Z, "Ohms"); err != nil {
		return "", err
	}
	if sc.Branch == Inductive {
		if err := line("Ls", sc.Ls, "H"); err != nil {
			return "", err
		}
		if err := line("Lp", sc.Lp, "H"); err != nil {
			return "", err
		}
	} else {
		if err := line("Cs", sc.Cs, "F"); err != nil {
			return "", err
		}
		if err := line("Cp", sc.Cp, "F"); err != nil {
			return "", err
		}
	}
	if err := line("Rs (Resr)", sc.Resr, "Ohms"); err != nil {
		return "", err
	}
	if err := line("Rp", sc.Rp, "Ohms"); err != nil {
		return "", err
	}
	if err := line("X", sc.X, "Ohms"); err != nil {
		return "", err
	}
	if math.IsNaN(sc.Q) || math.IsInf(sc.Q, 0) {
		b.WriteString("  Q: undefined\n")
	} else {
		fmt.Fprintf(&b, "  Q: %f\n", sc.Q)
	}

	return b.String(), nil
}
