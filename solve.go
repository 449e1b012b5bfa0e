package golcrmeter

import (
	"fmt"
	"math"
)

// phaseEps keeps the clamped phase strictly inside (-pi/2, pi/2) so the
// later division by cos(phi) stays defined. Small enough to never move a
// displayed digit.
const phaseEps = 1e-15

// Measurement is one oscilloscope reading of the series Rref/DUT divider:
// the reference resistor value, the test frequency, the time between
// rising zero crossings of Vdut and Vin (negative for capacitors,
// positive for inductors), and the two amplitudes. Peak-to-peak
// amplitudes are fine, only the ratio matters.
type Measurement struct {
	Rref   float64 // Ohms
	Freq   float64 // Hz
	DeltaT float64 // seconds, sign carries the lead/lag direction
	Vin    float64 // Volts
	Vdut   float64 // Volts
}

// Validate checks the measurement against the solver's domain: Rref,
// Freq, Vin and Vdut must be positive and finite, DeltaT finite (zero is
// legal and lands on the capacitive branch).
func (m Measurement) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("measurement: %s is not finite: %v", name, v)
		}
		if v <= 0 {
			return fmt.Errorf("measurement: %s must be positive, got %v", name, v)
		}
		return nil
	}
	if err := check("rref", m.Rref); err != nil {
		return err
	}
	if err := check("freq", m.Freq); err != nil {
		return err
	}
	if err := check("v_in", m.Vin); err != nil {
		return err
	}
	if err := check("v_dut", m.Vdut); err != nil {
		return err
	}
	if math.IsNaN(m.DeltaT) || math.IsInf(m.DeltaT, 0) {
		return fmt.Errorf("measurement: delta_t is not finite: %v", m.DeltaT)
	}
	return nil
}

// Branch tags which equivalent-circuit pair of a SolvedCircuit is valid.
type Branch int

const (
	Inductive Branch = iota
	Capacitive
)

func (b Branch) String() string {
	if b == Inductive {
		return "inductive"
	}
	return "capacitive"
}

// SolvedCircuit is the equivalent-circuit decomposition of one
// measurement. Every intermediate survives because the report prints all
// of them. Ls/Lp are valid when Branch is Inductive, Cs/Cp when
// Capacitive; the other pair is zero.
type SolvedCircuit struct {
	Theta  float64 // drive phase over DeltaT, rad
	Phi    float64 // DUT phase relative to drive, rad, clamped to (-pi/2, pi/2)
	Z      float64 // impedance magnitude, Ohms
	Resr   float64 // equivalent series resistance, Ohms
	X      float64 // reactance, Ohms, signed
	Q      float64 // |X|/Resr
	Rp     float64 // equivalent parallel resistance, Ohms
	Branch Branch
	Ls, Lp float64 // Henries
	Cs, Cp float64 // Farads
}

// PhaseWarning reports a physically impossible phase that was clamped
// back into (-pi/2, pi/2). Excess is how far past the limit the raw phi
// landed, in radians; it is positive on both sides.
type PhaseWarning struct {
	Limit  float64 // +pi/2 or -pi/2
	Excess float64 // radians beyond the limit
}

func (w *PhaseWarning) String() string {
	if w.Limit < 0 {
		return fmt.Sprintf("phi < -pi/2 by %e rad, clamped to -pi/2", w.Excess)
	}
	return fmt.Sprintf("phi > pi/2 by %e rad, clamped to pi/2", w.Excess)
}

// Solve turns a measurement into its equivalent circuit. It never fails:
// a phase outside the passive single-element range is clamped and
// reported through the returned warning (nil when the phase was valid),
// and numeric degeneracy (Resr -> 0 driving Q to infinity) propagates as
// Inf/NaN fields for the caller to detect before display.
//
// Phi is recovered by inverting the phasor sum of Vin and Vdut separated
// by theta, with the DUT phasor trailing. Z comes from the law of
// cosines on the Vin/Vdut/Rref phasor triangle.
func Solve(m Measurement) (SolvedCircuit, *PhaseWarning) {
	theta := 2 * math.Pi * m.Freq * m.DeltaT
	phi := theta - math.Atan2(-m.Vdut*math.Sin(theta), m.Vin-m.Vdut*math.Cos(theta))

	// Measurement noise easily produces impossible angles when Resr is
	// small. Clamp and carry on with a best-effort estimate.
	var warn *PhaseWarning
	if phi < -math.Pi/2 {
		warn = &PhaseWarning{Limit: -math.Pi / 2, Excess: -(phi + math.Pi/2)}
		phi = -math.Pi/2 + phaseEps
	}
	if phi > math.Pi/2 {
		warn = &PhaseWarning{Limit: math.Pi / 2, Excess: phi - math.Pi/2}
		phi = math.Pi/2 - phaseEps
	}

	z := m.Vdut * m.Rref / math.Sqrt(m.Vin*m.Vin-2*m.Vin*m.Vdut*math.Cos(theta)+m.Vdut*m.Vdut)

	sc := SolvedCircuit{
		Theta: theta,
		Phi:   phi,
		Z:     z,
		Resr:  z * math.Cos(phi),
		X:     z * math.Sin(phi),
	}
	sc.Q = math.Abs(sc.X) / sc.Resr
	sc.Rp = sc.Resr * (1 + sc.Q*sc.Q)

	w := 2 * math.Pi * m.Freq
	if phi > 0 {
		sc.Branch = Inductive
		sc.Ls = sc.X / w
		sc.Lp = sc.Ls * (1 + 1/(sc.Q*sc.Q))
	} else {
		sc.Branch = Capacitive
		sc.Cs = -1 / (w * sc.X)
		sc.Cp = sc.Cs / (1 + 1/(sc.Q*sc.Q))
	}
	return sc, warn
}

// Degrees converts radians for display alongside the radian value.
func Degrees(rad float64) float64 {
	return rad * 360.0 / (2 * math.Pi)
}
