package processing

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/kacperjurak/golcrmeter"
	"github.com/kacperjurak/golcrmeter/pkg/config"
	"github.com/kacperjurak/golcrmeter/pkg/models"
)

// Processor validates measurement requests, runs the solver and
// assembles the display payload.
type Processor struct {
	cfg *config.Config
}

// NewProcessor creates a processor bound to the given solver settings.
func NewProcessor(cfg *config.Config) *Processor {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Processor{cfg: cfg}
}

// Process solves one measurement request. A validation failure is an
// error; a clamped phase or a degenerate result is not, it is carried
// inside the payload for the caller to surface.
func (p *Processor) Process(req models.MeasurementRequest) (models.SolvedPayload, error) {
	m := req.Measurement()
	if m.Rref == 0 {
		m.Rref = p.cfg.Rref
	}
	if err := m.Validate(); err != nil {
		return models.SolvedPayload{}, err
	}

	start := time.Now()
	sc, warn := golcrmeter.Solve(m)

	payload := p.buildPayload(sc, warn)

	if !p.cfg.Quiet {
		log.Printf("Solved measurement - freq: %v Hz, kind: %s, Z: %v Ohms, Q: %v (%v)",
			m.Freq, sc.Branch, sc.Z, sc.Q, time.Since(start))
	}
	return payload, nil
}

// buildPayload flattens a solved circuit into the wire payload:
// degenerate (non-finite) numbers are zeroed so the payload stays JSON
// encodable, noted in the warning string and left out of the display map.
func (p *Processor) buildPayload(sc golcrmeter.SolvedCircuit, warn *golcrmeter.PhaseWarning) models.SolvedPayload {
	var notes []string
	if warn != nil {
		notes = append(notes, warn.String())
	}

	sanitize := func(name string, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			notes = append(notes, fmt.Sprintf("%s is undefined for this measurement", name))
			return 0
		}
		return v
	}

	payload := models.SolvedPayload{
		Theta:    sanitize("theta", sc.Theta),
		ThetaDeg: sanitize("theta_deg", golcrmeter.Degrees(sc.Theta)),
		Phi:      sanitize("phi", sc.Phi),
		PhiDeg:   sanitize("phi_deg", golcrmeter.Degrees(sc.Phi)),
		Z:        sanitize("z", sc.Z),
		Resr:     sanitize("resr", sc.Resr),
		Rp:       sanitize("rp", sc.Rp),
		X:        sanitize("x", sc.X),
		Q:        sanitize("q", sc.Q),
		Kind:     sc.Branch.String(),
		Display:  map[string]string{},
	}
	if sc.Branch == golcrmeter.Inductive {
		payload.Ls = sanitize("ls", sc.Ls)
		payload.Lp = sanitize("lp", sc.Lp)
	} else {
		payload.Cs = sanitize("cs", sc.Cs)
		payload.Cp = sanitize("cp", sc.Cp)
	}
	payload.Warning = strings.Join(notes, "; ")

	display := map[string]float64{
		"z":    sc.Z,
		"resr": sc.Resr,
		"rp":   sc.Rp,
		"x":    sc.X,
	}
	if sc.Branch == golcrmeter.Inductive {
		display["ls"] = sc.Ls
		display["lp"] = sc.Lp
	} else {
		display["cs"] = sc.Cs
		display["cp"] = sc.Cp
	}
	for name, v := range display {
		s, err := golcrmeter.Format(v, p.cfg.Digits, p.cfg.Numeric)
		if err != nil {
			continue
		}
		payload.Display[name] = s
	}
	return payload
}

// ProcessorFunc adapts the processor to the worker pool signature.
func (p *Processor) ProcessorFunc() func(req models.MeasurementRequest) (models.SolvedPayload, error) {
	return p.Process
}
