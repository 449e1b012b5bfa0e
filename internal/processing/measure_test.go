package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/kacperjurak/golcrmeter/pkg/config"
	"github.com/kacperjurak/golcrmeter/pkg/models"
)

func quietConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Quiet = true
	return cfg
}

func TestProcessInductor(t *testing.T) {
	p := NewProcessor(quietConfig())

	payload, err := p.Process(models.MeasurementRequest{
		Rref: 327.8, Freq: 1000, DeltaT: 217e-6, Vin: 8.81, Vdut: 0.17827,
	})
	require.NoError(t, err)

	assert.Equal(t, "inductive", payload.Kind)
	assert.True(t, scalar.EqualWithinAbs(payload.Q, 5.271741, 1e-5))
	assert.True(t, scalar.EqualWithinAbs(payload.ThetaDeg, 78.12, 1e-6))
	assert.Equal(t, "6.659 ", payload.Display["z"])
	assert.Equal(t, "1.041 m", payload.Display["ls"])
	assert.Equal(t, "1.079 m", payload.Display["lp"])
	assert.NotContains(t, payload.Display, "cs")
	assert.Empty(t, payload.Warning)
	assert.Zero(t, payload.Cs)
}

func TestProcessRejectsInvalidRequest(t *testing.T) {
	p := NewProcessor(quietConfig())

	_, err := p.Process(models.MeasurementRequest{
		Rref: 1000, Freq: -1, DeltaT: 0, Vin: 5, Vdut: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "freq")
}

func TestProcessFillsDefaultRref(t *testing.T) {
	cfg := quietConfig()
	cfg.Rref = 327.8
	p := NewProcessor(cfg)

	payload, err := p.Process(models.MeasurementRequest{
		Freq: 1000, DeltaT: 217e-6, Vin: 8.81, Vdut: 0.17827,
	})
	require.NoError(t, err)
	assert.True(t, scalar.EqualWithinAbs(payload.Q, 5.271741, 1e-5))
}

func TestProcessCarriesClampWarning(t *testing.T) {
	p := NewProcessor(quietConfig())

	payload, err := p.Process(models.MeasurementRequest{
		Rref: 1000, Freq: 1000, DeltaT: 0.0002659154943091896, Vin: 10, Vdut: 0.01,
	})
	require.NoError(t, err)
	assert.Contains(t, payload.Warning, "clamped to pi/2")
	assert.Equal(t, "inductive", payload.Kind)
}

// delta_t of zero lands on the capacitive branch with undefined Cs/Cp;
// the payload must stay JSON encodable and name the dropped fields.
func TestProcessSanitizesDegenerateFields(t *testing.T) {
	p := NewProcessor(quietConfig())

	payload, err := p.Process(models.MeasurementRequest{
		Rref: 1000, Freq: 1000, DeltaT: 0, Vin: 5, Vdut: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "capacitive", payload.Kind)
	assert.Zero(t, payload.Cs)
	assert.Zero(t, payload.Cp)
	assert.Contains(t, payload.Warning, "cs is undefined")
	assert.NotContains(t, payload.Display, "cs")
	assert.Contains(t, payload.Display, "z")
}
