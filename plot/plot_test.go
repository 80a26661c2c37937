package plot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bob-anderson-ok/abeles"
)

func bareGlassStack(t *testing.T) *abeles.Stack {
	t.Helper()
	s := &abeles.Stack{
		Wvls:      abeles.NewWvlsByRange(21, 400, 20),
		Incident:  &abeles.Constant{NValue: complex(1.0, 0)},
		Substrate: &abeles.Constant{NValue: complex(1.52, 0)},
		AngleDeg:  0,
	}
	require.NoError(t, s.Prepare())
	return s
}

func TestStepTicksLaysOutEvenMultiples(t *testing.T) {
	ticks := StepTicks{Step: 0.5, Format: "%.1f"}.Ticks(0.2, 1.8)
	require.NotEmpty(t, ticks)
	for _, tk := range ticks {
		n := tk.Value / 0.5
		assert.InDelta(t, math.Round(n), n, 1e-9)
	}
	assert.Equal(t, 0.5, ticks[0].Value)
}

func TestSpectrumRendersNonEmptyImage(t *testing.T) {
	s := bareGlassStack(t)
	sp := s.Spectrum(abeles.PolMixed)

	img, err := Spectrum(sp, s.Wvls, 400, 200)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestPhaseAndCircleRenderWithoutError(t *testing.T) {
	s := bareGlassStack(t)

	ph := s.Phase(abeles.PolMixed)
	_, err := Phase(ph, s.Wvls, 300, 150)
	require.NoError(t, err)

	c := s.Circle(abeles.PolMixed)
	_, err = Circle(c, s.Wvls, 300, 300)
	require.NoError(t, err)

	pd := s.PsiAndDelta()
	_, err = PsiAndDelta(pd, s.Wvls, 300, 150)
	require.NoError(t, err)

	gd := s.GroupDelay(abeles.PolMixed)
	_, err = GroupDelay(gd, s.Wvls, 300, 150)
	require.NoError(t, err)
}
