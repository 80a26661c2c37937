package abeles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstantMixtureInterpolatesAndInverts(t *testing.T) {
	wvls := NewWvlsByRange(3, 400, 100)
	n := NewNMixture(wvls)
	m := NewConstantMixture([]float64{0, 0.5, 1.0}, []float64{1.38, 1.46, 1.54}, []float64{0, 0, 0})

	require.NoError(t, m.SetN(n, 0.5))
	for i := 0; i < n.wvls.Len(); i++ {
		assert.InDelta(t, 1.46, real(n.N[i]), 1e-9)
	}

	x, err := m.XOfN(0, 1.46)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, x, 1e-6)
}

func TestTableMixtureRotatesCenterCache(t *testing.T) {
	mixWvls := []float64{400, 500, 600}
	m := NewTableMixture(
		[]float64{0, 1},
		mixWvls,
		[][]float64{{1.40, 1.42, 1.44}, {1.60, 1.62, 1.64}},
		[][]float64{{0, 0, 0}, {0, 0, 0}},
	)

	wvls := NewWvlsByRange(1, 500, 0)
	n := NewNMixture(wvls)

	require.NoError(t, m.SetN(n, 0.0))
	assert.InDelta(t, 1.42, real(n.N[0]), 1e-9)

	require.NoError(t, m.SetN(n, 1.0))
	assert.InDelta(t, 1.62, real(n.N[0]), 1e-9)

	x, err := m.XOfN(500, 1.52)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, x, 1e-6)

	other := NewNMixture(NewWvlsByRange(1, 400, 0))
	require.NoError(t, m.SetN(other, 0.0))
	assert.InDelta(t, 1.40, real(other.N[0]), 1e-9)
	assert.Equal(t, 400.0, m.centerWvl)
	assert.Equal(t, 500.0, m.otherWvl)

	require.NoError(t, m.SetN(n, 1.0))
	assert.InDelta(t, 1.62, real(n.N[0]), 1e-9)
	assert.Equal(t, 500.0, m.centerWvl)
	assert.Equal(t, 400.0, m.otherWvl)
}

func TestCauchyMixtureSetNMatchesInterpolatedCoefficients(t *testing.T) {
	cm := NewCauchyMixture(
		[]float64{0, 1},
		[]float64{1.45, 1.50}, []float64{2000, 4000}, []float64{0, 0},
		[]float64{0, 0}, []float64{0, 0}, []float64{300, 300},
	)
	wvls := NewWvlsByRange(1, 500, 0)
	n := NewNMixture(wvls)
	require.NoError(t, cm.SetN(n, 0.5))

	expectedA := 0.5 * (1.45 + 1.50)
	expectedB := 0.5 * (2000 + 4000)
	wmu := 500.0 / 1000.0
	expected := expectedA + expectedB/(wmu*wmu)
	assert.InDelta(t, expected, real(n.N[0]), 1e-6)

	_, err := cm.XOfN(500, 1.48)
	assert.ErrorIs(t, err, ErrOutOfDomain)
}
