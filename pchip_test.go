package abeles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCHIPInterpolatesKnots(t *testing.T) {
	xa := []float64{0, 1, 2, 3, 4}
	ya := []float64{0, 1, 4, 9, 16}
	p := NewPCHIP(xa, ya, true, false)

	y, err := p.Evaluate(xa, nil)
	require.NoError(t, err)
	for i := range ya {
		assert.InDelta(t, ya[i], y[i], 1e-9)
	}
}

func TestPCHIPMonotoneLimiterHoldsPlateau(t *testing.T) {
	// A flat segment between two knots must produce a zero derivative at
	// the shared knot, and the interpolant must not overshoot past the
	// plateau into a new extremum.
	xa := []float64{0, 1, 2, 3}
	ya := []float64{0, 1, 1, 2}
	p := NewPCHIP(xa, ya, true, false)

	d, err := p.EvaluateDerivative([]float64{1, 2}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, d[0], 1e-9)
	assert.InDelta(t, 0.0, d[1], 1e-9)

	samples := make([]float64, 0, 21)
	for i := 0; i <= 20; i++ {
		samples = append(samples, 1.0+float64(i)/20.0)
	}
	y, err := p.Evaluate(samples, nil)
	require.NoError(t, err)
	for _, v := range y {
		assert.GreaterOrEqual(t, v, 1.0-1e-9)
		assert.LessOrEqual(t, v, 1.0+1e-9)
	}
}

func TestPCHIPOutOfDomainWithoutExtrapolation(t *testing.T) {
	p := NewPCHIP([]float64{0, 1, 2}, []float64{0, 1, 4}, true, false)
	_, err := p.Evaluate([]float64{5}, nil)
	assert.ErrorIs(t, err, ErrOutOfDomain)
}

func TestPCHIPExtrapolationAllowed(t *testing.T) {
	p := NewPCHIP([]float64{0, 1, 2}, []float64{0, 1, 2}, true, true)
	y, err := p.Evaluate([]float64{5}, nil)
	require.NoError(t, err)
	assert.True(t, y[0] > 2.0)
}

func TestPCHIPInverseRoundTrips(t *testing.T) {
	xa := []float64{1, 2, 3, 4, 5}
	ya := []float64{1.5, 2.0, 4.5, 8.0, 12.5}
	p := NewPCHIP(xa, ya, true, false)

	for _, target := range []float64{2.0, 3.7, 6.0, 10.0} {
		x, err := p.EvaluateInverse([]float64{target}, nil)
		require.NoError(t, err)
		y, err := p.Evaluate(x, nil)
		require.NoError(t, err)
		assert.InDelta(t, target, y[0], 1e-6)
	}
}
