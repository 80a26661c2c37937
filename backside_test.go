package abeles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBacksideStackMatchesPlaneParallelPlateFormula checks the
// incoherent-substrate correction on a bare (uncoated) glass plate in
// air against the classical plane-parallel-plate multiple-reflection
// series, R = R1 + T1^2*R2/(1-R1*R2), valid when the substrate is
// non-absorbing so the attenuation factor is exactly 1.
func TestBacksideStackMatchesPlaneParallelPlateFormula(t *testing.T) {
	front := buildStack(t, complex(1.0, 0), complex(1.52, 0), nil, 0.0, 550, 550, 1)

	b := &BacksideStack{Front: front, SubstrateThickness: 1_000_000, Exit: &Constant{NValue: complex(1.0, 0)}}
	sp, err := b.Spectrum(PolMixed)
	require.NoError(t, err)

	n := 1.52
	r1 := math.Pow((1.0-n)/(1.0+n), 2)
	t1 := 1.0 - r1
	expectedR := r1 + t1*t1*r1/(1.0-r1*r1)
	expectedT := t1 * t1 / (1.0 - r1*r1)

	assert.InDelta(t, expectedR, sp.R[0], 1e-6)
	assert.InDelta(t, expectedT, sp.T[0], 1e-6)
	assert.InDelta(t, 1.0, sp.R[0]+sp.T[0], 1e-9)
}

// TestBacksideStackAttenuatesThroughAbsorbingSubstrate checks that, with
// an absorbing substrate (Im(N) < 0, this engine's absorbing-medium
// convention), the round-trip attenuation factor actually decays with
// thickness: a substrate many absorption lengths thick must leave only
// the bare front-surface reflectance (no contribution from the far
// surface reaches back) and transmit essentially nothing. A sign error
// in the attenuation exponent would instead grow without bound.
func TestBacksideStackAttenuatesThroughAbsorbingSubstrate(t *testing.T) {
	front := buildStack(t, complex(1.0, 0), complex(1.52, -0.0008), nil, 0.0, 550, 550, 1)
	frontOnly := front.Spectrum(PolMixed)

	b := &BacksideStack{Front: front, SubstrateThickness: 2_000_000, Exit: &Constant{NValue: complex(1.0, 0)}}
	sp, err := b.Spectrum(PolMixed)
	require.NoError(t, err)

	assert.InDelta(t, frontOnly.R[0], sp.R[0], 1e-6)
	assert.InDelta(t, 0.0, sp.T[0], 1e-6)
	assert.InDelta(t, 1.0, sp.R[0]+sp.T[0]+sp.A[0], 1e-9)
	assert.Greater(t, sp.A[0], frontOnly.A[0])
}

// TestBacksidePsiAndDeltaMatchesFrontWhenExitIndexMatchesSubstrate checks
// that, when the exit medium exactly matches the substrate index (so the
// rear surface has zero reflectance and contributes no internal
// reflection term regardless of thickness), the Yang (1995) backside
// Psi/Delta formula reduces exactly to the front-only ellipsometric
// angles: Psi is unambiguous, and Delta is compared via its cosine since
// the backside formula's acos only recovers |Delta| (it cannot
// distinguish a phase difference from its negative).
func TestBacksidePsiAndDeltaMatchesFrontWhenExitIndexMatchesSubstrate(t *testing.T) {
	ni, ns := 1.0, 1.52
	angle := 60.0

	front := buildStack(t, complex(ni, 0), complex(ns, -0.02), nil, angle, 633, 633, 1)
	frontPD := front.PsiAndDelta()

	b := &BacksideStack{Front: front, SubstrateThickness: 500_000, Exit: &Constant{NValue: complex(ns, -0.02)}}
	pd, err := b.PsiAndDelta()
	require.NoError(t, err)

	assert.InDelta(t, frontPD.Psi[0], pd.Psi[0], 1e-6)

	frontDeltaRad := frontPD.Delta[0] * math.Pi / 180.0
	backDeltaRad := pd.Delta[0] * math.Pi / 180.0
	assert.InDelta(t, math.Cos(frontDeltaRad), math.Cos(backDeltaRad), 1e-6)
}

// TestBacksidePsiAndDeltaDegenerateCaseAt45And180 checks the fallback
// reported when both front reflectances vanish, the same degenerate
// input the front-only PsiAndDelta.Set reports as Psi=45, Delta=180.
func TestBacksidePsiAndDeltaDegenerateCaseAt45And180(t *testing.T) {
	front := buildStack(t, complex(1.5, 0), complex(1.5, 0), nil, 0.0, 550, 550, 1)

	b := &BacksideStack{Front: front, SubstrateThickness: 1000, Exit: &Constant{NValue: complex(1.5, 0)}}
	pd, err := b.PsiAndDelta()
	require.NoError(t, err)

	assert.InDelta(t, 45.0, pd.Psi[0], 1e-9)
	assert.InDelta(t, 180.0, pd.Delta[0], 1e-9)
}

// backsideRAtFrontThickness rebuilds the whole backside-corrected
// assembly with the front layer's thickness perturbed and returns R/T at
// the single configured wavelength.
func backsideRAtFrontThickness(t *testing.T, thickness float64) (r, tr float64) {
	t.Helper()
	front := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.01)}, Thickness: thickness},
	}, 10.0, 550, 550, 1)
	b := &BacksideStack{Front: front, SubstrateThickness: 300_000, Exit: &Constant{NValue: complex(1.0, 0)}}
	sp, err := b.Spectrum(PolMixed)
	require.NoError(t, err)
	return sp.R[0], sp.T[0]
}

// TestBacksideFrontVariedMatchesFiniteDifference checks the chain-rule
// front-side backside derivative against a direct finite-difference
// rebuild of the whole assembly, perturbing the single front layer's
// thickness (present, in the same position, in both the front and
// reversed orderings).
func TestBacksideFrontVariedMatchesFiniteDifference(t *testing.T) {
	front := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.01)}, Thickness: 120},
	}, 10.0, 550, 550, 1)
	b := &BacksideStack{Front: front, SubstrateThickness: 300_000, Exit: &Constant{NValue: complex(1.0, 0)}}
	require.NoError(t, b.prepare())

	rev, err := b.reverseStack()
	require.NoError(t, err)

	dFront := front.ThicknessDerivatives(0, PolMixed)
	dReverse := rev.ThicknessDerivatives(0, PolMixed)

	bd, err := b.FrontVaried(PolMixed, dFront.DR, dFront.DT, dReverse.DR, dReverse.DT)
	require.NoError(t, err)

	const h = 1e-2
	rPlus, tPlus := backsideRAtFrontThickness(t, 120+h)
	rMinus, tMinus := backsideRAtFrontThickness(t, 120-h)

	assert.InDelta(t, (rPlus-rMinus)/(2*h), bd.DR[0], 1e-4)
	assert.InDelta(t, (tPlus-tMinus)/(2*h), bd.DT[0], 1e-4)
}

// TestBacksideBackVariedMatchesFiniteDifference checks the chain-rule
// back-side backside derivative against a direct finite-difference
// rebuild of the whole assembly, perturbing the exit medium's real
// index; dRBack/dTBack are themselves obtained by a finite-difference
// probe of the bare substrate/exit interface alone, so this test
// exercises the chain-rule composition rather than an analytic
// derivative of the Fresnel formula.
func TestBacksideBackVariedMatchesFiniteDifference(t *testing.T) {
	front := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.01)}, Thickness: 120},
	}, 10.0, 550, 550, 1)

	exitAt := func(nExit float64) *BacksideStack {
		return &BacksideStack{Front: front, SubstrateThickness: 300_000, Exit: &Constant{NValue: complex(nExit, 0)}}
	}

	b := exitAt(1.0)
	require.NoError(t, b.prepare())

	const h = 1e-5
	backRAt := func(nExit float64) (r, tr float64) {
		bb := exitAt(nExit)
		require.NoError(t, bb.prepare())
		bk, err := bb.backStack()
		require.NoError(t, err)
		sp := bk.Spectrum(PolMixed)
		return sp.R[0], sp.T[0]
	}
	rPlus, tPlus := backRAt(1.0 + h)
	rMinus, tMinus := backRAt(1.0 - h)
	dRBack := []float64{(rPlus - rMinus) / (2 * h)}
	dTBack := []float64{(tPlus - tMinus) / (2 * h)}

	bd, err := b.BackVaried(PolMixed, dRBack, dTBack)
	require.NoError(t, err)

	backsideRAtExit := func(nExit float64) (r, tr float64) {
		bb := exitAt(nExit)
		sp, err := bb.Spectrum(PolMixed)
		require.NoError(t, err)
		return sp.R[0], sp.T[0]
	}
	rAssemblyPlus, tAssemblyPlus := backsideRAtExit(1.0 + h)
	rAssemblyMinus, tAssemblyMinus := backsideRAtExit(1.0 - h)

	assert.InDelta(t, (rAssemblyPlus-rAssemblyMinus)/(2*h), bd.DR[0], 1e-3)
	assert.InDelta(t, (tAssemblyPlus-tAssemblyMinus)/(2*h), bd.DT[0], 1e-3)
}
