package abeles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rAtThickness builds a single complex-index layer stack with the given
// layer thickness and returns R for mixed polarization at the one
// configured wavelength.
func rAtThickness(t *testing.T, thickness float64) float64 {
	t.Helper()
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: thickness},
	}, 15.0, 550, 550, 1)
	return s.Spectrum(PolMixed).R[0]
}

// rAtIndex builds the same stack with the layer's real index perturbed.
func rAtIndex(t *testing.T, nReal float64) float64 {
	t.Helper()
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(nReal, 0.05)}, Thickness: 120},
	}, 15.0, 550, 550, 1)
	return s.Spectrum(PolMixed).R[0]
}

func TestThicknessDerivativeMatchesFiniteDifference(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: 120},
	}, 15.0, 550, 550, 1)

	ld := s.ThicknessDerivatives(0, PolMixed)

	const h = 1e-3
	fd := (rAtThickness(t, 120+h) - rAtThickness(t, 120-h)) / (2 * h)
	assert.InDelta(t, fd, ld.DR[0], 1e-5)
}

func TestIndexDerivativeMatchesFiniteDifference(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: 120},
	}, 15.0, 550, 550, 1)

	ld := s.IndexDerivatives(0, PolMixed)

	const h = 1e-5
	fd := (rAtIndex(t, 2.1+h) - rAtIndex(t, 2.1-h)) / (2 * h)
	assert.InDelta(t, fd, ld.DR[0], 1e-4)
}

// TestNeedleDerivativeMatchesFiniteDifference checks a needle derivative
// at mid-layer against a direct finite-difference rebuild: splitting the
// host layer into two halves and inserting a thin slab of the candidate
// material between them.
func TestNeedleDerivativeMatchesFiniteDifference(t *testing.T) {
	hostThickness := 120.0
	z := hostThickness / 2

	base := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0)}, Thickness: hostThickness},
	}, 0.0, 550, 550, 1)

	nd, err := base.NeedleDerivatives(0, &Constant{NValue: complex(1.45, 0)}, 2, PolMixed)
	if err != nil {
		t.Fatalf("NeedleDerivatives: %v", err)
	}

	const eps = 1e-4
	withNeedle := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0)}, Thickness: z},
		{Dispersion: &Constant{NValue: complex(1.45, 0)}, Thickness: eps},
		{Dispersion: &Constant{NValue: complex(2.1, 0)}, Thickness: hostThickness - z},
	}, 0.0, 550, 550, 1)

	withoutNeedle := base.Spectrum(PolMixed).R[0]
	perturbed := withNeedle.Spectrum(PolMixed).R[0]

	fd := (perturbed - withoutNeedle) / eps
	assert.InDelta(t, fd, nd.DR[0][1], 1e-2)
}

// TestDAEqualsNegativeSumOfDRAndDT checks dA = -(dR+dT) holds at every
// wavelength for a thickness derivative of a complex-index layer.
func TestDAEqualsNegativeSumOfDRAndDT(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: 120},
	}, 15.0, 450, 650, 5)

	ld := s.ThicknessDerivatives(0, PolMixed)
	for i := range ld.DA {
		assert.InDelta(t, -(ld.DR[i] + ld.DT[i]), ld.DA[i], 1e-12)
	}
}

// phaseAtThickness returns the reflection phase at the given layer
// thickness for the single configured wavelength.
func phaseAtThickness(t *testing.T, thickness float64) float64 {
	t.Helper()
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: thickness},
	}, 15.0, 550, 550, 1)
	return s.Phase(PolS).Value[0]
}

// transmissionPhaseAtThickness returns the transmission phase at the
// given layer thickness for the single configured wavelength.
func transmissionPhaseAtThickness(t *testing.T, thickness float64) float64 {
	t.Helper()
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: thickness},
	}, 15.0, 550, 550, 1)
	return s.TransmissionPhase(PolS).Value[0]
}

// TestDPhaseRAndDPhaseTMatchFiniteDifference checks the reflection- and
// transmission-phase derivatives against direct finite-difference
// rebuilds.
func TestDPhaseRAndDPhaseTMatchFiniteDifference(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: 120},
	}, 15.0, 550, 550, 1)

	ld := s.ThicknessDerivatives(0, PolS)

	const h = 1e-3
	fdR := (phaseAtThickness(t, 120+h) - phaseAtThickness(t, 120-h)) / (2 * h)
	assert.InDelta(t, fdR, ld.DPhaseR[0], 1e-5)

	fdT := (transmissionPhaseAtThickness(t, 120+h) - transmissionPhaseAtThickness(t, 120-h)) / (2 * h)
	assert.InDelta(t, fdT, ld.DPhaseT[0], 1e-5)
}

// groupDelayAtThickness returns the group delay spectrum at the given
// layer thickness over a small wavelength window, needed because group
// delay is itself a derivative with respect to wavelength.
func groupDelayAtThickness(t *testing.T, thickness float64) []float64 {
	t.Helper()
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: thickness},
	}, 15.0, 545, 555, 5)
	return s.GroupDelay(PolS).Value
}

// TestDGDMatchesFiniteDifference checks the thickness derivative of group
// delay against a direct finite-difference rebuild at the center
// wavelength of a small grid.
func TestDGDMatchesFiniteDifference(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: 120},
	}, 15.0, 545, 555, 5)

	ld := s.ThicknessDerivatives(0, PolS)
	dgd := ld.DGD()

	const h = 1e-2
	mid := 2
	fd := (groupDelayAtThickness(t, 120+h)[mid] - groupDelayAtThickness(t, 120-h)[mid]) / (2 * h)
	assert.InDelta(t, fd, dgd[mid], 1e-2)
}

// rAtIndexConstantOT builds a single-layer stack whose thickness is
// adjusted alongside its index so that n0*d stays fixed at the nominal
// thickness's optical thickness, matching SetIndexConstantOT's chain
// rule.
func rAtIndexConstantOT(t *testing.T, n0 float64) float64 {
	t.Helper()
	const d0, n0Nominal = 120.0, 2.1
	d := d0 * n0Nominal / n0
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(n0, 0.05)}, Thickness: d},
	}, 0.0, 550, 550, 1)
	return s.Spectrum(PolMixed).R[0]
}

// TestIndexDerivativeConstantOTMatchesFiniteDifference checks the
// constant-optical-thickness index derivative against a finite-difference
// rebuild that holds n0*d fixed exactly (rather than approximately via
// the linearized dd/dn0 term SetIndexConstantOT uses), at normal
// incidence where the reduced index equals the layer index directly so
// the two constructions of "constant optical thickness" coincide.
func TestIndexDerivativeConstantOTMatchesFiniteDifference(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: 120},
	}, 0.0, 550, 550, 1)

	ld := s.IndexDerivativesConstantOT(0, PolMixed)

	const h = 1e-5
	fd := (rAtIndexConstantOT(t, 2.1+h) - rAtIndexConstantOT(t, 2.1-h)) / (2 * h)
	assert.InDelta(t, fd, ld.DR[0], 1e-3)
}

// TestStepDerivativeMatchesFiniteDifference checks the step derivative of
// a host layer's own index, stepped above mid-layer, against splitting
// the layer into two sub-slabs and perturbing the upper one's index
// directly.
func TestStepDerivativeMatchesFiniteDifference(t *testing.T) {
	hostThickness := 120.0
	z := hostThickness / 2

	sd := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: hostThickness},
	}, 0.0, 550, 550, 1).StepDerivatives(0, 2, PolMixed)

	rAtUpperIndex := func(n float64) float64 {
		s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
			{Dispersion: &Constant{NValue: complex(2.1, 0.05)}, Thickness: z},
			{Dispersion: &Constant{NValue: complex(n, 0.05)}, Thickness: hostThickness - z},
		}, 0.0, 550, 550, 1)
		return s.Spectrum(PolMixed).R[0]
	}

	const h = 1e-5
	fd := (rAtUpperIndex(2.1+h) - rAtUpperIndex(2.1-h)) / (2 * h)
	assert.InDelta(t, fd, sd.DR[0][1], 1e-3)
}

// TestNeedleDerivativesPaletteMatchesPerCandidateCalls checks that the
// shared-partial-matrix palette variant reproduces the same result as
// calling NeedleDerivatives once per candidate.
func TestNeedleDerivativesPaletteMatchesPerCandidateCalls(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.1, 0)}, Thickness: 120},
	}, 0.0, 450, 650, 5)

	candidates := []Dispersion{
		&Constant{NValue: complex(1.45, 0)},
		&Constant{NValue: complex(1.7, 0)},
	}

	palette, err := s.NeedleDerivativesPalette(0, candidates, 4, PolMixed)
	require.NoError(t, err)

	for ci, cand := range candidates {
		single, err := s.NeedleDerivatives(0, cand, 4, PolMixed)
		require.NoError(t, err)
		for w := range single.DR {
			for pi := range single.DR[w] {
				assert.InDelta(t, single.DR[w][pi], palette[ci].DR[w][pi], 1e-12)
				assert.InDelta(t, single.DT[w][pi], palette[ci].DT[w][pi], 1e-12)
			}
		}
	}
}
