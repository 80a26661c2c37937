package abeles

import (
	"math"
	"math/cmplx"
)

// speedOfLightNmPerFs is c expressed in nanometres per femtosecond, the
// natural unit pairing for wavelengths in nm and group delay in fs.
const speedOfLightNmPerFs = 299.792458

// Phase holds the unwrapped phase of r, in radians, one value per
// wavelength.
type Phase struct {
	wvls  *Wvls
	Value []float64
}

// NewPhase allocates a Phase sized to wvls.
func NewPhase(wvls *Wvls) *Phase {
	return &Phase{wvls: wvls, Value: make([]float64, wvls.Len())}
}

// Set computes the phase of r for the chosen polarization and unwraps it
// across the wavelength grid (the grid is assumed monotonic, as is every
// Wvls in this package).
func (ph *Phase) Set(rt *RAndT, pol Polarization) {
	n := ph.wvls.Len()
	for i := 0; i < n; i++ {
		var r complex128
		switch pol {
		case PolP:
			r = rt.Rp[i]
		default:
			r = rt.Rs[i]
		}
		ph.Value[i] = cmplx.Phase(r)
	}
	unwrap(ph.Value)
}

// TransmissionPhase holds the unwrapped phase of t, in radians, one
// value per wavelength: atan2(-Im(N_m*B+C), Re(N_m*B+C)), shifted into
// [0, 2*pi) before unwrapping.
type TransmissionPhase struct {
	wvls  *Wvls
	Value []float64
}

// NewTransmissionPhase allocates a TransmissionPhase sized to wvls.
func NewTransmissionPhase(wvls *Wvls) *TransmissionPhase {
	return &TransmissionPhase{wvls: wvls, Value: make([]float64, wvls.Len())}
}

// Set computes the phase of t for the chosen polarization from the
// global characteristic matrices and unwraps it across the wavelength
// grid.
func (tp *TransmissionPhase) Set(global *GlobalMatrices, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	const twoPi = 2.0 * 3.14159265358979323846
	for i := 0; i < tp.wvls.Len(); i++ {
		NiS, NiP := reducedIndices(incident.At(i), sin2.At(i))
		NsS, NsP := reducedIndices(substrate.At(i), sin2.At(i))
		M := global.M[i]

		var Nm, B, C complex128
		if pol == PolP {
			Nm = NiP
			B = M.P[0] + M.P[1]*NsP
			C = M.P[2] + M.P[3]*NsP
		} else {
			Nm = NiS
			B = M.S[0] + M.S[1]*NsS
			C = M.S[2] + M.S[3]*NsS
		}

		temp := Nm*B + C
		phi := math.Atan2(-imag(temp), real(temp))
		for phi < 0.0 {
			phi += twoPi
		}
		tp.Value[i] = phi
	}
	unwrap(tp.Value)
}

// unwrap removes 2*pi jumps from a phase sequence in place.
func unwrap(phi []float64) {
	const twoPi = 2.0 * 3.14159265358979323846
	for i := 1; i < len(phi); i++ {
		for phi[i]-phi[i-1] > twoPi/2.0 {
			phi[i] -= twoPi
		}
		for phi[i]-phi[i-1] < -twoPi/2.0 {
			phi[i] += twoPi
		}
	}
}

// angularFrequency converts a wavelength grid (nm) to angular frequency
// (rad/fs), omega = 2*pi*c/lambda.
func angularFrequency(wvls *Wvls) []float64 {
	const twoPi = 2.0 * 3.14159265358979323846
	omega := make([]float64, wvls.Len())
	for i := 0; i < wvls.Len(); i++ {
		omega[i] = twoPi * speedOfLightNmPerFs / wvls.At(i)
	}
	return omega
}

// GroupDelay holds the group delay, in femtoseconds, computed as
// -dphi/domega by a local 3-point Newton divided-difference quadratic fit
// around each wavelength, with the unwrapped phase as input.
type GroupDelay struct {
	wvls  *Wvls
	Value []float64
}

// NewGroupDelay allocates a GroupDelay sized to wvls.
func NewGroupDelay(wvls *Wvls) *GroupDelay {
	return &GroupDelay{wvls: wvls, Value: make([]float64, wvls.Len())}
}

// Set computes group delay from an already-unwrapped phase over the
// Wvls' angular-frequency grid.
func (gd *GroupDelay) Set(ph *Phase) {
	d1, _ := phaseDerivativeFit(gd.wvls, ph.Value)
	for i := range d1 {
		gd.Value[i] = -d1[i]
	}
}

// GDD holds the group delay dispersion, in fs^2, the second derivative of
// phase with respect to angular frequency, negated.
type GDD struct {
	wvls  *Wvls
	Value []float64
}

// NewGDD allocates a GDD sized to wvls.
func NewGDD(wvls *Wvls) *GDD {
	return &GDD{wvls: wvls, Value: make([]float64, wvls.Len())}
}

// Set computes GDD from an already-unwrapped phase over the Wvls'
// angular-frequency grid.
func (g *GDD) Set(ph *Phase) {
	_, d2 := phaseDerivativeFit(g.wvls, ph.Value)
	for i := range d2 {
		g.Value[i] = -d2[i]
	}
}

// phaseDerivativeFit returns the first and second angular-frequency
// derivative at every wavelength of phi, via the same local 3-point
// Newton quadratic fit GroupDelay/GDD use: endpoints use the first/last
// three samples, interior points the centred triple.
func phaseDerivativeFit(wvls *Wvls, phi []float64) (d1, d2 []float64) {
	omega := angularFrequency(wvls)
	n := len(omega)
	d1 = make([]float64, n)
	d2 = make([]float64, n)
	for i := 0; i < n; i++ {
		lo, mid, hi := i-1, i, i+1
		if lo < 0 {
			lo, mid, hi = 0, 1, 2
		}
		if hi >= n {
			lo, mid, hi = n-3, n-2, n-1
		}
		if n < 3 {
			lo, mid, hi = 0, 0, n-1
		}
		d1[i], d2[i] = newtonQuadratic(omega[lo], omega[mid], omega[hi], phi[lo], phi[mid], phi[hi], omega[i])
	}
	return d1, d2
}

// newtonQuadratic fits the unique quadratic through (x0,y0),(x1,y1),(x2,y2)
// using Newton divided differences and returns its first and second
// derivative evaluated at x.
func newtonQuadratic(x0, x1, x2, y0, y1, y2, x float64) (d1, d2 float64) {
	f01 := (y1 - y0) / (x1 - x0)
	f12 := (y2 - y1) / (x2 - x1)
	f012 := (f12 - f01) / (x2 - x0)

	d1 = f01 + f012*(2.0*x-x0-x1)
	d2 = 2.0 * f012
	return d1, d2
}
