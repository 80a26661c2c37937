package abeles

import "math/cmplx"

// Spectrum holds reflectance, transmittance and absorptance, one value per
// wavelength, for a chosen polarization mixture.
type Spectrum struct {
	wvls *Wvls
	R    []float64
	T    []float64
	A    []float64
}

// NewSpectrum allocates a Spectrum sized to wvls.
func NewSpectrum(wvls *Wvls) *Spectrum {
	n := wvls.Len()
	return &Spectrum{wvls: wvls, R: make([]float64, n), T: make([]float64, n), A: make([]float64, n)}
}

// Polarization selects how s and p contributions are combined.
type Polarization int

const (
	// PolS is pure s (TE) polarization.
	PolS Polarization = iota
	// PolP is pure p (TM) polarization.
	PolP
	// PolMixed is unpolarized light, the arithmetic mean of s and p.
	PolMixed
)

// SetR fills r.R from rt, for the given polarization, at every wavelength.
func (s *Spectrum) SetR(rt *RAndT, pol Polarization) {
	for i := 0; i < s.wvls.Len(); i++ {
		switch pol {
		case PolS:
			s.R[i] = sqAbs(rt.Rs[i])
		case PolP:
			s.R[i] = sqAbs(rt.Rp[i])
		default:
			s.R[i] = 0.5 * (sqAbs(rt.Rs[i]) + sqAbs(rt.Rp[i]))
		}
	}
}

// SetT fills s.T from rt, normalising by the ratio of the real parts of
// the substrate and incident reduced indices, for the given polarization.
func (s *Spectrum) SetT(rt *RAndT, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	for i := 0; i < s.wvls.Len(); i++ {
		NsSub, NpSub := reducedIndices(substrate.At(i), sin2.At(i))
		NsInc, NpInc := reducedIndices(incident.At(i), sin2.At(i))

		Ts := (real(NsSub) / real(NsInc)) * sqAbs(rt.Ts[i])
		Tp := (real(NpSub) / real(NpInc)) * sqAbs(rt.Tp[i])

		switch pol {
		case PolS:
			s.T[i] = Ts
		case PolP:
			s.T[i] = Tp
		default:
			s.T[i] = 0.5 * (Ts + Tp)
		}
	}
}

// SetA fills s.A as 1 - R - T, assuming SetR and SetT have already run.
func (s *Spectrum) SetA() {
	for i := 0; i < s.wvls.Len(); i++ {
		s.A[i] = 1.0 - s.R[i] - s.T[i]
	}
}

func sqAbs(z complex128) float64 {
	a := cmplx.Abs(z)
	return a * a
}
