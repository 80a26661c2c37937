package abeles

import (
	"math"
	"math/cmplx"
)

// BacksideStack wraps a front Stack with an incoherent rear substrate
// surface: a substrate of finite thickness bounded by an exit medium on
// its far side. The front stack is treated coherently (as usual); the
// substrate itself is treated incoherently, since real substrates are
// many wavelengths thick and any phase relationship between the two
// surfaces averages out over a finite spectral bandwidth. The multiple
// internal reflections this produces are summed as an infinite geometric
// series in intensity, per Yang (1995).
type BacksideStack struct {
	Front              *Stack
	SubstrateThickness float64
	Exit               Dispersion

	exitN *N
}

// prepare evaluates the exit medium's index on the front stack's
// wavelength grid. The front stack must already have been prepared.
func (b *BacksideStack) prepare() error {
	b.exitN = NewN(b.Front.Wvls)
	return b.Exit.SetN(b.exitN)
}

// reverseStack builds and prepares the front stack illuminated from the
// substrate side, by reversing the layer order and swapping the
// incident and substrate roles.
func (b *BacksideStack) reverseStack() (*Stack, error) {
	reversed := make([]Layer, len(b.Front.Layers))
	for i := range b.Front.Layers {
		reversed[i] = b.Front.Layers[len(b.Front.Layers)-1-i]
	}
	rev := &Stack{
		Wvls:      b.Front.Wvls,
		Incident:  b.Front.Substrate,
		Layers:    reversed,
		Substrate: b.Front.Incident,
		AngleDeg:  b.Front.AngleDeg,
	}
	if err := rev.Prepare(); err != nil {
		return nil, err
	}
	return rev, nil
}

// backStack builds and prepares the bare substrate/exit-medium interface
// alone (a zero-layer stack).
func (b *BacksideStack) backStack() (*Stack, error) {
	back := &Stack{
		Wvls:      b.Front.Wvls,
		Incident:  b.Front.Substrate,
		Layers:    nil,
		Substrate: b.Exit,
		AngleDeg:  b.Front.AngleDeg,
	}
	if err := back.Prepare(); err != nil {
		return nil, err
	}
	return back, nil
}

// betaIm returns Im(2*pi*d_s*N_s_s/lambda) at wavelength index i, the
// substrate's imaginary phase thickness feeding every incoherent
// attenuation factor below.
func (b *BacksideStack) betaIm(i int) float64 {
	lambda := b.Front.Wvls.At(i)
	Ns, _ := reducedIndices(b.Front.substrateN.At(i), b.Front.sin2.At(i))
	return imag(complex(2.0*math.Pi/lambda, 0) * Ns * complex(b.SubstrateThickness, 0))
}

// Spectrum returns the backside-corrected R/T/A of the whole assembly:
// front stack, substrate bulk absorption and internal reflections, and
// the rear surface. The front stack must already have been prepared.
func (b *BacksideStack) Spectrum(pol Polarization) (*Spectrum, error) {
	if err := b.prepare(); err != nil {
		return nil, err
	}
	rev, err := b.reverseStack()
	if err != nil {
		return nil, err
	}
	back, err := b.backStack()
	if err != nil {
		return nil, err
	}

	front := b.Front.Spectrum(pol)
	reverse := rev.Spectrum(pol)
	backSp := back.Spectrum(pol)

	out := NewSpectrum(b.Front.Wvls)
	for i := 0; i < b.Front.Wvls.Len(); i++ {
		betaIm := b.betaIm(i)
		atten := math.Exp(4.0 * betaIm)
		attenHalf := math.Exp(2.0 * betaIm)

		denom := 1.0 - reverse.R[i]*backSp.R[i]*atten
		out.R[i] = front.R[i] + (front.T[i]*reverse.T[i]*backSp.R[i]*atten)/denom
		out.T[i] = (front.T[i] * backSp.T[i] * attenHalf) / denom
		out.A[i] = 1.0 - out.R[i] - out.T[i]
	}
	return out, nil
}

// PsiAndDelta returns the ellipsometric angles of the whole assembly,
// correcting for incoherent multiple reflection within the substrate,
// per Yang et al. (1995). The front stack must already have been
// prepared.
func (b *BacksideStack) PsiAndDelta() (*PsiAndDelta, error) {
	if err := b.prepare(); err != nil {
		return nil, err
	}
	rev, err := b.reverseStack()
	if err != nil {
		return nil, err
	}
	back, err := b.backStack()
	if err != nil {
		return nil, err
	}

	front := b.Front.RAndT()
	reverse := rev.RAndT()
	backRT := back.RAndT()

	const radToDeg = 180.0 / math.Pi
	pd := NewPsiAndDelta(b.Front.Wvls)
	for i := 0; i < b.Front.Wvls.Len(); i++ {
		atten := math.Exp(-4.0 * math.Abs(b.betaIm(i)))

		normRpFront, normRsFront := normSq(front.Rp[i]), normSq(front.Rs[i])
		normTpFront, normTsFront := normSq(front.Tp[i]), normSq(front.Ts[i])
		normRpRev, normRsRev := normSq(reverse.Rp[i]), normSq(reverse.Rs[i])
		normTpRev, normTsRev := normSq(reverse.Tp[i]), normSq(reverse.Ts[i])
		normRpBack, normRsBack := normSq(backRT.Rp[i]), normSq(backRT.Rs[i])

		rMixedFront := -front.Rp[i] * cmplx.Conj(front.Rs[i])
		tMixedFront := front.Tp[i] * cmplx.Conj(front.Ts[i])
		tMixedRev := reverse.Tp[i] * cmplx.Conj(reverse.Ts[i])
		rMixedRev := -reverse.Rp[i] * cmplx.Conj(reverse.Rs[i])
		rMixedBack := -backRT.Rp[i] * cmplx.Conj(backRT.Rs[i])

		attenC := complex(atten, 0)
		riP := normTpFront * normTpRev * normRpBack * atten / (1.0 - normRpRev*normRpBack*atten)
		riS := normTsFront * normTsRev * normRsBack * atten / (1.0 - normRsRev*normRsBack*atten)
		bi2 := real((tMixedFront * tMixedRev * rMixedBack * attenC) / (complex(1, 0) - rMixedRev*rMixedBack*attenC))

		sqrtP := math.Sqrt(normRpFront + riP)
		sqrtS := math.Sqrt(normRsFront + riS)

		if sqrtP == 0.0 && sqrtS == 0.0 {
			pd.Psi[i] = 45.0
			pd.Delta[i] = 180.0
			continue
		}
		pd.Psi[i] = math.Atan2(sqrtP, sqrtS) * radToDeg

		cosDelta := (real(rMixedFront) + bi2) / math.Sqrt((normRpFront+riP)*(normRsFront+riS))
		cosDelta = math.Min(math.Max(cosDelta, -1.0), 1.0)
		pd.Delta[i] = math.Acos(cosDelta) * radToDeg
	}
	return pd, nil
}

// BacksideDerivatives holds d(R,T)/dparam of the whole backside-corrected
// assembly, one value per wavelength, propagated through the incoherent-
// substrate formulas of Spectrum via the algebraic chain rule of
// spec.md §4.6.
type BacksideDerivatives struct {
	DR []float64
	DT []float64
}

// FrontVaried computes the backside derivative when the perturbed
// parameter belongs to the front stack (a layer's thickness or index):
// dRFront/dTFront are that perturbation's ordinary (front-illumination)
// derivatives of R and T, and dRReverse/dTReverse are the same
// perturbation's derivatives on the reversed stack (substrate-side
// illumination) — e.g. the DR/DT fields of
// b.Front.ThicknessDerivatives(layer, pol) and rev.ThicknessDerivatives
// of the corresponding layer in the reversed ordering. R_back/T_back and
// the substrate attenuation are held fixed, since neither depends on the
// front stack.
func (b *BacksideStack) FrontVaried(pol Polarization, dRFront, dTFront, dRReverse, dTReverse []float64) (*BacksideDerivatives, error) {
	if err := b.prepare(); err != nil {
		return nil, err
	}
	rev, err := b.reverseStack()
	if err != nil {
		return nil, err
	}
	back, err := b.backStack()
	if err != nil {
		return nil, err
	}

	front := b.Front.Spectrum(pol)
	reverse := rev.Spectrum(pol)
	backSp := back.Spectrum(pol)

	out := &BacksideDerivatives{DR: make([]float64, b.Front.Wvls.Len()), DT: make([]float64, b.Front.Wvls.Len())}
	for i := 0; i < b.Front.Wvls.Len(); i++ {
		atten := math.Exp(4.0 * b.betaIm(i))

		num := front.T[i] * reverse.T[i] * backSp.R[i] * atten
		dNum := (dTFront[i]*reverse.T[i] + front.T[i]*dTReverse[i]) * backSp.R[i] * atten
		denom := 1.0 - reverse.R[i]*backSp.R[i]*atten
		dDenom := -dRReverse[i] * backSp.R[i] * atten

		out.DR[i] = dRFront[i] + dNum/denom - num*dDenom/(denom*denom)

		num2 := front.T[i] * backSp.T[i] * math.Exp(2.0*b.betaIm(i))
		dNum2 := dTFront[i] * backSp.T[i] * math.Exp(2.0*b.betaIm(i))
		out.DT[i] = dNum2/denom - num2*dDenom/(denom*denom)
	}
	return out, nil
}

// BackVaried computes the backside derivative when the perturbed
// parameter belongs to the rear-surface interface only — e.g. the exit
// medium's index: dRBack/dTBack are that perturbation's derivatives of
// the bare substrate/exit-medium R and T. The front and reverse R/T, and
// the substrate attenuation, are held fixed, since neither depends on
// the rear interface.
func (b *BacksideStack) BackVaried(pol Polarization, dRBack, dTBack []float64) (*BacksideDerivatives, error) {
	if err := b.prepare(); err != nil {
		return nil, err
	}
	rev, err := b.reverseStack()
	if err != nil {
		return nil, err
	}
	back, err := b.backStack()
	if err != nil {
		return nil, err
	}

	front := b.Front.Spectrum(pol)
	reverse := rev.Spectrum(pol)
	backSp := back.Spectrum(pol)

	out := &BacksideDerivatives{DR: make([]float64, b.Front.Wvls.Len()), DT: make([]float64, b.Front.Wvls.Len())}
	for i := 0; i < b.Front.Wvls.Len(); i++ {
		atten := math.Exp(4.0 * b.betaIm(i))
		attenHalf := math.Exp(2.0 * b.betaIm(i))

		num := front.T[i] * reverse.T[i] * backSp.R[i] * atten
		dNum := front.T[i] * reverse.T[i] * atten * dRBack[i]
		denom := 1.0 - reverse.R[i]*backSp.R[i]*atten
		dDenom := -reverse.R[i] * atten * dRBack[i]

		out.DR[i] = dNum/denom - num*dDenom/(denom*denom)

		num2 := front.T[i] * backSp.T[i] * attenHalf
		dNum2 := front.T[i] * attenHalf * dTBack[i]
		out.DT[i] = dNum2/denom - num2*dDenom/(denom*denom)
	}
	return out, nil
}
