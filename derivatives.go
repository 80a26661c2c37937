package abeles

import "math/cmplx"

// LayerDerivatives holds dr/dt (and the resulting dR/dT/dA and d(phase))
// of the whole stack with respect to a single layer's thickness or index
// of refraction, one value per wavelength, for both polarizations.
type LayerDerivatives struct {
	wvls    *Wvls
	DRs     []complex128
	DRp     []complex128
	DTs     []complex128
	DTp     []complex128
	DR      []float64
	DT      []float64
	DA      []float64
	DPhaseR []float64
	DPhaseT []float64
}

// NewLayerDerivatives allocates a LayerDerivatives sized to wvls.
func NewLayerDerivatives(wvls *Wvls) *LayerDerivatives {
	n := wvls.Len()
	return &LayerDerivatives{
		wvls: wvls,
		DRs:  make([]complex128, n), DRp: make([]complex128, n),
		DTs: make([]complex128, n), DTp: make([]complex128, n),
		DR: make([]float64, n), DT: make([]float64, n), DA: make([]float64, n),
		DPhaseR: make([]float64, n), DPhaseT: make([]float64, n),
	}
}

// normSq returns |z|^2 without the sqrt/rsqrt cmplx.Abs pays for.
func normSq(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// dMiThickness returns a layer's own characteristic-matrix derivative
// with respect to its thickness, for one polarization's reduced index
// eta (Ns for s, Np for p), sharing the layer's common phase thickness
// phi = k*Ns*thickness.
func dMiThickness(eta complex128, k, thickness float64, Ns complex128) [4]complex128 {
	phi := complex(k, 0) * Ns * complex(thickness, 0)
	dphi := complex(k, 0) * Ns
	j := complex(0, 1)

	cosPhi := cmplx.Cos(phi)
	sinPhi := cmplx.Sin(phi)
	jCosPhiDphi := j * cosPhi * dphi

	d := [4]complex128{}
	d[0] = -sinPhi * dphi
	d[3] = d[0]
	d[1] = jCosPhiDphi / eta
	d[2] = eta * jCosPhiDphi
	return d
}

// dMiIndex returns a layer's own characteristic-matrix derivative with
// respect to its (real-valued) index of refraction n, holding thickness
// fixed, for one polarization's reduced index eta and its derivative
// detaDn with respect to n.
func dMiIndex(eta, detaDn complex128, k, thickness float64, Ns, dNsDn complex128) [4]complex128 {
	phi := complex(k, 0) * Ns * complex(thickness, 0)
	dphiDn := complex(k*thickness, 0) * dNsDn
	return dMiFromPhaseDerivative(eta, detaDn, phi, dphiDn)
}

// dMiFromPhaseDerivative builds the same closed-form matrix-derivative
// entries dMiIndex does, given an already-combined dphi/dparam, so a
// caller needing extra chain-rule terms on top of the ordinary dphi/dN
// (e.g. the constant-optical-thickness variant below) can fold them in
// before this shared algebra runs.
func dMiFromPhaseDerivative(eta, detaDn complex128, phi, dphiDn complex128) [4]complex128 {
	j := complex(0, 1)
	cosPhi := cmplx.Cos(phi)
	sinPhi := cmplx.Sin(phi)

	d := [4]complex128{}
	d[0] = -sinPhi * dphiDn
	d[3] = d[0]
	d[1] = j*cosPhi*dphiDn/eta - j*sinPhi*detaDn/(eta*eta)
	d[2] = j*detaDn*sinPhi + j*eta*cosPhi*dphiDn
	return d
}

// dMiIndexConstantOT is dMiIndex's counterpart when the layer's physical
// thickness is implicitly adjusted to hold the optical thickness n0*d
// fixed as the reference index n0 varies (spec.md §4.5): an extra
// dd/dn0 term rides along the ordinary dphi/dN term, via the chain rule
// dphi/dn0 = dphi/dN*dN + dphi/dd*dd/dn0.
func dMiIndexConstantOT(eta, detaDn complex128, k, thickness float64, Ns, dNsDn, Ns0, layerN complex128) [4]complex128 {
	phi := complex(k, 0) * Ns * complex(thickness, 0)
	dphiDn := complex(k*thickness, 0) * dNsDn

	n0 := real(layerN)
	k0 := -imag(layerN)
	ddDn0 := -thickness / normSq(Ns0) * (n0 - (imag(Ns0)/real(Ns0))*k0)
	dphiDn += complex(k, 0) * Ns0 * complex(ddDn0, 0)

	return dMiFromPhaseDerivative(eta, detaDn, phi, dphiDn)
}

// reducedIndexDerivatives returns d(Ns)/dN and d(Np)/dN at a fixed
// wavelength, given the layer's index N and its already-computed reduced
// indices.
func reducedIndexDerivatives(Nl, Ns complex128) (dNsDn, dNpDn complex128) {
	dNsDn = Nl / Ns
	dNpDn = dNsDn * (2.0 - dNsDn*dNsDn)
	return dNsDn, dNpDn
}

// drdtFromDM computes dr and dt for one polarization from the global
// matrix M (B,C already folded in against the substrate's reduced index)
// and the perturbed global derivative dM, given the incident medium's
// reduced index niReduced.
func drdtFromDM(M [4]complex128, dM [4]complex128, niReduced, nsubReduced complex128) (dr, dt complex128) {
	B := M[0] + M[1]*nsubReduced
	C := M[2] + M[3]*nsubReduced
	D := niReduced*B + C
	D2 := D * D

	psiR0 := 2 * niReduced * C / D2
	psiR1 := psiR0 * nsubReduced
	psiR2 := -2 * niReduced * B / D2
	psiR3 := psiR2 * nsubReduced

	psiT0 := -2 * niReduced * niReduced / D2
	psiT1 := psiT0 * nsubReduced
	psiT2 := -2 * niReduced / D2
	psiT3 := psiT2 * nsubReduced

	dr = psiR0*dM[0] + psiR1*dM[1] + psiR2*dM[2] + psiR3*dM[3]
	dt = psiT0*dM[0] + psiT1*dM[1] + psiT2*dM[2] + psiT3*dM[3]
	return dr, dt
}

// SetThickness computes the stack's r/t/R/T derivatives with respect to
// the thickness of a single layer.
func (ld *LayerDerivatives) SetThickness(layer int, layers []*Matrices, pp *PreAndPostMatrices, thickness float64, global *GlobalMatrices, rt *RAndT, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	for w := 0; w < ld.wvls.Len(); w++ {
		lambda := ld.wvls.At(w)
		k := 2.0 * 3.14159265358979323846 / lambda

		NiS, NiP := reducedIndices(incident.At(w), sin2.At(w))
		NsubS, NsubP := reducedIndices(substrate.At(w), sin2.At(w))
		Ns, Np := layers[layer].Ns[w], layers[layer].Np[w]

		dMiS := dMiThickness(Ns, k, thickness, Ns)
		dMiP := dMiThickness(Np, k, thickness, Ns)

		gS := pp.Global(layer, w, Matrix{S: dMiS})
		gP := pp.Global(layer, w, Matrix{P: dMiP})

		drS, dtS := drdtFromDM(global.M[w].S, gS.S, NiS, NsubS)
		drP, dtP := drdtFromDM(global.M[w].P, gP.P, NiP, NsubP)

		ld.DRs[w], ld.DTs[w] = drS, dtS
		ld.DRp[w], ld.DTp[w] = drP, dtP

		ld.combine(w, rt, NiS, NiP, NsubS, NsubP, pol)
	}
}

// SetIndex computes the stack's r/t/R/T derivatives with respect to the
// (real-valued) index of refraction of a single layer, holding its
// thickness fixed.
func (ld *LayerDerivatives) SetIndex(layer int, layers []*Matrices, pp *PreAndPostMatrices, thickness float64, n *N, global *GlobalMatrices, rt *RAndT, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	for w := 0; w < ld.wvls.Len(); w++ {
		lambda := ld.wvls.At(w)
		k := 2.0 * 3.14159265358979323846 / lambda

		NiS, NiP := reducedIndices(incident.At(w), sin2.At(w))
		NsubS, NsubP := reducedIndices(substrate.At(w), sin2.At(w))
		Ns, Np := layers[layer].Ns[w], layers[layer].Np[w]
		dNsDn, dNpDn := reducedIndexDerivatives(n.At(w), Ns)

		dMiS := dMiIndex(Ns, dNsDn, k, thickness, Ns, dNsDn)
		dMiP := dMiIndex(Np, dNpDn, k, thickness, Ns, dNsDn)

		gS := pp.Global(layer, w, Matrix{S: dMiS})
		gP := pp.Global(layer, w, Matrix{P: dMiP})

		drS, dtS := drdtFromDM(global.M[w].S, gS.S, NiS, NsubS)
		drP, dtP := drdtFromDM(global.M[w].P, gP.P, NiP, NsubP)

		ld.DRs[w], ld.DTs[w] = drS, dtS
		ld.DRp[w], ld.DTp[w] = drP, dtP

		ld.combine(w, rt, NiS, NiP, NsubS, NsubP, pol)
	}
}

// SetIndexConstantOT is SetIndex's counterpart holding the optical
// thickness (n0*d) of the layer constant as its reference index varies,
// rather than its physical thickness (spec.md §4.5's constant-OT index
// derivative).
func (ld *LayerDerivatives) SetIndexConstantOT(layer int, layers []*Matrices, pp *PreAndPostMatrices, thickness float64, n *N, global *GlobalMatrices, rt *RAndT, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	for w := 0; w < ld.wvls.Len(); w++ {
		lambda := ld.wvls.At(w)
		k := 2.0 * 3.14159265358979323846 / lambda

		NiS, NiP := reducedIndices(incident.At(w), sin2.At(w))
		NsubS, NsubP := reducedIndices(substrate.At(w), sin2.At(w))
		Ns, Np := layers[layer].Ns[w], layers[layer].Np[w]
		layerN := n.At(w)
		dNsDn, dNpDn := reducedIndexDerivatives(layerN, Ns)

		dMiS := dMiIndexConstantOT(Ns, dNsDn, k, thickness, Ns, dNsDn, Ns, layerN)
		dMiP := dMiIndexConstantOT(Np, dNpDn, k, thickness, Ns, dNsDn, Ns, layerN)

		gS := pp.Global(layer, w, Matrix{S: dMiS})
		gP := pp.Global(layer, w, Matrix{P: dMiP})

		drS, dtS := drdtFromDM(global.M[w].S, gS.S, NiS, NsubS)
		drP, dtP := drdtFromDM(global.M[w].P, gP.P, NiP, NsubP)

		ld.DRs[w], ld.DTs[w] = drS, dtS
		ld.DRp[w], ld.DTp[w] = drP, dtP

		ld.combine(w, rt, NiS, NiP, NsubS, NsubP, pol)
	}
}

// DGD returns d(group delay)/dparam at every wavelength, via the same
// local quadratic fit GroupDelay uses on the primary phase — but with
// unwrapping turned off, since a phase derivative has no branch jumps to
// remove (spec.md §4.4's unwrap flag is OFF for this case).
func (ld *LayerDerivatives) DGD() []float64 {
	d1, _ := phaseDerivativeFit(ld.wvls, ld.DPhaseR)
	out := make([]float64, len(d1))
	for i := range d1 {
		out[i] = -d1[i]
	}
	return out
}

// DGDD returns d(GDD)/dparam at every wavelength, the second-derivative
// counterpart of DGD.
func (ld *LayerDerivatives) DGDD() []float64 {
	_, d2 := phaseDerivativeFit(ld.wvls, ld.DPhaseR)
	out := make([]float64, len(d2))
	for i := range d2 {
		out[i] = -d2[i]
	}
	return out
}

func (ld *LayerDerivatives) combine(w int, rt *RAndT, NiS, NiP, NsubS, NsubP complex128, pol Polarization) {
	dRs := 2.0 * real(cmplx.Conj(rt.Rs[w])*ld.DRs[w])
	dRp := 2.0 * real(cmplx.Conj(rt.Rp[w])*ld.DRp[w])
	dTs := 2.0 * (real(NsubS) / real(NiS)) * real(cmplx.Conj(rt.Ts[w])*ld.DTs[w])
	dTp := 2.0 * (real(NsubP) / real(NiP)) * real(cmplx.Conj(rt.Tp[w])*ld.DTp[w])

	// d(phase)/dparam = Im(dz*conj(z))/|z|^2, the standard derivative of
	// arg(z) for a complex quantity z(param) — algebraically identical
	// to spec.md §4.6's num/den atan2 construction, since arg(r) and
	// arg(t) are themselves built from the same B,C the spec's num/den
	// expressions are built from.
	dPhaseRs := imag(ld.DRs[w]*cmplx.Conj(rt.Rs[w])) / normSq(rt.Rs[w])
	dPhaseRp := imag(ld.DRp[w]*cmplx.Conj(rt.Rp[w])) / normSq(rt.Rp[w])
	dPhaseTs := imag(ld.DTs[w]*cmplx.Conj(rt.Ts[w])) / normSq(rt.Ts[w])
	dPhaseTp := imag(ld.DTp[w]*cmplx.Conj(rt.Tp[w])) / normSq(rt.Tp[w])

	switch pol {
	case PolS:
		ld.DR[w], ld.DT[w] = dRs, dTs
		ld.DPhaseR[w], ld.DPhaseT[w] = dPhaseRs, dPhaseTs
	case PolP:
		ld.DR[w], ld.DT[w] = dRp, dTp
		ld.DPhaseR[w], ld.DPhaseT[w] = dPhaseRp, dPhaseTp
	default:
		ld.DR[w] = 0.5 * (dRs + dRp)
		ld.DT[w] = 0.5 * (dTs + dTp)
		ld.DPhaseR[w] = 0.5 * (dPhaseRs + dPhaseRp)
		ld.DPhaseT[w] = 0.5 * (dPhaseTs + dPhaseTp)
	}
	ld.DA[w] = -(ld.DR[w] + ld.DT[w])
}
