package abeles

import "math/cmplx"

// NeedlePositions are thickness offsets (from the interface with the
// layer above) at which a needle derivative is evaluated within a layer,
// evenly spaced by construction.
type NeedlePositions struct {
	positions []float64
}

// NewNeedlePositions lays out count positions spanning [0, thickness),
// spacing = thickness/count, matching the classic even-sampling needle
// search grid.
func NewNeedlePositions(thickness float64, count int) *NeedlePositions {
	p := &NeedlePositions{positions: make([]float64, count)}
	spacing := thickness / float64(count)
	for i := range p.positions {
		p.positions[i] = float64(i) * spacing
	}
	return p
}

// At returns the i-th needle position.
func (p *NeedlePositions) At(i int) float64 { return p.positions[i] }

// Len returns the number of needle positions.
func (p *NeedlePositions) Len() int { return len(p.positions) }

// NeedleDerivatives holds dR/dT of the stack with respect to inserting an
// infinitesimally thin needle of a candidate material at each of a set of
// positions within one host layer, one row per wavelength.
type NeedleDerivatives struct {
	wvls      *Wvls
	positions *NeedlePositions
	DR        [][]float64
	DT        [][]float64
}

// NewNeedleDerivatives allocates a NeedleDerivatives sized to wvls and
// the given positions.
func NewNeedleDerivatives(wvls *Wvls, positions *NeedlePositions) *NeedleDerivatives {
	nd := &NeedleDerivatives{wvls: wvls, positions: positions}
	nd.DR = make([][]float64, wvls.Len())
	nd.DT = make([][]float64, wvls.Len())
	for i := range nd.DR {
		nd.DR[i] = make([]float64, positions.Len())
		nd.DT[i] = make([]float64, positions.Len())
	}
	return nd
}

// needleDMi returns d(M)/d(epsilon) at epsilon=0 for a zero-thickness
// needle of reduced index eta embedded at phase position z within a host
// layer of thickness d, reduced indices (eta, Ns) for the host:
//
//	dM/deps = M_part1(z) * [[0, j*dphi/eta], [j*eta*dphi, 0]] * M_part2(d-z)
//
// where dphi = k*Nn_s is the needle material's own phase rate and
// M_part1/M_part2 are the host layer's partial matrices on either side of
// the insertion point.
func needleDMi(hostEta, hostNs complex128, k, z, d float64, needleEta, needleNs complex128) [4]complex128 {
	part1 := partialMatrixEntries(hostEta, hostNs, k, z)
	part2 := partialMatrixEntries(hostEta, hostNs, k, d-z)
	return needleDMiFast(part1, part2, k, needleEta, needleNs)
}

// needleDMiFast is needleDMi's shared-M_phi entry point: part1/part2
// (the host layer's own partial matrices either side of the insertion
// point) are the expensive cosine/sine terms spec.md §4.7 calls out as
// shareable across a palette of candidate needle materials at a fixed
// position; only the per-material seed (sum_ratio/diff_ratio/dphi,
// folded here into the needle's own reduced index and phase rate) is
// rebuilt per candidate.
func needleDMiFast(part1, part2 [4]complex128, k float64, needleEta, needleNs complex128) [4]complex128 {
	j := complex(0, 1)
	dphi := complex(k, 0) * needleNs
	seed := [4]complex128{0, j * dphi / needleEta, j * needleEta * dphi, 0}
	return multiply2x2(multiply2x2(part1, seed), part2)
}

// partialMatrixEntries is the single-polarization characteristic matrix
// of a slab of reduced index eta, sharing phase rate k*Ns, over thickness
// t.
func partialMatrixEntries(eta, Ns complex128, k, t float64) [4]complex128 {
	phi := complex(k, 0) * Ns * complex(t, 0)
	cosPhi := cmplx.Cos(phi)
	sinPhi := cmplx.Sin(phi)
	j := complex(0, 1)
	return [4]complex128{
		cosPhi, j * sinPhi / eta,
		j * eta * sinPhi, cosPhi,
	}
}

// Set computes the needle derivative of R and T at every position and
// wavelength, for a needle of material candidate inserted into the host
// layer.
func (nd *NeedleDerivatives) Set(layer int, layers []*Matrices, layerThickness float64, pp *PreAndPostMatrices, global *GlobalMatrices, rt *RAndT, candidate *N, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	for w := 0; w < nd.wvls.Len(); w++ {
		lambda := nd.wvls.At(w)
		k := 2.0 * 3.14159265358979323846 / lambda

		NiS, NiP := reducedIndices(incident.At(w), sin2.At(w))
		NsubS, NsubP := reducedIndices(substrate.At(w), sin2.At(w))
		hostNs, hostNp := layers[layer].Ns[w], layers[layer].Np[w]
		needleNs, needleNp := reducedIndices(candidate.At(w), sin2.At(w))

		for pi := 0; pi < nd.positions.Len(); pi++ {
			z := nd.positions.At(pi)

			dMiS := needleDMi(hostNs, hostNs, k, z, layerThickness, needleNs, needleNs)
			dMiP := needleDMi(hostNp, hostNs, k, z, layerThickness, needleNp, needleNs)

			gS := pp.Global(layer, w, Matrix{S: dMiS})
			gP := pp.Global(layer, w, Matrix{P: dMiP})

			drS, dtS := drdtFromDM(global.M[w].S, gS.S, NiS, NsubS)
			drP, dtP := drdtFromDM(global.M[w].P, gP.P, NiP, NsubP)

			dRs := 2.0 * real(cmplx.Conj(rt.Rs[w])*drS)
			dRp := 2.0 * real(cmplx.Conj(rt.Rp[w])*drP)
			dTs := 2.0 * (real(NsubS) / real(NiS)) * real(cmplx.Conj(rt.Ts[w])*dtS)
			dTp := 2.0 * (real(NsubP) / real(NiP)) * real(cmplx.Conj(rt.Tp[w])*dtP)

			switch pol {
			case PolS:
				nd.DR[w][pi], nd.DT[w][pi] = dRs, dTs
			case PolP:
				nd.DR[w][pi], nd.DT[w][pi] = dRp, dTp
			default:
				nd.DR[w][pi] = 0.5 * (dRs + dRp)
				nd.DT[w][pi] = 0.5 * (dTs + dTp)
			}
		}
	}
}

// NeedlePaletteDerivatives computes the needle derivative of R and T, at
// every position within the host layer, for every material in
// candidates at once — the "fast" multi-candidate variant of
// NeedleDerivatives.Set (calculate_dMi_needles_fast in the original
// source): each position's host partial matrices (part1/part2, the
// expensive cosine/sine terms) are built once and shared across the
// whole palette, and only the per-material seed varies in the inner
// loop.
func NeedlePaletteDerivatives(wvls *Wvls, positions *NeedlePositions, layer int, layers []*Matrices, layerThickness float64, pp *PreAndPostMatrices, global *GlobalMatrices, rt *RAndT, candidates []*N, incident, substrate *N, sin2 *Sin2, pol Polarization) []*NeedleDerivatives {
	out := make([]*NeedleDerivatives, len(candidates))
	for ci := range candidates {
		out[ci] = NewNeedleDerivatives(wvls, positions)
	}

	needleNs := make([]complex128, len(candidates))
	needleNp := make([]complex128, len(candidates))

	for w := 0; w < wvls.Len(); w++ {
		lambda := wvls.At(w)
		k := 2.0 * 3.14159265358979323846 / lambda

		NiS, NiP := reducedIndices(incident.At(w), sin2.At(w))
		NsubS, NsubP := reducedIndices(substrate.At(w), sin2.At(w))
		hostNs, hostNp := layers[layer].Ns[w], layers[layer].Np[w]

		for ci, cand := range candidates {
			needleNs[ci], needleNp[ci] = reducedIndices(cand.At(w), sin2.At(w))
		}

		for pi := 0; pi < positions.Len(); pi++ {
			z := positions.At(pi)

			part1S := partialMatrixEntries(hostNs, hostNs, k, z)
			part2S := partialMatrixEntries(hostNs, hostNs, k, layerThickness-z)
			part1P := partialMatrixEntries(hostNp, hostNs, k, z)
			part2P := partialMatrixEntries(hostNp, hostNs, k, layerThickness-z)

			for ci := range candidates {
				dMiS := needleDMiFast(part1S, part2S, k, needleNs[ci], needleNs[ci])
				dMiP := needleDMiFast(part1P, part2P, k, needleNp[ci], needleNs[ci])

				gS := pp.Global(layer, w, Matrix{S: dMiS})
				gP := pp.Global(layer, w, Matrix{P: dMiP})

				drS, dtS := drdtFromDM(global.M[w].S, gS.S, NiS, NsubS)
				drP, dtP := drdtFromDM(global.M[w].P, gP.P, NiP, NsubP)

				dRs := 2.0 * real(cmplx.Conj(rt.Rs[w])*drS)
				dRp := 2.0 * real(cmplx.Conj(rt.Rp[w])*drP)
				dTs := 2.0 * (real(NsubS) / real(NiS)) * real(cmplx.Conj(rt.Ts[w])*dtS)
				dTp := 2.0 * (real(NsubP) / real(NiP)) * real(cmplx.Conj(rt.Tp[w])*dtP)

				cnd := out[ci]
				switch pol {
				case PolS:
					cnd.DR[w][pi], cnd.DT[w][pi] = dRs, dTs
				case PolP:
					cnd.DR[w][pi], cnd.DT[w][pi] = dRp, dTp
				default:
					cnd.DR[w][pi] = 0.5 * (dRs + dRp)
					cnd.DT[w][pi] = 0.5 * (dTs + dTp)
				}
			}
		}
	}
	return out
}

// stepDMi returns d(M)/d(epsilon) at epsilon=0 for the host layer's own
// index stepped to N+epsilon over the portion of the layer above
// position z (the slab [z,d]), holding the slab below z at the original
// index. Splitting the layer this way — an unperturbed lower partial
// matrix composed with the perturbed upper slab's own index derivative —
// is the same structural device as needleDMi's part1/part2 split.
func stepDMi(hostEta, hostNs complex128, detaDn complex128, k, z, d float64, dNsDn complex128) [4]complex128 {
	lower := partialMatrixEntries(hostEta, hostNs, k, z)
	upper := dMiIndex(hostEta, detaDn, k, d-z, hostNs, dNsDn)
	return multiply2x2(lower, upper)
}

// StepDerivatives holds dR/dT of the stack with respect to stepping a
// host layer's own index of refraction above each of a set of positions
// within the layer, one row per wavelength — the companion kernel to
// NeedleDerivatives for synthesis heuristics that adjust an existing
// layer's profile rather than inserting a new material (spec.md §4.7).
type StepDerivatives struct {
	wvls      *Wvls
	positions *NeedlePositions
	DR        [][]float64
	DT        [][]float64
}

// NewStepDerivatives allocates a StepDerivatives sized to wvls and the
// given positions.
func NewStepDerivatives(wvls *Wvls, positions *NeedlePositions) *StepDerivatives {
	sd := &StepDerivatives{wvls: wvls, positions: positions}
	sd.DR = make([][]float64, wvls.Len())
	sd.DT = make([][]float64, wvls.Len())
	for i := range sd.DR {
		sd.DR[i] = make([]float64, positions.Len())
		sd.DT[i] = make([]float64, positions.Len())
	}
	return sd
}

// Set computes the step derivative of R and T at every position and
// wavelength, for the host layer's own index stepped above each
// position.
func (sd *StepDerivatives) Set(layer int, layers []*Matrices, layerThickness float64, pp *PreAndPostMatrices, n *N, global *GlobalMatrices, rt *RAndT, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	for w := 0; w < sd.wvls.Len(); w++ {
		lambda := sd.wvls.At(w)
		k := 2.0 * 3.14159265358979323846 / lambda

		NiS, NiP := reducedIndices(incident.At(w), sin2.At(w))
		NsubS, NsubP := reducedIndices(substrate.At(w), sin2.At(w))
		hostNs, hostNp := layers[layer].Ns[w], layers[layer].Np[w]
		dNsDn, dNpDn := reducedIndexDerivatives(n.At(w), hostNs)

		for pi := 0; pi < sd.positions.Len(); pi++ {
			z := sd.positions.At(pi)

			dMiS := stepDMi(hostNs, hostNs, dNsDn, k, z, layerThickness, dNsDn)
			dMiP := stepDMi(hostNp, hostNs, dNpDn, k, z, layerThickness, dNsDn)

			gS := pp.Global(layer, w, Matrix{S: dMiS})
			gP := pp.Global(layer, w, Matrix{P: dMiP})

			drS, dtS := drdtFromDM(global.M[w].S, gS.S, NiS, NsubS)
			drP, dtP := drdtFromDM(global.M[w].P, gP.P, NiP, NsubP)

			dRs := 2.0 * real(cmplx.Conj(rt.Rs[w])*drS)
			dRp := 2.0 * real(cmplx.Conj(rt.Rp[w])*drP)
			dTs := 2.0 * (real(NsubS) / real(NiS)) * real(cmplx.Conj(rt.Ts[w])*dtS)
			dTp := 2.0 * (real(NsubP) / real(NiP)) * real(cmplx.Conj(rt.Tp[w])*dtP)

			switch pol {
			case PolS:
				sd.DR[w][pi], sd.DT[w][pi] = dRs, dTs
			case PolP:
				sd.DR[w][pi], sd.DT[w][pi] = dRp, dTp
			default:
				sd.DR[w][pi] = 0.5 * (dRs + dRp)
				sd.DT[w][pi] = 0.5 * (dTs + dTp)
			}
		}
	}
}
