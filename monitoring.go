package abeles

// GrowthMonitor tracks R and T of the stack at a single monitoring
// wavelength as one layer grows from zero to its final thickness, by
// recomposing the global matrix at each sampled sub-thickness from the
// layers already completed (cached in pp) and a partial matrix for the
// growing layer.
type GrowthMonitor struct {
	wvl       float64
	thickness []float64
	R         []float64
	T         []float64
}

// NewGrowthMonitor allocates a GrowthMonitor sampling the growing layer
// at the given sub-thicknesses (must be non-decreasing, ending at the
// layer's final thickness).
func NewGrowthMonitor(wvl float64, thickness []float64) *GrowthMonitor {
	return &GrowthMonitor{
		wvl: wvl, thickness: thickness,
		R: make([]float64, len(thickness)),
		T: make([]float64, len(thickness)),
	}
}

// SetHomogeneous samples R/T while a homogeneous (constant-index) layer
// of index n grows, with layer and below already fixed in pp/global's
// substrate-side product.
func (gm *GrowthMonitor) SetHomogeneous(layer int, n complex128, pp *PreAndPostMatrices, wIdx int, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	k := 2.0 * 3.14159265358979323846 / gm.wvl

	NiS, NiP := reducedIndices(incident.At(wIdx), sin2.At(wIdx))
	NsubS, NsubP := reducedIndices(substrate.At(wIdx), sin2.At(wIdx))
	Ns, Np := reducedIndices(n, sin2.At(wIdx))

	for i, t := range gm.thickness {
		mS := partialMatrixEntries(Ns, Ns, k, t)
		mP := partialMatrixEntries(Np, Ns, k, t)

		gS := pp.Global(layer, wIdx, Matrix{S: mS, P: unity2x2()})
		gP := pp.Global(layer, wIdx, Matrix{S: unity2x2(), P: mP})

		Bs := gS.S[0] + gS.S[1]*NsubS
		Cs := gS.S[2] + gS.S[3]*NsubS
		rs := (NiS*Bs - Cs) / (NiS*Bs + Cs)
		ts := (2.0 * NiS) / (NiS*Bs + Cs)

		Bp := gP.P[0] + gP.P[1]*NsubP
		Cp := gP.P[2] + gP.P[3]*NsubP
		rp := (NiP*Bp - Cp) / (NiP*Bp + Cp)
		tp := (2.0 * NiP) / (NiP*Bp + Cp)

		Rs, Rp := sqAbs(rs), sqAbs(rp)
		Ts := (real(NsubS) / real(NiS)) * sqAbs(ts)
		Tp := (real(NsubP) / real(NiP)) * sqAbs(tp)

		switch pol {
		case PolS:
			gm.R[i], gm.T[i] = Rs, Ts
		case PolP:
			gm.R[i], gm.T[i] = Rp, Tp
		default:
			gm.R[i] = 0.5 * (Rs + Rp)
			gm.T[i] = 0.5 * (Ts + Tp)
		}
	}
}

// SetGraded samples R/T while a graded-index layer grows, given the
// index n(t) of each already-deposited sub-thickness as a cumulative
// stack of thin homogeneous sub-slabs (the quantized index profile). nAt
// must be the same length as gm.thickness and give the local index at
// each sampled thickness; each sample recomputes the full product of
// sub-slabs from the start of the layer, which is the O(n^2) but simple
// reference approach (growth monitoring is not performance-critical: it
// runs once per deposited layer, not in the inner optimisation loop).
func (gm *GrowthMonitor) SetGraded(layer int, nAt []complex128, pp *PreAndPostMatrices, wIdx int, incident, substrate *N, sin2 *Sin2, pol Polarization) {
	k := 2.0 * 3.14159265358979323846 / gm.wvl

	NiS, NiP := reducedIndices(incident.At(wIdx), sin2.At(wIdx))
	NsubS, NsubP := reducedIndices(substrate.At(wIdx), sin2.At(wIdx))

	for i := range gm.thickness {
		accS, accP := unity2x2(), unity2x2()
		prevT := 0.0
		for j := 0; j <= i; j++ {
			t := gm.thickness[j] - prevT
			prevT = gm.thickness[j]
			Ns, Np := reducedIndices(nAt[j], sin2.At(wIdx))
			mS := partialMatrixEntries(Ns, Ns, k, t)
			mP := partialMatrixEntries(Np, Ns, k, t)
			accS = multiply2x2(accS, mS)
			accP = multiply2x2(accP, mP)
		}

		gS := pp.Global(layer, wIdx, Matrix{S: accS, P: unity2x2()})
		gP := pp.Global(layer, wIdx, Matrix{S: unity2x2(), P: accP})

		Bs := gS.S[0] + gS.S[1]*NsubS
		Cs := gS.S[2] + gS.S[3]*NsubS
		rs := (NiS*Bs - Cs) / (NiS*Bs + Cs)
		ts := (2.0 * NiS) / (NiS*Bs + Cs)

		Bp := gP.P[0] + gP.P[1]*NsubP
		Cp := gP.P[2] + gP.P[3]*NsubP
		rp := (NiP*Bp - Cp) / (NiP*Bp + Cp)
		tp := (2.0 * NiP) / (NiP*Bp + Cp)

		Rs, Rp := sqAbs(rs), sqAbs(rp)
		Ts := (real(NsubS) / real(NiS)) * sqAbs(ts)
		Tp := (real(NsubP) / real(NiP)) * sqAbs(tp)

		switch pol {
		case PolS:
			gm.R[i], gm.T[i] = Rs, Ts
		case PolP:
			gm.R[i], gm.T[i] = Rp, Tp
		default:
			gm.R[i] = 0.5 * (Rs + Rp)
			gm.T[i] = 0.5 * (Ts + Tp)
		}
	}
}
