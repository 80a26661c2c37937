package abeles

// RAndT holds the complex amplitude reflection and transmission
// coefficients for both polarizations, one value per wavelength.
type RAndT struct {
	wvls *Wvls
	Rs   []complex128
	Rp   []complex128
	Ts   []complex128
	Tp   []complex128
}

// NewRAndT allocates an RAndT sized to wvls.
func NewRAndT(wvls *Wvls) *RAndT {
	n := wvls.Len()
	return &RAndT{
		wvls: wvls,
		Rs:   make([]complex128, n),
		Rp:   make([]complex128, n),
		Ts:   make([]complex128, n),
		Tp:   make([]complex128, n),
	}
}

// Set computes r and t from the global characteristic matrices g, given
// the incident medium index Ni and substrate index Ns (both already
// evaluated on the same Wvls), and the Snell invariant.
func (rt *RAndT) Set(g *GlobalMatrices, incident, substrate *N, sin2 *Sin2) {
	for i := 0; i < rt.wvls.Len(); i++ {
		NsSub, NpSub := reducedIndices(substrate.At(i), sin2.At(i))
		Ni := incident.At(i)
		NsInc, NpInc := reducedIndices(Ni, sin2.At(i))

		M := g.M[i]

		Bs := M.S[0] + M.S[1]*NsSub
		Cs := M.S[2] + M.S[3]*NsSub
		rt.Rs[i] = (NsInc*Bs - Cs) / (NsInc*Bs + Cs)
		rt.Ts[i] = (2.0 * NsInc) / (NsInc*Bs + Cs)

		Bp := M.P[0] + M.P[1]*NpSub
		Cp := M.P[2] + M.P[3]*NpSub
		rt.Rp[i] = (NpInc*Bp - Cp) / (NpInc*Bp + Cp)
		rt.Tp[i] = (2.0 * NpInc) / (NpInc*Bp + Cp)
	}
}
