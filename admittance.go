package abeles

// Admittance holds the complex optical admittance C/B of the stack, seen
// from the incident medium, one value per wavelength and polarization.
type Admittance struct {
	wvls *Wvls
	S    []complex128
	P    []complex128
}

// NewAdmittance allocates an Admittance sized to wvls.
func NewAdmittance(wvls *Wvls) *Admittance {
	n := wvls.Len()
	return &Admittance{wvls: wvls, S: make([]complex128, n), P: make([]complex128, n)}
}

// Set computes the admittance of the global matrices g terminated by the
// substrate index, for every wavelength.
func (ad *Admittance) Set(g *GlobalMatrices, substrate *N, sin2 *Sin2) {
	for i := 0; i < ad.wvls.Len(); i++ {
		NsSub, NpSub := reducedIndices(substrate.At(i), sin2.At(i))
		M := g.M[i]

		Bs := M.S[0] + M.S[1]*NsSub
		Cs := M.S[2] + M.S[3]*NsSub
		ad.S[i] = Cs / Bs

		Bp := M.P[0] + M.P[1]*NpSub
		Cp := M.P[2] + M.P[3]*NpSub
		ad.P[i] = Cp / Bp
	}
}
