package abeles

import (
	"math"
	"math/cmplx"
)

// PsiAndDelta holds the ellipsometric angles, in degrees, one pair per
// wavelength, per Muller's (1969) sign convention.
type PsiAndDelta struct {
	wvls  *Wvls
	Psi   []float64
	Delta []float64
}

// NewPsiAndDelta allocates a PsiAndDelta sized to wvls.
func NewPsiAndDelta(wvls *Wvls) *PsiAndDelta {
	n := wvls.Len()
	return &PsiAndDelta{wvls: wvls, Psi: make([]float64, n), Delta: make([]float64, n)}
}

// Set computes Psi and Delta from rt at every wavelength. When both r_s
// and r_p vanish the angle pair is degenerate and is reported as Psi=45,
// Delta=180 as a fixed convention (the formulas have no single limit
// there).
func (pd *PsiAndDelta) Set(rt *RAndT) {
	const radToDeg = 180.0 / math.Pi
	for i := 0; i < pd.wvls.Len(); i++ {
		rs, rp := rt.Rs[i], rt.Rp[i]
		as, ap := cmplx.Abs(rs), cmplx.Abs(rp)
		if as == 0.0 && ap == 0.0 {
			pd.Psi[i] = 45.0
			pd.Delta[i] = 180.0
			continue
		}
		pd.Psi[i] = math.Atan2(ap, as) * radToDeg

		delta := cmplx.Phase(-rp) - cmplx.Phase(rs)
		delta = delta * radToDeg
		for delta < 0.0 {
			delta += 360.0
		}
		for delta >= 360.0 {
			delta -= 360.0
		}
		pd.Delta[i] = delta
	}
}
