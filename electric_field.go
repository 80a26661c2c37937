package abeles

import (
	"math"
	"math/cmplx"
)

// FieldPoint is a single sampling position inside the stack: the index of
// the layer it falls in (0 = nearest incident medium) and the fractional
// depth within that layer, in [0, 1], 0 at the interface with the layer
// above and 1 at the interface with the layer below.
type FieldPoint struct {
	Layer int
	Depth float64
}

// ElectricField holds the squared electric field amplitude (relative to
// unit amplitude at the substrate) at a set of FieldPoint positions, for
// every wavelength.
type ElectricField struct {
	wvls   *Wvls
	points []FieldPoint
	// Intensity[w][p] is |B(point p)|^2 at wavelength w (see Set).
	Intensity [][]float64
}

// NewElectricField allocates an ElectricField sized to wvls and the given
// sampling points.
func NewElectricField(wvls *Wvls, points []FieldPoint) *ElectricField {
	ef := &ElectricField{wvls: wvls, points: points}
	ef.Intensity = make([][]float64, wvls.Len())
	for i := range ef.Intensity {
		ef.Intensity[i] = make([]float64, len(points))
	}
	return ef
}

// Set computes the field intensity at every sampling point and
// wavelength, given the layer stack (ordered incident to substrate), its
// precomputed pre-matrix cache, the substrate index, the Snell invariant
// and polarization.
//
// Following the Abelès state-vector convention, the field at a point is
// obtained by propagating [1; Y_substrate] backward through the
// characteristic matrix accumulated from the incident medium down to
// that point, terminating directly on the substrate's reduced index
// regardless of how many real layers remain below the point: B(x) =
// M_front(x).S[0] + M_front(x).S[1]*N_s, with M_front(x) = Pre[layer] *
// (partial matrix of the layer up to the sampled depth). The field is
// reported relative to unit amplitude at the substrate, |B(x)|^2.
func (ef *ElectricField) Set(layers []*Matrices, thicknesses []float64, pp *PreAndPostMatrices, substrate *N, sin2 *Sin2, pol Polarization) {
	for w := 0; w < ef.wvls.Len(); w++ {
		lambda := ef.wvls.At(w)
		k := 2.0 * math.Pi / lambda

		NsSub, NpSub := reducedIndices(substrate.At(w), sin2.At(w))

		for pi, pt := range ef.points {
			layer := pt.Layer
			Ns, Np := layers[layer].Ns[w], layers[layer].Np[w]

			partial := partialMatrixAt(Ns, Np, k, thicknesses[layer]*pt.Depth)
			front := multiply2x2(pp.Pre[layer][w].S, partial.S)
			frontP := multiply2x2(pp.Pre[layer][w].P, partial.P)

			Bs := front[0] + front[1]*NsSub
			Bp := frontP[0] + frontP[1]*NpSub

			es := sqAbs(Bs)
			ep := sqAbs(Bp)

			switch pol {
			case PolS:
				ef.Intensity[w][pi] = es
			case PolP:
				ef.Intensity[w][pi] = ep
			default:
				ef.Intensity[w][pi] = 0.5 * (es + ep)
			}
		}
	}
}

// partialMatrixAt builds a single-polarization-pair characteristic matrix
// for a sub-thickness of a layer whose reduced indices are already known,
// reusing the same phase-thickness formula as Matrices.Set.
func partialMatrixAt(Ns, Np complex128, k, thickness float64) Matrix {
	phiS := complex(k, 0) * Ns * complex(thickness, 0)
	if imag(phiS) < -100.0 {
		phiS = complex(real(phiS), -100.0)
	}
	phiP := complex(k, 0) * Ns * complex(thickness, 0)
	if imag(phiP) < -100.0 {
		phiP = complex(real(phiP), -100.0)
	}

	j := complex(0, 1)
	m := Matrix{}

	cs, sn := cmplx.Cos(phiS), cmplx.Sin(phiS)
	m.S[0], m.S[3] = cs, cs
	m.S[1] = j * sn / Ns
	m.S[2] = j * Ns * sn

	cp, sp := cmplx.Cos(phiP), cmplx.Sin(phiP)
	m.P[0], m.P[3] = cp, cp
	m.P[1] = j * sp / Np
	m.P[2] = j * Np * sp

	return m
}
