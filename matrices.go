package abeles

import (
	"math"
	"math/cmplx"
)

// Matrix is a single layer's 2x2 characteristic matrices, one for each
// polarization, at one wavelength.
type Matrix struct {
	S [4]complex128
	P [4]complex128
}

// Matrices holds one Matrix per wavelength for a single layer.
type Matrices struct {
	wvls *Wvls
	M    []Matrix

	// Ns, Np cache the reduced indices used to build M, needed by the
	// derivative routines.
	Ns, Np []complex128
}

// NewMatrices allocates Matrices sized to wvls.
func NewMatrices(wvls *Wvls) *Matrices {
	return &Matrices{
		wvls: wvls,
		M:    make([]Matrix, wvls.Len()),
		Ns:   make([]complex128, wvls.Len()),
		Np:   make([]complex128, wvls.Len()),
	}
}

// reducedIndices returns the s and p reduced indices of a layer of index N
// given the Snell invariant sin2 at that wavelength, applying the branch
// correction for the square root of N_s when its real part lands exactly
// on zero (grazing / total-internal-reflection boundary).
func reducedIndices(Nl, sin2 complex128) (Ns, Np complex128) {
	Ns = cmplx.Sqrt(Nl*Nl - sin2)
	if real(Ns) == 0.0 {
		Ns = -Ns
	}
	Np = Nl * Nl / Ns
	return Ns, Np
}

// Set builds the characteristic matrices of a layer of index n and
// thickness (in the same length unit as the wavelengths) against the
// Snell invariant sin2, for every wavelength.
func (m *Matrices) Set(n *N, thickness float64, sin2 *Sin2) {
	for i := 0; i < m.wvls.Len(); i++ {
		lambda := m.wvls.At(i)
		Ns, Np := reducedIndices(n.At(i), sin2.At(i))
		m.Ns[i], m.Np[i] = Ns, Np

		k := 2.0 * math.Pi / lambda
		phi := complex(k, 0) * Ns * complex(thickness, 0)
		if imag(phi) < -100.0 {
			phi = complex(real(phi), -100.0)
		}

		cosPhi := cmplx.Cos(phi)
		sinPhi := cmplx.Sin(phi)
		j := complex(0, 1)

		m.M[i].S[0] = cosPhi
		m.M[i].S[1] = j * sinPhi / Ns
		m.M[i].S[2] = j * Ns * sinPhi
		m.M[i].S[3] = cosPhi

		m.M[i].P[0] = cosPhi
		m.M[i].P[1] = j * sinPhi / Np
		m.M[i].P[2] = j * Np * sinPhi
		m.M[i].P[3] = cosPhi
	}
}

// multiply2x2 returns a*b for 2x2 matrices stored row-major as [4]complex128.
func multiply2x2(a, b [4]complex128) [4]complex128 {
	return [4]complex128{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
	}
}

// unity2x2 is the 2x2 identity matrix.
func unity2x2() [4]complex128 {
	return [4]complex128{1, 0, 0, 1}
}

// GlobalMatrices is the product, wavelength by wavelength, of every
// layer's Matrices, ordered from the layer nearest the incident medium to
// the layer nearest the substrate.
type GlobalMatrices struct {
	wvls *Wvls
	M    []Matrix
}

// NewGlobalMatrices allocates a GlobalMatrices sized to wvls.
func NewGlobalMatrices(wvls *Wvls) *GlobalMatrices {
	return &GlobalMatrices{wvls: wvls, M: make([]Matrix, wvls.Len())}
}

// Multiply composes layers into g as M_1 * M_2 * ... * M_L; layers must be
// ordered from the one nearest the incident medium to the one nearest the
// substrate.
func (g *GlobalMatrices) Multiply(layers []*Matrices) {
	for i := 0; i < g.wvls.Len(); i++ {
		s, p := unity2x2(), unity2x2()
		for _, layer := range layers {
			s = multiply2x2(s, layer.M[i].S)
			p = multiply2x2(p, layer.M[i].P)
		}
		g.M[i] = Matrix{S: s, P: p}
	}
}
