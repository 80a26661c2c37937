package abeles

// N holds the complex index of refraction of a single material, one value
// per wavelength in the associated Wvls. By convention Im(N) <= 0 for an
// absorbing medium (N = n - i*k with k >= 0).
type N struct {
	wvls *Wvls
	N    []complex128
}

// NewN allocates an N sized to wvls, all entries zero.
func NewN(wvls *Wvls) *N {
	return &N{wvls: wvls, N: make([]complex128, wvls.Len())}
}

// Len returns the number of wavelengths.
func (n *N) Len() int { return len(n.N) }

// At returns the index at wavelength position i.
func (n *N) At(i int) complex128 { return n.N[i] }

// Set assigns the index at wavelength position i.
func (n *N) Set(i int, v complex128) { n.N[i] = v }

// Dispersion models the wavelength dependence of a material's index of
// refraction; implementations fill an N over a shared Wvls.
type Dispersion interface {
	// SetN fills n with this dispersion law evaluated at every wavelength
	// of the Wvls n was allocated against.
	SetN(n *N) error
}
