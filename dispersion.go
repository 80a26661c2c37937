package abeles

import "math"

// Constant is a non-dispersive material: the same complex index at every
// wavelength.
type Constant struct {
	NValue complex128
}

// SetN fills n with the constant index at every wavelength.
func (c *Constant) SetN(n *N) error {
	for i := range n.N {
		n.N[i] = c.NValue
	}
	return nil
}

// Table is a tabulated n/k dispersion, interpolated with a monotonicity
// preserving PCHIP in both n and k independently against wavelength.
type Table struct {
	wvls    []float64
	nValues []float64
	kValues []float64

	nPCHIP *PCHIP
	kPCHIP *PCHIP
}

// NewTable builds a table dispersion from (wavelength, n, k) triples. The
// wavelengths must be strictly increasing.
func NewTable(wvls, nValues, kValues []float64) *Table {
	t := &Table{wvls: wvls, nValues: nValues, kValues: kValues}
	t.nPCHIP = NewPCHIP(t.wvls, t.nValues, true, false)
	t.kPCHIP = NewPCHIP(t.wvls, t.kValues, true, false)
	return t
}

// SetN evaluates the table's PCHIPs at every wavelength of n.
func (t *Table) SetN(n *N) error {
	ny, err := t.nPCHIP.Evaluate(n.wvls.Slice(), nil)
	if err != nil {
		return err
	}
	ky, err := t.kPCHIP.Evaluate(n.wvls.Slice(), nil)
	if err != nil {
		return err
	}
	for i := range n.N {
		n.N[i] = complex(ny[i], math.Min(ky[i], 0.0))
	}
	return nil
}

// Cauchy is the classic three-term Cauchy dispersion for the real part,
// n(wmu) = A + B/wmu^2 + C/wmu^4 with wmu := lambda/1000 (lambda in
// nanometres, wmu in micrometres), with an Urbach-tail exponential
// absorption edge,
// k(lambda) = -Ak * exp(12400*Bk * (1/(10000*wmu) - 1/Edge)).
type Cauchy struct {
	A, B, C      float64
	Ak, Bk, Edge float64
}

// SetN evaluates the Cauchy law at every wavelength of n.
func (c *Cauchy) SetN(n *N) error {
	for i := 0; i < n.wvls.Len(); i++ {
		wmu := n.wvls.At(i) / 1000.0
		l2 := wmu * wmu
		nr := c.A + c.B/l2 + c.C/(l2*l2)
		var k float64
		if c.Ak != 0.0 {
			k = -c.Ak * math.Exp(12400.0*c.Bk*(1.0/(10000.0*wmu)-1.0/c.Edge))
		}
		n.N[i] = complex(nr, k)
	}
	return nil
}

// Sellmeier is the three-resonance Sellmeier dispersion,
// n(lambda)^2 = 1 + sum_i B_i*lambda^2 / (lambda^2 - C_i), lambda in
// micrometres, with the same Urbach-tail absorption edge as Cauchy.
type Sellmeier struct {
	B1, C1, B2, C2, B3, C3 float64
	Ak, Bk, Edge           float64
}

// SetN evaluates the Sellmeier law at every wavelength of n.
func (s *Sellmeier) SetN(n *N) error {
	for i := 0; i < n.wvls.Len(); i++ {
		lambda := n.wvls.At(i) / 1000.0
		l2 := lambda * lambda
		n2 := 1.0
		n2 += term(s.B1, s.C1, l2)
		n2 += term(s.B2, s.C2, l2)
		n2 += term(s.B3, s.C3, l2)
		nr := math.Sqrt(math.Max(n2, 0.0))
		var k float64
		if s.Ak != 0.0 {
			k = -s.Ak * math.Exp(12400.0*s.Bk*(1.0/(10000.0*lambda)-1.0/s.Edge))
		}
		n.N[i] = complex(nr, k)
	}
	return nil
}

func term(b, c, l2 float64) float64 {
	denom := l2 - c
	if denom == 0.0 {
		return 0.0
	}
	return b * l2 / denom
}
