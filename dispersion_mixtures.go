package abeles

import "math"

// ConstantMixture interpolates a non-dispersive index along the mixture
// coordinate X between a table of (x, n, k) anchor points, using a
// monotone PCHIP.
type ConstantMixture struct {
	xValues []float64
	n, k    []float64
	pN, pK  *PCHIP
}

// NewConstantMixture builds a constant-per-wavelength mixture from anchor
// points; xValues must be strictly increasing.
func NewConstantMixture(xValues, n, k []float64) *ConstantMixture {
	return &ConstantMixture{
		xValues: xValues, n: n, k: k,
		pN: NewPCHIP(xValues, n, true, false),
		pK: NewPCHIP(xValues, k, true, false),
	}
}

// SetN fills n (ignoring wavelength, since the law is non-dispersive) at
// mixture coordinate x.
func (c *ConstantMixture) SetN(n *NMixture, x float64) error {
	nv, _, err := c.pN.EvaluateOne(x, -1)
	if err != nil {
		return err
	}
	kv, _, err := c.pK.EvaluateOne(x, -1)
	if err != nil {
		return err
	}
	for i := range n.N {
		n.N[i] = complex(nv, kv)
	}
	return nil
}

// XOfN inverts the n(x) law (the wvl argument is unused since the law
// has no wavelength dependence).
func (c *ConstantMixture) XOfN(_ float64, targetIndexReal float64) (float64, error) {
	xs, err := c.pN.EvaluateInverse([]float64{targetIndexReal}, nil)
	if err != nil {
		return 0, err
	}
	return xs[0], nil
}

// TableMixture is a mixture of tabulated n/k materials, each with its own
// (wavelength, n, k) table, indexed along a monotone mixture coordinate X.
// Because callers typically sweep X at a fixed wavelength and then move
// to a nearby wavelength (as when building a derivative by finite
// difference), it keeps two cached cross-component PCHIPs, at a "center"
// and an "other" wavelength, and rotates between them in O(1) when a
// requested wavelength matches whichever of the two is not current.
type TableMixture struct {
	mixWvls []float64
	xValues []float64
	nTable  [][]float64 // [component][mixWvl index]
	kTable  [][]float64

	componentN []*PCHIP // per component, over mixWvls
	componentK []*PCHIP

	centerWvl, otherWvl     float64
	nCenter, kCenter        []float64
	nOther, kOther          []float64
	nCenterPCHIP, kCenterPCHIP *PCHIP
	nOtherPCHIP, kOtherPCHIP   *PCHIP
}

// NewTableMixture builds a table mixture from per-component tables.
// xValues gives each component's position on the monotone mixture
// coordinate; mixWvls is the (shared) internal wavelength grid each
// component's n/k table is sampled on.
func NewTableMixture(xValues, mixWvls []float64, nTable, kTable [][]float64) *TableMixture {
	m := &TableMixture{
		mixWvls: mixWvls, xValues: xValues,
		nTable: nTable, kTable: kTable,
	}
	m.componentN = make([]*PCHIP, len(xValues))
	m.componentK = make([]*PCHIP, len(xValues))
	for i := range xValues {
		m.componentN[i] = NewPCHIP(mixWvls, nTable[i], true, false)
		m.componentK[i] = NewPCHIP(mixWvls, kTable[i], true, false)
	}
	m.nCenter = make([]float64, len(xValues))
	m.kCenter = make([]float64, len(xValues))
	m.nOther = make([]float64, len(xValues))
	m.kOther = make([]float64, len(xValues))
	m.centerWvl = math.NaN()
	m.otherWvl = math.NaN()
	return m
}

func (m *TableMixture) rebuildAt(wvl float64, nOut, kOut []float64) (*PCHIP, *PCHIP, error) {
	for i := range m.xValues {
		nv, _, err := m.componentN[i].EvaluateOne(wvl, -1)
		if err != nil {
			return nil, nil, err
		}
		kv, _, err := m.componentK[i].EvaluateOne(wvl, -1)
		if err != nil {
			return nil, nil, err
		}
		nOut[i] = nv
		kOut[i] = kv
	}
	return NewPCHIP(m.xValues, nOut, true, false), NewPCHIP(m.xValues, kOut, true, false), nil
}

// setCenterWvl selects wvl as the active ("center") wavelength, reusing
// the cached "other" slot with an O(1) rotation if wvl matches it, and
// otherwise moving the current center into the "other" slot and
// rebuilding the center cache from the component tables.
func (m *TableMixture) setCenterWvl(wvl float64) error {
	if wvl == m.centerWvl {
		return nil
	}
	if wvl == m.otherWvl {
		m.centerWvl, m.otherWvl = m.otherWvl, m.centerWvl
		m.nCenter, m.nOther = m.nOther, m.nCenter
		m.kCenter, m.kOther = m.kOther, m.kCenter
		m.nCenterPCHIP, m.nOtherPCHIP = m.nOtherPCHIP, m.nCenterPCHIP
		m.kCenterPCHIP, m.kOtherPCHIP = m.kOtherPCHIP, m.kCenterPCHIP
		return nil
	}
	m.otherWvl = m.centerWvl
	m.nCenter, m.nOther = m.nOther, m.nCenter
	m.kCenter, m.kOther = m.kOther, m.kCenter
	m.nCenterPCHIP, m.nOtherPCHIP = m.nOtherPCHIP, m.nCenterPCHIP
	m.kCenterPCHIP, m.kOtherPCHIP = m.kOtherPCHIP, m.kCenterPCHIP
	m.centerWvl = math.NaN()
	nP, kP, err := m.rebuildAt(wvl, m.nCenter, m.kCenter)
	if err != nil {
		return err
	}
	m.centerWvl = wvl
	m.nCenterPCHIP, m.kCenterPCHIP = nP, kP
	return nil
}

// SetN fills n at mixture coordinate x, rebuilding (or O(1)-rotating) the
// cross-component cache as needed for every wavelength of n.
func (m *TableMixture) SetN(n *NMixture, x float64) error {
	for i := 0; i < n.wvls.Len(); i++ {
		wvl := n.wvls.At(i)
		if err := m.setCenterWvl(wvl); err != nil {
			return err
		}
		nv, _, err := m.nCenterPCHIP.EvaluateOne(x, -1)
		if err != nil {
			return err
		}
		kv, _, err := m.kCenterPCHIP.EvaluateOne(x, -1)
		if err != nil {
			return err
		}
		n.N[i] = complex(nv, kv)
	}
	return nil
}

// XOfN selects wvl and returns the mixture coordinate whose real index
// equals targetIndexReal at that wavelength.
func (m *TableMixture) XOfN(wvl, targetIndexReal float64) (float64, error) {
	if err := m.setCenterWvl(wvl); err != nil {
		return 0, err
	}
	xs, err := m.nCenterPCHIP.EvaluateInverse([]float64{targetIndexReal}, nil)
	if err != nil {
		return 0, err
	}
	return xs[0], nil
}

// CauchyMixture interpolates the three Cauchy coefficients (and the
// absorption-edge parameters) along the mixture coordinate X, using a
// monotone PCHIP per coefficient.
type CauchyMixture struct {
	xValues                      []float64
	a, b, c, ak, bk, edge         []float64
	pa, pb, pc, pak, pbk, pEdge   *PCHIP
}

// NewCauchyMixture builds a Cauchy-law mixture from per-component
// coefficient tables.
func NewCauchyMixture(xValues, a, b, c, ak, bk, edge []float64) *CauchyMixture {
	return &CauchyMixture{
		xValues: xValues, a: a, b: b, c: c, ak: ak, bk: bk, edge: edge,
		pa: NewPCHIP(xValues, a, true, false), pb: NewPCHIP(xValues, b, true, false),
		pc: NewPCHIP(xValues, c, true, false), pak: NewPCHIP(xValues, ak, true, false),
		pbk: NewPCHIP(xValues, bk, true, false), pEdge: NewPCHIP(xValues, edge, true, false),
	}
}

// SetN fills n at mixture coordinate x by interpolating the Cauchy
// coefficients and evaluating the resulting law at every wavelength.
func (c *CauchyMixture) SetN(n *NMixture, x float64) error {
	a, err := valueAt(c.pa, x)
	if err != nil {
		return err
	}
	b, err := valueAt(c.pb, x)
	if err != nil {
		return err
	}
	cc, err := valueAt(c.pc, x)
	if err != nil {
		return err
	}
	ak, err := valueAt(c.pak, x)
	if err != nil {
		return err
	}
	bk, err := valueAt(c.pbk, x)
	if err != nil {
		return err
	}
	edge, err := valueAt(c.pEdge, x)
	if err != nil {
		return err
	}
	law := &Cauchy{A: a, B: b, C: cc, Ak: ak, Bk: bk, Edge: edge}
	return law.SetN(n.toN())
}

// XOfN is not supported for Cauchy mixtures: the coefficients vary with
// X but the resulting n(x) at a fixed wavelength is not tabulated, so
// there is no cheap monotone inverse to evaluate. Callers needing
// inversion should use a table mixture.
func (c *CauchyMixture) XOfN(wvl, targetIndexReal float64) (float64, error) {
	return 0, ErrOutOfDomain
}

// SellmeierMixture interpolates the Sellmeier coefficients along the
// mixture coordinate X, using a monotone PCHIP per coefficient.
type SellmeierMixture struct {
	xValues                            []float64
	b1, c1, b2, c2, b3, c3, ak, bk, edge []float64
	pb1, pc1, pb2, pc2, pb3, pc3, pak, pbk, pEdge *PCHIP
}

// NewSellmeierMixture builds a Sellmeier-law mixture from per-component
// coefficient tables.
func NewSellmeierMixture(xValues, b1, c1, b2, c2, b3, c3, ak, bk, edge []float64) *SellmeierMixture {
	return &SellmeierMixture{
		xValues: xValues, b1: b1, c1: c1, b2: b2, c2: c2, b3: b3, c3: c3, ak: ak, bk: bk, edge: edge,
		pb1: NewPCHIP(xValues, b1, true, false), pc1: NewPCHIP(xValues, c1, true, false),
		pb2: NewPCHIP(xValues, b2, true, false), pc2: NewPCHIP(xValues, c2, true, false),
		pb3: NewPCHIP(xValues, b3, true, false), pc3: NewPCHIP(xValues, c3, true, false),
		pak: NewPCHIP(xValues, ak, true, false), pbk: NewPCHIP(xValues, bk, true, false),
		pEdge: NewPCHIP(xValues, edge, true, false),
	}
}

// SetN fills n at mixture coordinate x by interpolating the Sellmeier
// coefficients and evaluating the resulting law at every wavelength.
func (s *SellmeierMixture) SetN(n *NMixture, x float64) error {
	vals := make([]float64, 9)
	ps := []*PCHIP{s.pb1, s.pc1, s.pb2, s.pc2, s.pb3, s.pc3, s.pak, s.pbk, s.pEdge}
	for i, p := range ps {
		v, err := valueAt(p, x)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	law := &Sellmeier{
		B1: vals[0], C1: vals[1], B2: vals[2], C2: vals[3], B3: vals[4], C3: vals[5],
		Ak: vals[6], Bk: vals[7], Edge: vals[8],
	}
	return law.SetN(n.toN())
}

// XOfN is not supported for Sellmeier mixtures, for the same reason as
// CauchyMixture.XOfN.
func (s *SellmeierMixture) XOfN(wvl, targetIndexReal float64) (float64, error) {
	return 0, ErrOutOfDomain
}

func valueAt(p *PCHIP, x float64) (float64, error) {
	v, _, err := p.EvaluateOne(x, -1)
	return v, err
}

// toN adapts an NMixture to an *N for reuse of the plain dispersion laws;
// the two share the same (wvls, N) layout.
func (n *NMixture) toN() *N {
	return &N{wvls: n.wvls, N: n.N}
}
