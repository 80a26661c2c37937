package abeles

// Layer is one layer of a thin-film stack: a dispersion law and a
// thickness, in the same length unit as the stack's wavelengths.
type Layer struct {
	Dispersion Dispersion
	Thickness  float64
}

// Stack is a complete planar multilayer system: an incident medium, an
// ordered list of layers (nearest the incident medium first), and a
// substrate, all sharing one wavelength grid and angle of incidence.
type Stack struct {
	Wvls      *Wvls
	Incident  Dispersion
	Layers    []Layer
	Substrate Dispersion
	AngleDeg  float64

	incidentN  *N
	substrateN *N
	layerNs    []*N
	sin2       *Sin2
	matrices   []*Matrices
	global     *GlobalMatrices
	prePost    *PreAndPostMatrices
}

// Prepare evaluates every dispersion law on the stack's wavelength grid,
// builds the Snell invariant, every layer's characteristic matrices, and
// the global product, plus the pre/post matrix cache used by the
// derivative and needle routines. It must be called (again) whenever the
// wavelength grid, angle of incidence, a dispersion law or a thickness
// changes.
func (s *Stack) Prepare() error {
	s.incidentN = NewN(s.Wvls)
	if err := s.Incident.SetN(s.incidentN); err != nil {
		return err
	}
	s.substrateN = NewN(s.Wvls)
	if err := s.Substrate.SetN(s.substrateN); err != nil {
		return err
	}

	s.sin2 = NewSin2(s.Wvls)
	s.sin2.Set(s.incidentN, s.AngleDeg)

	s.layerNs = make([]*N, len(s.Layers))
	s.matrices = make([]*Matrices, len(s.Layers))
	for i, layer := range s.Layers {
		n := NewN(s.Wvls)
		if err := layer.Dispersion.SetN(n); err != nil {
			return err
		}
		s.layerNs[i] = n

		m := NewMatrices(s.Wvls)
		m.Set(n, layer.Thickness, s.sin2)
		s.matrices[i] = m
	}

	s.global = NewGlobalMatrices(s.Wvls)
	s.global.Multiply(s.matrices)

	s.prePost = NewPreAndPostMatrices(s.Wvls, len(s.Layers))
	s.prePost.Set(s.matrices)

	return nil
}

// RAndT returns the stack's amplitude reflection/transmission
// coefficients. Prepare must have been called first.
func (s *Stack) RAndT() *RAndT {
	rt := NewRAndT(s.Wvls)
	rt.Set(s.global, s.incidentN, s.substrateN, s.sin2)
	return rt
}

// Spectrum returns the stack's R/T/A for the given polarization. Prepare
// must have been called first.
func (s *Stack) Spectrum(pol Polarization) *Spectrum {
	rt := s.RAndT()
	sp := NewSpectrum(s.Wvls)
	sp.SetR(rt, pol)
	sp.SetT(rt, s.incidentN, s.substrateN, s.sin2, pol)
	sp.SetA()
	return sp
}

// Admittance returns the stack's optical admittance. Prepare must have
// been called first.
func (s *Stack) Admittance() *Admittance {
	ad := NewAdmittance(s.Wvls)
	ad.Set(s.global, s.substrateN, s.sin2)
	return ad
}

// Circle returns the stack's reflection-circle trace for the given
// polarization. Prepare must have been called first.
func (s *Stack) Circle(pol Polarization) *Circle {
	rt := s.RAndT()
	c := NewCircle(s.Wvls)
	c.Set(rt, pol)
	return c
}

// PsiAndDelta returns the stack's ellipsometric angles. Prepare must
// have been called first.
func (s *Stack) PsiAndDelta() *PsiAndDelta {
	rt := s.RAndT()
	pd := NewPsiAndDelta(s.Wvls)
	pd.Set(rt)
	return pd
}

// Phase returns the stack's unwrapped reflection phase for the given
// polarization. Prepare must have been called first.
func (s *Stack) Phase(pol Polarization) *Phase {
	rt := s.RAndT()
	ph := NewPhase(s.Wvls)
	ph.Set(rt, pol)
	return ph
}

// TransmissionPhase returns the stack's unwrapped transmission phase for
// the given polarization. Prepare must have been called first.
func (s *Stack) TransmissionPhase(pol Polarization) *TransmissionPhase {
	tp := NewTransmissionPhase(s.Wvls)
	tp.Set(s.global, s.incidentN, s.substrateN, s.sin2, pol)
	return tp
}

// GroupDelay returns the stack's group delay, derived from its own phase
// computation. Prepare must have been called first.
func (s *Stack) GroupDelay(pol Polarization) *GroupDelay {
	ph := s.Phase(pol)
	gd := NewGroupDelay(s.Wvls)
	gd.Set(ph)
	return gd
}

// GDD returns the stack's group delay dispersion, derived from its own
// phase computation. Prepare must have been called first.
func (s *Stack) GDD(pol Polarization) *GDD {
	ph := s.Phase(pol)
	gdd := NewGDD(s.Wvls)
	gdd.Set(ph)
	return gdd
}

// ThicknessDerivatives returns d(r,t,R,T)/d(thickness of the given layer).
// Prepare must have been called first.
func (s *Stack) ThicknessDerivatives(layer int, pol Polarization) *LayerDerivatives {
	rt := s.RAndT()
	ld := NewLayerDerivatives(s.Wvls)
	ld.SetThickness(layer, s.matrices, s.prePost, s.Layers[layer].Thickness, s.global, rt, s.incidentN, s.substrateN, s.sin2, pol)
	return ld
}

// IndexDerivatives returns d(r,t,R,T)/d(index of the given layer).
// Prepare must have been called first.
func (s *Stack) IndexDerivatives(layer int, pol Polarization) *LayerDerivatives {
	rt := s.RAndT()
	ld := NewLayerDerivatives(s.Wvls)
	ld.SetIndex(layer, s.matrices, s.prePost, s.Layers[layer].Thickness, s.layerNs[layer], s.global, rt, s.incidentN, s.substrateN, s.sin2, pol)
	return ld
}

// NeedleDerivatives returns d(R,T)/d(needle thickness) of a candidate
// material inserted at a grid of positions within the given layer.
// Prepare must have been called first.
func (s *Stack) NeedleDerivatives(layer int, candidate Dispersion, positionCount int, pol Polarization) (*NeedleDerivatives, error) {
	candN := NewN(s.Wvls)
	if err := candidate.SetN(candN); err != nil {
		return nil, err
	}
	positions := NewNeedlePositions(s.Layers[layer].Thickness, positionCount)
	nd := NewNeedleDerivatives(s.Wvls, positions)
	rt := s.RAndT()
	nd.Set(layer, s.matrices, s.Layers[layer].Thickness, s.prePost, s.global, rt, candN, s.incidentN, s.substrateN, s.sin2, pol)
	return nd, nil
}

// NeedleDerivativesPalette is the multi-candidate variant of
// NeedleDerivatives: it shares each position's host partial matrices
// across the whole palette instead of recomputing them per candidate.
// Prepare must have been called first.
func (s *Stack) NeedleDerivativesPalette(layer int, candidates []Dispersion, positionCount int, pol Polarization) ([]*NeedleDerivatives, error) {
	candNs := make([]*N, len(candidates))
	for i, c := range candidates {
		candNs[i] = NewN(s.Wvls)
		if err := c.SetN(candNs[i]); err != nil {
			return nil, err
		}
	}
	positions := NewNeedlePositions(s.Layers[layer].Thickness, positionCount)
	rt := s.RAndT()
	return NeedlePaletteDerivatives(s.Wvls, positions, layer, s.matrices, s.Layers[layer].Thickness, s.prePost, s.global, rt, candNs, s.incidentN, s.substrateN, s.sin2, pol), nil
}

// StepDerivatives returns d(R,T)/d(step) of the host layer's own index
// stepped above a grid of positions within the given layer. Prepare
// must have been called first.
func (s *Stack) StepDerivatives(layer int, positionCount int, pol Polarization) *StepDerivatives {
	positions := NewNeedlePositions(s.Layers[layer].Thickness, positionCount)
	sd := NewStepDerivatives(s.Wvls, positions)
	rt := s.RAndT()
	sd.Set(layer, s.matrices, s.Layers[layer].Thickness, s.prePost, s.layerNs[layer], s.global, rt, s.incidentN, s.substrateN, s.sin2, pol)
	return sd
}

// IndexDerivativesConstantOT returns d(r,t,R,T)/d(index of the given
// layer) holding optical thickness, rather than physical thickness,
// fixed. Prepare must have been called first.
func (s *Stack) IndexDerivativesConstantOT(layer int, pol Polarization) *LayerDerivatives {
	rt := s.RAndT()
	ld := NewLayerDerivatives(s.Wvls)
	ld.SetIndexConstantOT(layer, s.matrices, s.prePost, s.Layers[layer].Thickness, s.layerNs[layer], s.global, rt, s.incidentN, s.substrateN, s.sin2, pol)
	return ld
}

// ElectricField returns the normalized field intensity at the given
// sampling points. Prepare must have been called first.
func (s *Stack) ElectricField(points []FieldPoint, pol Polarization) *ElectricField {
	ef := NewElectricField(s.Wvls, points)
	thicknesses := make([]float64, len(s.Layers))
	for i, l := range s.Layers {
		thicknesses[i] = l.Thickness
	}
	ef.Set(s.matrices, thicknesses, s.prePost, s.substrateN, s.sin2, pol)
	return ef
}
