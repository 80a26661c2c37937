package abeles

import "math"

// Sin2 holds, for every wavelength, the Snell invariant (N_incident(lambda)
// * sin(theta0))^2, where theta0 is the angle of incidence in the
// incident medium. Every layer's local sin^2(theta) is this invariant
// divided by that layer's N(lambda)^2.
type Sin2 struct {
	wvls   *Wvls
	values []complex128
}

// NewSin2 allocates a Sin2 sized to wvls, uninitialised.
func NewSin2(wvls *Wvls) *Sin2 {
	return &Sin2{wvls: wvls, values: make([]complex128, wvls.Len())}
}

// Set computes the Snell invariant from the incident medium's index and
// the angle of incidence in degrees.
func (s *Sin2) Set(incident *N, angleDeg float64) {
	sinTheta0 := math.Sin(angleDeg * math.Pi / 180.0)
	for i := 0; i < s.wvls.Len(); i++ {
		Ni := incident.N[i]
		t := Ni * complex(sinTheta0, 0)
		s.values[i] = t * t
	}
}

// At returns the Snell invariant at wavelength index i.
func (s *Sin2) At(i int) complex128 { return s.values[i] }
