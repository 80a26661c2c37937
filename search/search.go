// Package search builds the two design heuristics used to improve a
// stack on the needle and thickness-derivative kernels of the root
// abeles package: inserting a needle of a new material at the most
// promising position (a direct scan over the needle-derivative grid),
// and refining an existing layer's thickness by local descent on a merit
// function (through gonum's optimizer).
package search

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/bob-anderson-ok/abeles"
)

// MeritFunc scores a stack (lower is better), typically a weighted sum
// of squared deviations from target R/T/A values over the wavelength
// grid.
type MeritFunc func(*abeles.Stack) float64

// BestNeedleInsertion scans the needle derivative of candidate within
// layer and returns the position (thickness offset from the top of the
// layer) where the weighted sum over wavelengths of wR*dR + wT*dT (per
// unit needle thickness) is most negative, along with that sum. weights
// defaults to wR = wT = 1 at every wavelength when nil.
func BestNeedleInsertion(s *abeles.Stack, layer int, candidate abeles.Dispersion, positionCount int, pol abeles.Polarization, weights func(wvlIndex int) (wR, wT float64)) (position float64, derivative float64, err error) {
	nd, err := s.NeedleDerivatives(layer, candidate, positionCount, pol)
	if err != nil {
		return 0, 0, err
	}

	best := math.Inf(1)
	bestPos := 0.0
	n := nd.DR
	for pi := 0; pi < len(n[0]); pi++ {
		sum := 0.0
		for w := range n {
			wR, wT := 1.0, 1.0
			if weights != nil {
				wR, wT = weights(w)
			}
			sum += wR*n[w][pi] + wT*nd.DT[w][pi]
		}
		if sum < best {
			best = sum
			bestPos = float64(pi)
		}
	}

	spacing := s.Layers[layer].Thickness / float64(positionCount)
	return bestPos * spacing, best, nil
}

// MeritGrad returns dMerit/d(layer thickness) given the stack (already
// rebuilt and prepared at the current trial thickness by RefineThickness)
// and that layer's thickness derivatives, e.g. a weighted sum of
// 2*(R[w]-target[w])*ld.DR[w] for a least-squares merit function.
type MeritGrad func(s *abeles.Stack, ld *abeles.LayerDerivatives) float64

// RefineThickness performs a local 1-D minimization of merit with respect
// to the thickness of a single layer, starting from its current value.
// rebuild must set the layer's thickness on s and call s.Prepare again;
// it is the caller's responsibility because abeles.Stack has no public
// thickness setter (layers are owned by the caller's own slice).
//
// If grad is non-nil, it is combined with s.ThicknessDerivatives(layer,
// pol) to supply gonum's optimize package an analytic gradient, and the
// search uses BFGS. If grad is nil, the search falls back to the
// derivative-free NelderMead minimizer.
func RefineThickness(s *abeles.Stack, layer int, pol abeles.Polarization, rebuild func(thickness float64) error, initial float64, merit MeritFunc, grad MeritGrad) (float64, error) {
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if err := rebuild(x[0]); err != nil {
				return math.Inf(1)
			}
			return merit(s)
		},
	}

	method := optimize.Method(&optimize.NelderMead{})
	if grad != nil {
		problem.Grad = func(g, x []float64) {
			if err := rebuild(x[0]); err != nil {
				g[0] = 0
				return
			}
			ld := s.ThicknessDerivatives(layer, pol)
			g[0] = grad(s, ld)
		}
		method = &optimize.BFGS{}
	}

	result, err := optimize.Minimize(problem, []float64{initial}, nil, method)
	if err != nil {
		return initial, err
	}
	return result.X[0], nil
}
