package abeles

import "math"

// PCHIP is a monotonicity-preserving piecewise cubic Hermite interpolating
// polynomial, per Hyman (1983) with a Fritsch-Carlson-style monotonicity
// limiter. The abscissa xa must be strictly increasing and of length >= 2.
//
// The interpolant is lazily prepared on first evaluation; Reset clears the
// cached coefficients so a later call re-derives them from (possibly new)
// data.
type PCHIP struct {
	xa, ya                                 []float64
	preserveMonotonicity, allowExtrapolation bool

	a0, a1, a2, a3 []float64
	prepared       bool
}

// NewPCHIP constructs a PCHIP over xa/ya. The slices are held by reference;
// mutating them in place requires a subsequent call to Reset.
func NewPCHIP(xa, ya []float64, preserveMonotonicity, allowExtrapolation bool) *PCHIP {
	return &PCHIP{
		xa: xa, ya: ya,
		preserveMonotonicity: preserveMonotonicity,
		allowExtrapolation:   allowExtrapolation,
	}
}

// Reset swaps in new data (if non-nil) and clears the prepared coefficients.
func (p *PCHIP) Reset(xa, ya []float64) {
	if xa != nil {
		p.xa = xa
	}
	if ya != nil {
		p.ya = ya
	}
	p.prepared = false
}

func (p *PCHIP) prepare() {
	n := len(p.xa)

	p.a0 = p.ya
	p.a1 = make([]float64, n)
	p.a2 = make([]float64, n)
	p.a3 = make([]float64, n)

	if n == 2 {
		S := (p.ya[1] - p.ya[0]) / (p.xa[1] - p.xa[0])
		p.a1[0] = S
		p.a1[1] = S
		p.prepared = true
		return
	}

	dx := make([]float64, n-1)
	S := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx[i] = p.xa[i+1] - p.xa[i]
		S[i] = (p.ya[i+1] - p.ya[i]) / dx[i]
	}

	df := make([]float64, n)
	df[0] = ((2.0*dx[0]+dx[1])*S[0] - dx[0]*S[1]) / (dx[0] + dx[1])
	df[n-1] = ((2.0*dx[n-2]+dx[n-3])*S[n-2] - dx[n-2]*S[n-3]) / (dx[n-2] + dx[n-3])
	for i := 1; i < n-1; i++ {
		df[i] = (dx[i-1]*S[i] + dx[i]*S[i-1]) / (dx[i-1] + dx[i])
	}

	if p.preserveMonotonicity {
		limitInterior := func(i int, sLeft, sRight float64) float64 {
			if sLeft > 0.0 && sRight > 0.0 {
				bound := 3.0 * math.Min(sLeft, sRight)
				return math.Max(0.0, math.Min(df[i], bound))
			}
			if sLeft < 0.0 && sRight < 0.0 {
				bound := 3.0 * math.Min(math.Abs(sLeft), math.Abs(sRight))
				return math.Min(0.0, math.Max(df[i], -bound))
			}
			if sLeft == 0.0 && sRight == 0.0 {
				return 0.0
			}
			// Slopes straddle (or touch) zero: clip magnitude, keep sign.
			bound := 3.0 * math.Min(math.Abs(sLeft), math.Abs(sRight))
			if df[i] >= 0.0 {
				return math.Min(df[i], bound)
			}
			return math.Max(df[i], -bound)
		}

		df[0] = limitInterior(0, S[0], S[0])
		df[n-1] = limitInterior(n-1, S[n-2], S[n-2])
		for i := 1; i < n-1; i++ {
			df[i] = limitInterior(i, S[i-1], S[i])
		}
	}

	for i := 0; i < n-1; i++ {
		p.a1[i] = df[i]
	}
	p.a1[n-1] = df[n-1]
	for i := 0; i < n-1; i++ {
		p.a2[i] = (3.0*S[i] - df[i+1] - 2.0*df[i]) / dx[i]
		p.a3[i] = -(2.0*S[i] - df[i+1] - df[i]) / (dx[i] * dx[i])
	}

	p.prepared = true
}

// locate returns the index i such that x lies in [xa[i], xa[i+1]] via
// bisection, clipping to the first/last interval when extrapolation is
// allowed, or returning ErrOutOfDomain otherwise.
func (p *PCHIP) locate(x float64) (int, error) {
	return locate(p.xa, x, p.allowExtrapolation)
}

// locate bisects X (strictly increasing, length >= 2) for the interval
// containing x, returning an interval index in [0, len(X)-2].
func locate(X []float64, x float64, allowExtrapolation bool) (int, error) {
	n := len(X)
	if x < X[0] {
		if allowExtrapolation {
			return 0, nil
		}
		return 0, ErrOutOfDomain
	}
	if x > X[n-1] {
		if allowExtrapolation {
			return n - 2, nil
		}
		return 0, ErrOutOfDomain
	}

	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if X[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	if lo == n-1 {
		lo = n - 2
	}
	return lo, nil
}

// Evaluate returns y(x) for every x in xs. When indices is non-nil it is
// used (and updated) as a per-point interval hint, avoiding a bisection
// when the caller already knows roughly where x lies; indices are trusted
// and not validated.
func (p *PCHIP) Evaluate(xs []float64, indices []int) ([]float64, error) {
	if !p.prepared {
		p.prepare()
	}
	y := make([]float64, len(xs))
	for j, x := range xs {
		var i int
		var err error
		if indices != nil {
			i = indices[j]
		} else {
			i, err = p.locate(x)
			if err != nil {
				return nil, err
			}
		}
		dxv := x - p.xa[i]
		y[j] = p.a0[i] + dxv*(p.a1[i]+dxv*(p.a2[i]+dxv*p.a3[i]))
		if indices != nil {
			indices[j] = i
		}
	}
	return y, nil
}

// EvaluateOne is a convenience wrapper around Evaluate for a single point,
// with an optional interval hint (pass -1 for none).
func (p *PCHIP) EvaluateOne(x float64, hint int) (float64, int, error) {
	idx := []int{hint}
	if hint < 0 {
		idx = nil
	}
	y, err := p.Evaluate([]float64{x}, idx)
	if err != nil {
		return 0, 0, err
	}
	if idx != nil {
		return y[0], idx[0], nil
	}
	i, _ := p.locate(x)
	return y[0], i, nil
}

// EvaluateDerivative returns dy/dx at every x in xs, using the analytical
// derivative of the cubic piece.
func (p *PCHIP) EvaluateDerivative(xs []float64, indices []int) ([]float64, error) {
	if !p.prepared {
		p.prepare()
	}
	dy := make([]float64, len(xs))
	for j, x := range xs {
		var i int
		var err error
		if indices != nil {
			i = indices[j]
		} else {
			i, err = p.locate(x)
			if err != nil {
				return nil, err
			}
		}
		dxv := x - p.xa[i]
		dy[j] = p.a1[i] + dxv*(2.0*p.a2[i]+3.0*dxv*p.a3[i])
		if indices != nil {
			indices[j] = i
		}
	}
	return dy, nil
}

// EvaluateDerivativeOne is the single-point convenience form.
func (p *PCHIP) EvaluateDerivativeOne(x float64, hint int) (float64, error) {
	idx := []int{hint}
	if hint < 0 {
		idx = nil
	}
	dy, err := p.EvaluateDerivative([]float64{x}, idx)
	if err != nil {
		return 0, err
	}
	return dy[0], nil
}

// EvaluateInverse finds x such that Evaluate(x) == y, for each y in ys,
// assuming ya is strictly monotone on the located interval. It uses a
// bounds-secured Newton iteration (Press et al. Numerical Recipes §9.4):
// start from whichever bracket endpoint has the smaller |residual|, take a
// Newton step when it stays inside the bracket, else bisect.
func (p *PCHIP) EvaluateInverse(ys []float64, indices []int) ([]float64, error) {
	if !p.prepared {
		p.prepare()
	}
	xs := make([]float64, len(ys))
	for j, y := range ys {
		var i int
		if indices != nil {
			i = indices[j]
		} else {
			var err error
			i, err = p.locateByOrdinate(y)
			if err != nil {
				return nil, err
			}
		}

		xLo, xHi := p.xa[i], p.xa[i+1]
		yLo := p.evalLocal(i, 0.0) - y
		yHi := p.evalLocal(i, xHi-xLo) - y

		var xCur float64
		if math.Abs(yLo) < math.Abs(yHi) {
			xCur = xLo
		} else {
			xCur = xHi
		}
		fCur := p.evalLocal(i, xCur-xLo) - y

		for {
			if fCur == 0.0 || xHi-xLo <= (xLo+xHi)*eps() {
				break
			}
			deriv := p.a1[i] + (xCur-xLo)*(2.0*p.a2[i]+3.0*(xCur-xLo)*p.a3[i])
			var xNext float64
			useNewton := deriv != 0.0
			if useNewton {
				xNext = xCur - fCur/deriv
				if xNext <= xLo || xNext >= xHi {
					useNewton = false
				}
			}
			if !useNewton {
				xNext = 0.5 * (xLo + xHi)
			}
			fNext := p.evalLocal(i, xNext-xLo) - y
			if (fNext < 0) == (yLo < 0) {
				xLo, yLo = xNext, fNext
			} else {
				xHi, yHi = xNext, fNext
			}
			xCur, fCur = xNext, fNext
		}

		xs[j] = xCur
		if indices != nil {
			indices[j] = i
		}
	}
	return xs, nil
}

func (p *PCHIP) evalLocal(i int, dxv float64) float64 {
	return p.a0[i] + dxv*(p.a1[i]+dxv*(p.a2[i]+dxv*p.a3[i]))
}

// locateByOrdinate finds the interval whose [ya[i],ya[i+1]] (in either
// orientation) brackets y, assuming ya is monotone.
func (p *PCHIP) locateByOrdinate(y float64) (int, error) {
	n := len(p.ya)
	increasing := p.ya[n-1] >= p.ya[0]
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if (p.ya[mid] <= y) == increasing {
			lo = mid
		} else {
			hi = mid
		}
	}
	if lo == n-1 {
		lo = n - 2
	}
	return lo, nil
}

func eps() float64 { return 2.220446049250313e-16 }
