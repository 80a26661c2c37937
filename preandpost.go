package abeles

// PreAndPostMatrices caches, for every layer and wavelength, the product
// of the characteristic matrices on each side of that layer, so a single
// layer's contribution to the global matrix can be recomputed in O(1)
// instead of redoing the full O(L) product. For layer i:
//
//	Global(wavelength) == Pre[i] * Mi[i] * Post[i]
//
// where Pre[i] is the product of every layer before i (incident side) and
// Post[i] is the product of every layer after i (substrate side).
type PreAndPostMatrices struct {
	wvls   *Wvls
	layers int

	// Pre[i][w], Post[i][w] are indexed [layer][wavelength].
	Pre  [][]Matrix
	Post [][]Matrix
}

// NewPreAndPostMatrices allocates caches for the given number of layers
// over wvls.
func NewPreAndPostMatrices(wvls *Wvls, layers int) *PreAndPostMatrices {
	p := &PreAndPostMatrices{wvls: wvls, layers: layers}
	p.Pre = make([][]Matrix, layers)
	p.Post = make([][]Matrix, layers)
	for i := 0; i < layers; i++ {
		p.Pre[i] = make([]Matrix, wvls.Len())
		p.Post[i] = make([]Matrix, wvls.Len())
	}
	return p
}

// Set rebuilds the pre/post caches from the per-layer Matrices, ordered
// from the incident side to the substrate side.
func (p *PreAndPostMatrices) Set(layers []*Matrices) {
	n := p.wvls.Len()
	L := len(layers)
	if L == 0 {
		return
	}
	for w := 0; w < n; w++ {
		accumS, accumP := unity2x2(), unity2x2()
		for i := 0; i < L; i++ {
			p.Pre[i][w] = Matrix{S: accumS, P: accumP}
			accumS = multiply2x2(accumS, layers[i].M[w].S)
			accumP = multiply2x2(accumP, layers[i].M[w].P)
		}

		p.Post[L-1][w] = Matrix{S: unity2x2(), P: unity2x2()}
		for i := L - 2; i >= 0; i-- {
			nextS := multiply2x2(layers[i+1].M[w].S, p.Post[i+1][w].S)
			nextP := multiply2x2(layers[i+1].M[w].P, p.Post[i+1][w].P)
			p.Post[i][w] = Matrix{S: nextS, P: nextP}
		}
	}
}

// Global returns Pre[layer]*Mi*Post[layer] for one wavelength, the global
// matrix recomposed around a (possibly perturbed) layer matrix mi.
func (p *PreAndPostMatrices) Global(layer, w int, mi Matrix) Matrix {
	s := multiply2x2(multiply2x2(p.Pre[layer][w].S, mi.S), p.Post[layer][w].S)
	pp := multiply2x2(multiply2x2(p.Pre[layer][w].P, mi.P), p.Post[layer][w].P)
	return Matrix{S: s, P: pp}
}
