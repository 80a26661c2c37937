package abeles

import "gonum.org/v1/gonum/floats"

// Wvls is an ordered sequence of wavelengths, in nanometres, shared by
// reference among every wavelength-parameterised container in this
// package. It is never mutated once filled except through Set/SetByRange.
type Wvls struct {
	wvls []float64
}

// NewWvls allocates a Wvls of the given length, all wavelengths zero.
func NewWvls(length int) *Wvls {
	return &Wvls{wvls: make([]float64, length)}
}

// NewWvlsByRange allocates and fills a Wvls with `length` wavelengths
// starting at from and spaced by by.
func NewWvlsByRange(length int, from, by float64) *Wvls {
	w := NewWvls(length)
	w.SetByRange(from, by)
	return w
}

// Len returns the number of wavelengths.
func (w *Wvls) Len() int { return len(w.wvls) }

// At returns the wavelength at position i.
func (w *Wvls) At(i int) float64 { return w.wvls[i] }

// Slice returns the underlying wavelength slice. Callers must not retain
// it across a call to Set/SetByRange.
func (w *Wvls) Slice() []float64 { return w.wvls }

// Set assigns a single wavelength.
func (w *Wvls) Set(position int, wvl float64) { w.wvls[position] = wvl }

// SetByRange fills the wavelength grid as from + i*by for i in [0, length).
func (w *Wvls) SetByRange(from, by float64) {
	n := len(w.wvls)
	if n == 0 {
		return
	}
	if n == 1 {
		w.wvls[0] = from
		return
	}
	floats.Span(w.wvls, from, from+by*float64(n-1))
}
