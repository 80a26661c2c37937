package abeles

import "errors"

// Sentinel errors for the three failure kinds the core can report.
// Success is represented by a nil error.
var (
	// ErrOutOfMemory marks an allocation failure while building internal
	// scratch (mixture PCHIPs, pre/post matrices, ...).
	ErrOutOfMemory = errors.New("abeles: out of memory")

	// ErrOutOfDomain marks a PCHIP lookup or inverse evaluation outside the
	// interpolant's domain when extrapolation is not allowed.
	ErrOutOfDomain = errors.New("abeles: value out of domain")

	// ErrNonMonotonic marks a mixture inversion requested against a cached
	// index profile that is not strictly increasing in the mixture
	// coordinate.
	ErrNonMonotonic = errors.New("abeles: mixture index is not monotonic")
)
