package abeles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGrowthMonitorHomogeneousMatchesEndpoints checks that a growth
// simulation of a new layer between an existing host layer and the
// substrate reproduces the bare host-only spectrum at zero thickness and the
// fully-grown two-layer spectrum at the target thickness.
func TestGrowthMonitorHomogeneousMatchesEndpoints(t *testing.T) {
	hostOnly := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.0, 0)}, Thickness: 100},
	}, 0.0, 550, 550, 1)

	growingIndex := complex(1.45, 0)
	targetThickness := 90.0

	full := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.0, 0)}, Thickness: 100},
		{Dispersion: &Constant{NValue: growingIndex}, Thickness: targetThickness},
	}, 0.0, 550, 550, 1)

	// Build a stack with the host layer plus a zero-thickness placeholder
	// for the growing layer, so the PreAndPostMatrices cache has a slot
	// for it at index 1, sitting directly on the substrate.
	withPlaceholder := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.0, 0)}, Thickness: 100},
		{Dispersion: &Constant{NValue: growingIndex}, Thickness: 0},
	}, 0.0, 550, 550, 1)

	gm := NewGrowthMonitor(550, []float64{0.0, targetThickness})
	gm.SetHomogeneous(1, growingIndex, withPlaceholder.prePost, 0, withPlaceholder.incidentN, withPlaceholder.substrateN, withPlaceholder.sin2, PolMixed)

	require.Len(t, gm.R, 2)
	assert.InDelta(t, hostOnly.Spectrum(PolMixed).R[0], gm.R[0], 1e-9)
	assert.InDelta(t, full.Spectrum(PolMixed).R[0], gm.R[1], 1e-9)
}
