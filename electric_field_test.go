package abeles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestElectricFieldContinuousAcrossLayerBoundary checks that the field
// intensity sampled at the bottom of one layer (Depth=1) matches the
// intensity sampled at the top of the next layer (Depth=0), since both
// samples describe the same physical interface.
func TestElectricFieldContinuousAcrossLayerBoundary(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.2, 0.02)}, Thickness: 90},
		{Dispersion: &Constant{NValue: complex(1.46, 0.0)}, Thickness: 140},
	}, 10.0, 450, 650, 5)

	ef := s.ElectricField([]FieldPoint{
		{Layer: 0, Depth: 1.0},
		{Layer: 1, Depth: 0.0},
	}, PolMixed)

	for w := range ef.Intensity {
		assert.InDelta(t, ef.Intensity[w][0], ef.Intensity[w][1], 1e-9)
	}
}

// TestElectricFieldSAndPAgreeAtNormalIncidence checks that, at normal
// incidence, the s and p reduced indices coincide for every layer and
// the substrate, so the field magnitudes sampled for each polarization
// must agree everywhere.
func TestElectricFieldSAndPAgreeAtNormalIncidence(t *testing.T) {
	s := buildStack(t, complex(1.0, 0), complex(1.52, 0), []Layer{
		{Dispersion: &Constant{NValue: complex(2.2, 0.02)}, Thickness: 90},
		{Dispersion: &Constant{NValue: complex(1.46, 0.0)}, Thickness: 140},
	}, 0.0, 450, 650, 5)

	points := []FieldPoint{{Layer: 0, Depth: 0.3}, {Layer: 1, Depth: 0.7}}
	efS := s.ElectricField(points, PolS)
	efP := s.ElectricField(points, PolP)

	for w := range efS.Intensity {
		for p := range points {
			assert.InDelta(t, efS.Intensity[w][p], efP.Intensity[w][p], 1e-9)
		}
	}
}
