package abeles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizePaletteSnapsToNearestLevel(t *testing.T) {
	palette := []complex128{complex(1.45, 0), complex(1.8, 0), complex(2.2, 0)}
	profile := []complex128{complex(1.5, 0), complex(1.9, 0), complex(2.3, 0), complex(1.0, 0)}

	out := QuantizePalette(profile, palette)

	assert.Equal(t, complex(1.45, 0), out[0])
	assert.Equal(t, complex(1.8, 0), out[1])
	assert.Equal(t, complex(2.2, 0), out[2])
	assert.Equal(t, complex(1.45, 0), out[3])
}

func TestQuantizePaletteIsOrderIndependent(t *testing.T) {
	palette := []complex128{complex(2.2, 0), complex(1.45, 0), complex(1.8, 0)}
	profile := []complex128{complex(1.62, 0)}
	out := QuantizePalette(profile, palette)
	assert.Equal(t, complex(1.45, 0), out[0])
}
