// Package config loads a thin-film stack description from JSON5 by
// decoding it into nested maps and looking up each leaf by key.
package config

import (
	"fmt"

	json "github.com/KevinWang15/go-json5"

	"github.com/bob-anderson-ok/abeles"
)

// MaterialConfig describes one material's dispersion law. Exactly one of
// the law-specific fields should be populated, selected by Kind.
type MaterialConfig struct {
	Kind string `json:"kind"`

	ConstantN float64 `json:"n"`
	ConstantK float64 `json:"k"`

	TableWvlsNm []float64 `json:"table_wvls_nm"`
	TableN      []float64 `json:"table_n"`
	TableK      []float64 `json:"table_k"`

	CauchyA, CauchyB, CauchyC      float64
	CauchyAk, CauchyBk, CauchyEdge float64

	SellmeierB1, SellmeierC1 float64
	SellmeierB2, SellmeierC2 float64
	SellmeierB3, SellmeierC3 float64
	SellmeierAk, SellmeierBk, SellmeierEdge float64
}

// Dispersion builds the abeles.Dispersion this config describes.
func (m MaterialConfig) Dispersion() (abeles.Dispersion, error) {
	switch m.Kind {
	case "constant":
		return &abeles.Constant{NValue: complex(m.ConstantN, m.ConstantK)}, nil
	case "table":
		if len(m.TableWvlsNm) < 2 {
			return nil, fmt.Errorf("abeles/config: table material needs at least 2 points")
		}
		return abeles.NewTable(m.TableWvlsNm, m.TableN, m.TableK), nil
	case "cauchy":
		return &abeles.Cauchy{A: m.CauchyA, B: m.CauchyB, C: m.CauchyC, Ak: m.CauchyAk, Bk: m.CauchyBk, Edge: m.CauchyEdge}, nil
	case "sellmeier":
		return &abeles.Sellmeier{
			B1: m.SellmeierB1, C1: m.SellmeierC1,
			B2: m.SellmeierB2, C2: m.SellmeierC2,
			B3: m.SellmeierB3, C3: m.SellmeierC3,
			Ak: m.SellmeierAk, Bk: m.SellmeierBk, Edge: m.SellmeierEdge,
		}, nil
	default:
		return nil, fmt.Errorf("abeles/config: unknown material kind %q", m.Kind)
	}
}

// LayerConfig is one layer of the stack: a material and a thickness in
// nanometres.
type LayerConfig struct {
	Material    MaterialConfig `json:"material"`
	ThicknessNm float64        `json:"thickness_nm"`
}

// StackConfig is a complete stack description.
type StackConfig struct {
	AngleOfIncidenceDeg float64         `json:"angle_of_incidence_deg"`
	WavelengthStartNm   float64         `json:"wavelength_start_nm"`
	WavelengthEndNm     float64         `json:"wavelength_end_nm"`
	WavelengthCount     int             `json:"wavelength_count"`
	Incident            MaterialConfig  `json:"incident"`
	Substrate           MaterialConfig  `json:"substrate"`
	Layers              []LayerConfig   `json:"layers"`
}

// Load reads and validates a stack configuration from JSON5 bytes,
// filling in defaults for the optional fields (angle of incidence
// defaults to normal incidence, wavelength count defaults to 200).
func Load(data []byte) (*StackConfig, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("abeles/config: %w", err)
	}

	cfg := &StackConfig{}

	if v, ok := leaf(raw, "angle_of_incidence_deg"); ok {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("abeles/config: angle_of_incidence_deg is not a number")
		}
		cfg.AngleOfIncidenceDeg = f
	}

	start, ok := leaf(raw, "wavelength_start_nm")
	if !ok {
		return nil, fmt.Errorf("abeles/config: wavelength_start_nm is required")
	}
	cfg.WavelengthStartNm, ok = start.(float64)
	if !ok {
		return nil, fmt.Errorf("abeles/config: wavelength_start_nm is not a number")
	}

	end, ok := leaf(raw, "wavelength_end_nm")
	if !ok {
		return nil, fmt.Errorf("abeles/config: wavelength_end_nm is required")
	}
	cfg.WavelengthEndNm, ok = end.(float64)
	if !ok {
		return nil, fmt.Errorf("abeles/config: wavelength_end_nm is not a number")
	}

	if v, ok := leaf(raw, "wavelength_count"); ok {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("abeles/config: wavelength_count is not a number")
		}
		cfg.WavelengthCount = int(f)
	} else {
		cfg.WavelengthCount = 200
	}

	incident, err := materialFrom(raw, "incident")
	if err != nil {
		return nil, err
	}
	cfg.Incident = incident

	substrate, err := materialFrom(raw, "substrate")
	if err != nil {
		return nil, err
	}
	cfg.Substrate = substrate

	layersRaw, ok := leaf(raw, "layers")
	if !ok {
		return nil, fmt.Errorf("abeles/config: layers is required")
	}
	layerList, ok := layersRaw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("abeles/config: layers is not an array")
	}
	for i, lr := range layerList {
		lm, ok := lr.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("abeles/config: layers[%d] is not an object", i)
		}
		mat, err := materialFrom(lm, "material")
		if err != nil {
			return nil, fmt.Errorf("abeles/config: layers[%d]: %w", i, err)
		}
		th, ok := leaf(lm, "thickness_nm")
		if !ok {
			return nil, fmt.Errorf("abeles/config: layers[%d]: thickness_nm is required", i)
		}
		thf, ok := th.(float64)
		if !ok {
			return nil, fmt.Errorf("abeles/config: layers[%d]: thickness_nm is not a number", i)
		}
		cfg.Layers = append(cfg.Layers, LayerConfig{Material: mat, ThicknessNm: thf})
	}

	return cfg, nil
}

// materialFrom reads the material config nested under key in m (for a
// layer, m is the layer object and key is "material").
func materialFrom(m map[string]interface{}, key string) (MaterialConfig, error) {
	obj, ok := leaf(m, key)
	if !ok {
		return MaterialConfig{}, fmt.Errorf("abeles/config: %s is required", key)
	}
	om, ok := obj.(map[string]interface{})
	if !ok {
		return MaterialConfig{}, fmt.Errorf("abeles/config: %s is not an object", key)
	}

	kindV, ok := leaf(om, "kind")
	if !ok {
		return MaterialConfig{}, fmt.Errorf("abeles/config: %s.kind is required", key)
	}
	kind, ok := kindV.(string)
	if !ok {
		return MaterialConfig{}, fmt.Errorf("abeles/config: %s.kind is not a string", key)
	}

	mc := MaterialConfig{Kind: kind}
	switch kind {
	case "constant":
		mc.ConstantN = floatOr(om, "n", 1.0)
		mc.ConstantK = floatOr(om, "k", 0.0)
	case "table":
		mc.TableWvlsNm = floatsOr(om, "wvls_nm")
		mc.TableN = floatsOr(om, "n")
		mc.TableK = floatsOr(om, "k")
	case "cauchy":
		mc.CauchyA = floatOr(om, "a", 1.0)
		mc.CauchyB = floatOr(om, "b", 0.0)
		mc.CauchyC = floatOr(om, "c", 0.0)
		mc.CauchyAk = floatOr(om, "ak", 0.0)
		mc.CauchyBk = floatOr(om, "bk", 0.0)
		mc.CauchyEdge = floatOr(om, "edge", 300.0)
	case "sellmeier":
		mc.SellmeierB1 = floatOr(om, "b1", 0.0)
		mc.SellmeierC1 = floatOr(om, "c1", 0.0)
		mc.SellmeierB2 = floatOr(om, "b2", 0.0)
		mc.SellmeierC2 = floatOr(om, "c2", 0.0)
		mc.SellmeierB3 = floatOr(om, "b3", 0.0)
		mc.SellmeierC3 = floatOr(om, "c3", 0.0)
		mc.SellmeierAk = floatOr(om, "ak", 0.0)
		mc.SellmeierBk = floatOr(om, "bk", 0.0)
		mc.SellmeierEdge = floatOr(om, "edge", 300.0)
	default:
		return MaterialConfig{}, fmt.Errorf("abeles/config: %s.kind %q is not recognised", key, kind)
	}
	return mc, nil
}

func floatOr(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := leaf(m, key); ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func floatsOr(m map[string]interface{}, key string) []float64 {
	v, ok := leaf(m, key)
	if !ok {
		return nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]float64, len(arr))
	for i, x := range arr {
		f, _ := x.(float64)
		out[i] = f
	}
	return out
}

// leaf walks a single key off a decoded JSON5 object, reporting whether
// the key is present.
func leaf(m map[string]interface{}, key string) (interface{}, bool) {
	v, ok := m[key]
	return v, ok
}

// BuildStack constructs an abeles.Stack from this configuration. The
// caller still owns calling Prepare on the result.
func (c *StackConfig) BuildStack() (*abeles.Stack, error) {
	incident, err := c.Incident.Dispersion()
	if err != nil {
		return nil, err
	}
	substrate, err := c.Substrate.Dispersion()
	if err != nil {
		return nil, err
	}

	layers := make([]abeles.Layer, len(c.Layers))
	for i, l := range c.Layers {
		d, err := l.Material.Dispersion()
		if err != nil {
			return nil, fmt.Errorf("abeles/config: layers[%d]: %w", i, err)
		}
		layers[i] = abeles.Layer{Dispersion: d, Thickness: l.ThicknessNm}
	}

	wvls := abeles.NewWvlsByRange(c.WavelengthCount, c.WavelengthStartNm,
		(c.WavelengthEndNm-c.WavelengthStartNm)/float64(c.WavelengthCount-1))

	return &abeles.Stack{
		Wvls:      wvls,
		Incident:  incident,
		Layers:    layers,
		Substrate: substrate,
		AngleDeg:  c.AngleOfIncidenceDeg,
	}, nil
}
