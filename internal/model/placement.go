package model

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/schelling/internal/config"
)

// densityField yields the per-cell occupation probability used at setup.
// With amplitude 0 it is the flat density parameter (independent Bernoulli
// draws, the standard model); a nonzero amplitude shifts the probability by
// a simplex noise field so the initial population forms spatial clusters.
type densityField struct {
	base      float64
	amplitude float64
	scale     float64
	noise     opensimplex.Noise
}

func newDensityField(cfg config.Config, seed int64) *densityField {
	f := &densityField{
		base:      cfg.Density,
		amplitude: cfg.ClusterAmplitude,
		scale:     cfg.ClusterScale,
	}
	if f.amplitude != 0 {
		// Offset keeps the field decoupled from the primary source's seed.
		f.noise = opensimplex.NewNormalized(seed + 1)
	}
	return f
}

func (f *densityField) at(x, y int) float64 {
	if f.noise == nil {
		return f.base
	}
	// Normalized noise is in [0,1]; center it so amplitude shifts the base
	// density symmetrically.
	v := f.noise.Eval2(float64(x)/f.scale, float64(y)/f.scale)
	p := f.base + f.amplitude*(v-0.5)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
