package fitness

import (
	"context"
	"fmt"
	"math"

	"antevo/pkg/antenna"
	"antevo/pkg/moo/framework"
)

// SurrogateSource is a closed-form stand-in for the electromagnetic solver:
// a smooth horn-like gain curve plus standing-wave ripple whose amplitude
// grows with waveguide length and unridged wall area. It is deterministic in
// the genotype, so runs stay reproducible, and it gives the objectives a
// real trade-off surface for development and tests.
type SurrogateSource struct {
	FreqStartMHz float64
	FreqStopMHz  float64
	NumSamples   int
}

func NewSurrogateSource() *SurrogateSource {
	return &SurrogateSource{
		FreqStartMHz: 50,
		FreqStopMHz:  200,
		NumSamples:   151,
	}
}

func (s *SurrogateSource) Spectrum(_ context.Context, ind *framework.Individual) (Spectrum, error) {
	g, ok := ind.Genome.(*antenna.Genotype)
	if !ok {
		return Spectrum{}, fmt.Errorf("individual %d does not carry an antenna genotype", ind.ID)
	}
	if s.NumSamples < 2 {
		return Spectrum{}, fmt.Errorf("surrogate needs at least 2 samples, got %d", s.NumSamples)
	}

	// Aperture gain rises with overall height; the electrical length of the
	// waveguide sets the ripple period, and ridged walls damp the ripple.
	const c = 29979.2458 // cm·MHz
	gainDB := 10 * math.Log10(1+g.Height/100)
	ripple := 0.05 * g.WaveguideLength / 100
	for _, wp := range g.Walls {
		if wp.HasRidge {
			ripple *= 1 / (1 + wp.RidgeThickness/50)
		} else {
			ripple *= 1 + wp.Width/200
		}
	}

	spec := Spectrum{
		FreqMHz: make([]float64, s.NumSamples),
		PowerDB: make([]float64, s.NumSamples),
	}
	step := (s.FreqStopMHz - s.FreqStartMHz) / float64(s.NumSamples-1)
	for i := range spec.FreqMHz {
		f := s.FreqStartMHz + float64(i)*step
		rolloff := 0.002 * (f - s.FreqStartMHz) * (g.WaveguideHeight / 500)
		phase := 2 * math.Pi * f * 2 * g.WaveguideLength / c
		spec.FreqMHz[i] = f
		spec.PowerDB[i] = gainDB - rolloff + ripple*math.Sin(phase)
	}
	return spec, nil
}
