package antenna

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jinzhu/copier"

	"antevo/pkg/moo/framework"
)

// Spec fixes the bound intervals for the scalar genes and the mutation
// parameters. A Spec is immutable once built and is shared between a
// genotype and its clones.
type Spec struct {
	MinHeight float64
	MaxHeight float64

	MinWaveguideHeight float64
	MaxWaveguideHeight float64

	MinWaveguideLength float64
	MaxWaveguideLength float64

	// PerSiteMutRate is the chance each individual gene mutates.
	PerSiteMutRate float64
	// MutEffectSize is the standard deviation of the Gaussian perturbation.
	MutEffectSize float64
}

// Genotype holds an individual antenna's design genes: the overall height,
// the two waveguide dimensions and an ordered sequence of wall pairs.
type Genotype struct {
	Spec *Spec

	Height          float64
	WaveguideHeight float64
	WaveguideLength float64
	Walls           []*WallPair
}

var _ framework.Genome = (*Genotype)(nil)

// NewGenotype validates the wall sequence before constructing: every entry
// must be a well-formed wall pair honoring the ridge invariant.
func NewGenotype(spec *Spec, height, waveguideHeight, waveguideLength float64, walls []*WallPair) (*Genotype, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: spec is required", ErrConstruction)
	}
	for i, wp := range walls {
		if wp == nil {
			return nil, fmt.Errorf("%w: wall %d is not a wall pair", ErrConstruction, i)
		}
		if wp.HasRidge && (wp.RidgeHeight <= 0 || wp.RidgeWidth <= 0 || wp.RidgeThickness <= 0) {
			return nil, fmt.Errorf("%w: wall %d expresses a ridge with a non-positive dimension", ErrConstruction, i)
		}
	}
	return &Genotype{
		Spec:            spec,
		Height:          height,
		WaveguideHeight: waveguideHeight,
		WaveguideLength: waveguideLength,
		Walls:           walls,
	}, nil
}

// Generate samples every scalar gene uniformly from its interval and builds
// the wall sequence with numWallPairs randomly generated wall pairs.
func Generate(spec *Spec, numWallPairs int, rng *rand.Rand) (*Genotype, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: spec is required", ErrConstruction)
	}
	walls, err := GenerateWallPairs(numWallPairs, rng)
	if err != nil {
		return nil, err
	}
	return &Genotype{
		Spec:            spec,
		Height:          uniform(rng, spec.MinHeight, spec.MaxHeight),
		WaveguideHeight: uniform(rng, spec.MinWaveguideHeight, spec.MaxWaveguideHeight),
		WaveguideLength: uniform(rng, spec.MinWaveguideLength, spec.MaxWaveguideLength),
		Walls:           walls,
	}, nil
}

// Clone returns a fully independent deep copy; mutating the clone's walls is
// never observable through the original.
func (g *Genotype) Clone() framework.Genome {
	clone := &Genotype{}
	if err := copier.CopyWithOption(clone, g, copier.Option{DeepCopy: true}); err != nil {
		// Copying a concrete value type into itself cannot fail.
		panic(fmt.Sprintf("genotype clone: %v", err))
	}
	clone.Spec = g.Spec
	return clone
}

// Mutate perturbs each gene independently: with probability PerSiteMutRate
// the gene gains Gaussian noise of stddev MutEffectSize and is clamped back
// into its interval. Each bound pair applies to the gene being perturbed.
func (g *Genotype) Mutate(rng *rand.Rand) {
	g.Height = g.mutateSite(g.Height, g.Spec.MinHeight, g.Spec.MaxHeight, rng)
	g.WaveguideHeight = g.mutateSite(g.WaveguideHeight, g.Spec.MinWaveguideHeight, g.Spec.MaxWaveguideHeight, rng)
	g.WaveguideLength = g.mutateSite(g.WaveguideLength, g.Spec.MinWaveguideLength, g.Spec.MaxWaveguideLength, rng)

	for _, wp := range g.Walls {
		wp.Width = g.mutateSite(wp.Width, MinWidth, MaxWidth, rng)
		wp.Angle = g.mutateSite(wp.Angle, MinAngle, MaxAngle, rng)
		wp.RidgeHeight = g.mutateSite(wp.RidgeHeight, MinRidgeHeight, MaxRidgeHeight, rng)
		wp.RidgeWidth = g.mutateSite(wp.RidgeWidth, MinRidgeWidth, MaxRidgeWidth, rng)
		wp.RidgeThickness = g.mutateSite(wp.RidgeThickness, MinRidgeThickness, MaxRidgeThickness, rng)
	}
}

func (g *Genotype) mutateSite(v, lo, hi float64, rng *rand.Rand) float64 {
	if rng.Float64() >= g.Spec.PerSiteMutRate {
		return v
	}
	v += rng.NormFloat64() * g.Spec.MutEffectSize
	return math.Min(math.Max(v, lo), hi)
}
