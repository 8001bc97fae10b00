package fitness

import (
	"context"
	"fmt"

	"antevo/pkg/moo/framework"
	"antevo/pkg/simulator"
)

// Objective names produced by the evaluator. All are minimized.
const (
	ObjResidualRMS = "Residual_RMS"
	ObjRoughness   = "Roughness"
	ObjGainSpread  = "Gain_Spread"
)

const DefaultFitOrder = 5

// BeamSource produces the simulated spectrum for one individual. The
// external simulator client and the built-in surrogate both implement it.
type BeamSource interface {
	Spectrum(ctx context.Context, ind *framework.Individual) (Spectrum, error)
}

// Evaluator populates each individual's fitness mapping from its simulated
// beam spectrum. Every individual receives the identical objective key set.
type Evaluator struct {
	Source   BeamSource
	FitOrder int
}

func NewEvaluator(source BeamSource) *Evaluator {
	return &Evaluator{Source: source, FitOrder: DefaultFitOrder}
}

// Evaluate scores the whole population. Individuals are only written once
// their spectrum is fully available; any failure aborts before the engine
// resumes.
func (e *Evaluator) Evaluate(ctx context.Context, population []*framework.Individual) error {
	for _, ind := range population {
		s, err := e.Source.Spectrum(ctx, ind)
		if err != nil {
			return fmt.Errorf("fitness: individual %d: %w", ind.ID, err)
		}
		residual, err := PolyFitResidualRMS(s, e.FitOrder)
		if err != nil {
			return fmt.Errorf("fitness: individual %d: %w", ind.ID, err)
		}
		ind.Fitness = framework.Fitness{
			ObjResidualRMS: residual,
			ObjRoughness:   RoughnessRMS(s),
			ObjGainSpread:  GainSpread(s),
		}
	}
	return nil
}

// SimSource adapts the simulator client to the BeamSource interface: one
// prepare/submit/poll cycle per individual.
type SimSource struct {
	Client *simulator.Client
}

func (s *SimSource) Spectrum(ctx context.Context, ind *framework.Individual) (Spectrum, error) {
	job, err := s.Client.PrepareJob(ind)
	if err != nil {
		return Spectrum{}, err
	}
	if err := s.Client.Submit(ctx, job); err != nil {
		return Spectrum{}, err
	}
	path, err := s.Client.WaitResult(ctx, job)
	if err != nil {
		return Spectrum{}, err
	}
	return ParseSpectrum(path)
}
