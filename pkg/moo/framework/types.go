package framework

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// ErrObjectiveMismatch reports individuals in the same population carrying
// different objective key sets. Dominance comparisons over a partial key
// intersection would be silently wrong, so this is checked up front.
var ErrObjectiveMismatch = errors.New("objective key sets differ across population")

// Genome is the mutable design encoding carried by an Individual. Clone must
// return a fully independent copy: mutating the clone may never be observable
// through the original.
type Genome interface {
	Clone() Genome
	Mutate(rng *rand.Rand)
}

// Fitness maps objective names to scores. Every objective is minimized.
type Fitness map[string]float64

// Keys returns the objective names in sorted order. All per-objective
// iteration goes through this so that runs are reproducible.
func (f Fitness) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Individual pairs a genome with lineage metadata and the rank and crowding
// distance assigned by the evolver. Rank and Distance are recomputed every
// generation and have no meaning outside the generation that assigned them.
type Individual struct {
	ID                int
	ParentID          *int // nil for generation-zero individuals
	GenerationCreated int

	Genome  Genome
	Fitness Fitness

	Rank     int
	Distance float64
}

// MakeOffspring clones the individual into a new one and mutates the copy.
// The child records the caller as its parent and inherits a copy of the
// caller's fitness scores. The caller, including its fitness, rank and
// distance, is left untouched.
func (ind *Individual) MakeOffspring(id, generation int, rng *rand.Rand) *Individual {
	parentID := ind.ID
	fitness := make(Fitness, len(ind.Fitness))
	for k, v := range ind.Fitness {
		fitness[k] = v
	}

	child := &Individual{
		ID:                id,
		ParentID:          &parentID,
		GenerationCreated: generation,
		Genome:            ind.Genome.Clone(),
		Fitness:           fitness,
	}
	child.Genome.Mutate(rng)
	return child
}

// ValidateFitness checks that every individual in the population carries an
// identical set of objective names.
func ValidateFitness(population []*Individual) error {
	if len(population) == 0 {
		return nil
	}
	ref := population[0].Fitness.Keys()
	for _, ind := range population[1:] {
		keys := ind.Fitness.Keys()
		if len(keys) != len(ref) {
			return fmt.Errorf("%w: individual %d carries %d objectives, want %d",
				ErrObjectiveMismatch, ind.ID, len(keys), len(ref))
		}
		for i, k := range keys {
			if k != ref[i] {
				return fmt.Errorf("%w: individual %d carries objective %q, want %q",
					ErrObjectiveMismatch, ind.ID, k, ref[i])
			}
		}
	}
	return nil
}
