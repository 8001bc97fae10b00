package evolver

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"antevo/pkg/moo/framework"
)

var ErrEmptyPopulation = errors.New("population is empty")

const NSGA2Name = "NSGAII"

// NSGA2 runs one elitist generation of the Non-dominated Sorting Genetic
// Algorithm II. Offspring are produced by cloning a tournament-selected
// parent and mutating the clone; there is no crossover.
type NSGA2 struct {
	Selector Selector
}

func NewNSGA2(selector Selector) *NSGA2 {
	if selector == nil {
		selector = BinaryTournament{}
	}
	return &NSGA2{Selector: selector}
}

func (n *NSGA2) Name() string {
	return NSGA2Name
}

// Evolve processes one fully fitness-scored population into the next:
//
//  1. Rank the current population and assign crowding distances.
//  2. Produce one offspring per slot via the selector; child i of
//     generation g gets identifier g*N+i.
//  3. Combine parents and offspring (size 2N).
//  4. Re-rank the union and refill by whole fronts in ascending rank order;
//     the front that would overflow is truncated to its highest-crowding
//     members.
//
// Evolve is a pure function of (population snapshot, generation, rng state):
// on error the caller's population is returned untouched.
func (n *NSGA2) Evolve(population []*framework.Individual, generation int, rng *rand.Rand) ([]*framework.Individual, error) {
	if rng == nil {
		return nil, ErrRandSourceRequired
	}
	popSize := len(population)
	if popSize == 0 {
		return nil, ErrEmptyPopulation
	}
	if err := framework.ValidateFitness(population); err != nil {
		return nil, err
	}

	// Assign ranks and distances to the current population
	fronts := framework.NonDominatedSort(population)
	for _, front := range fronts {
		framework.CrowdingDistance(front)
	}

	// Generate offspring
	offspring := make([]*framework.Individual, 0, popSize)
	for i := 0; i < popSize; i++ {
		parent, err := n.Selector.SelectOne(population, rng)
		if err != nil {
			return nil, fmt.Errorf("selecting parent %d: %w", i, err)
		}
		child := parent.MakeOffspring(generation*popSize+i, generation, rng)
		offspring = append(offspring, child)
	}

	// Combine parents and offspring
	combined := make([]*framework.Individual, 0, 2*popSize)
	combined = append(combined, population...)
	combined = append(combined, offspring...)

	// Re-sort and truncate back to popSize for elitism
	fronts = framework.NonDominatedSort(combined)
	next := make([]*framework.Individual, 0, popSize)
	for _, front := range fronts {
		framework.CrowdingDistance(front)
		if len(next)+len(front) <= popSize {
			next = append(next, front...)
			continue
		}
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Distance > front[j].Distance
		})
		next = append(next, front[:popSize-len(next)]...)
		break
	}

	return next, nil
}
