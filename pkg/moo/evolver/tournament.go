package evolver

import (
	"errors"
	"fmt"
	"math/rand"

	"antevo/pkg/moo/framework"
)

var (
	ErrRandSourceRequired = errors.New("random source is required")
	ErrPoolTooSmall       = errors.New("selection pool too small")
)

// Selector chooses one parent from a pool of ranked individuals. Selection
// reads rank and crowding distance only; it never mutates the pool.
type Selector interface {
	Name() string
	SelectOne(pool []*framework.Individual, rng *rand.Rand) (*framework.Individual, error)
}

const BinaryTournamentName = "tournament"

// BinaryTournament draws two distinct individuals uniformly without
// replacement and compares them: lower rank wins outright, equal ranks fall
// back to higher crowding distance, and a full tie is broken by a coin flip
// from the supplied rng.
type BinaryTournament struct{}

func (BinaryTournament) Name() string {
	return BinaryTournamentName
}

func (BinaryTournament) SelectOne(pool []*framework.Individual, rng *rand.Rand) (*framework.Individual, error) {
	if rng == nil {
		return nil, ErrRandSourceRequired
	}
	if len(pool) < 2 {
		return nil, fmt.Errorf("%w: got %d individuals, need at least 2", ErrPoolTooSmall, len(pool))
	}

	// Two draws without replacement: the second index skips the first.
	i := rng.Intn(len(pool))
	j := rng.Intn(len(pool) - 1)
	if j >= i {
		j++
	}
	a, b := pool[i], pool[j]

	if a.Rank < b.Rank {
		return a, nil
	}
	if b.Rank < a.Rank {
		return b, nil
	}
	if a.Distance > b.Distance {
		return a, nil
	}
	if b.Distance > a.Distance {
		return b, nil
	}
	if rng.Intn(2) == 0 {
		return a, nil
	}
	return b, nil
}
