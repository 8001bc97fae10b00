package framework

import (
	"math"
	"sort"
)

// Dominates checks if individual p dominates individual q (minimization):
// p is no worse on every objective and strictly better on at least one.
func Dominates(p, q *Individual) bool {
	better := false
	for _, obj := range p.Fitness.Keys() {
		if p.Fitness[obj] > q.Fitness[obj] {
			return false
		}
		if p.Fitness[obj] < q.Fitness[obj] {
			better = true
		}
	}
	return better
}

// NonDominatedSort performs fast non-dominated sorting on the population and
// assigns each individual's Rank. Fronts are returned in ascending rank
// order; members of the same front do not dominate each other.
//
// Domination counts and dominated sets are index-keyed scratch slices scoped
// to this call, so no sort bookkeeping outlives the sort. This is the plain
// O(N²·M) formulation, kept for correctness and auditability.
func NonDominatedSort(population []*Individual) [][]*Individual {
	n := len(population)
	dominated := make([][]int, n)
	domCount := make([]int, n)

	// Calculate domination for each ordered pair
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if Dominates(population[i], population[j]) {
				dominated[i] = append(dominated[i], j)
			} else if Dominates(population[j], population[i]) {
				domCount[i]++
			}
		}
	}

	// Individuals dominated by nobody form the first front
	var frontIdx []int
	for i := 0; i < n; i++ {
		if domCount[i] == 0 {
			population[i].Rank = 0
			frontIdx = append(frontIdx, i)
		}
	}

	var fronts [][]*Individual
	rank := 0
	for len(frontIdx) > 0 {
		front := make([]*Individual, len(frontIdx))
		for i, idx := range frontIdx {
			front[i] = population[idx]
		}
		fronts = append(fronts, front)

		// Releasing a front frees its dominated individuals; any whose
		// count reaches zero belongs to the next front.
		var nextIdx []int
		for _, idx := range frontIdx {
			for _, d := range dominated[idx] {
				domCount[d]--
				if domCount[d] == 0 {
					population[d].Rank = rank + 1
					nextIdx = append(nextIdx, d)
				}
			}
		}
		rank++
		frontIdx = nextIdx
	}

	return fronts
}

// CrowdingDistance assigns the crowding distance to every member of a front.
// Fronts of size one or two are entirely boundary, so every member gets +Inf.
// Objectives whose values are all equal contribute nothing and are skipped;
// a member already at +Inf is never perturbed by later objective passes.
func CrowdingDistance(front []*Individual) {
	if len(front) == 0 {
		return
	}
	if len(front) <= 2 {
		for _, ind := range front {
			ind.Distance = math.Inf(1)
		}
		return
	}

	for _, ind := range front {
		ind.Distance = 0
	}

	for _, obj := range front[0].Fitness.Keys() {
		obj := obj
		sort.SliceStable(front, func(i, j int) bool {
			return front[i].Fitness[obj] < front[j].Fitness[obj]
		})

		fMin := front[0].Fitness[obj]
		fMax := front[len(front)-1].Fitness[obj]
		if fMax == fMin {
			continue
		}

		// Boundary points are always preserved
		front[0].Distance = math.Inf(1)
		front[len(front)-1].Distance = math.Inf(1)

		for i := 1; i < len(front)-1; i++ {
			if math.IsInf(front[i].Distance, 1) {
				continue
			}
			front[i].Distance += (front[i+1].Fitness[obj] - front[i-1].Fitness[obj]) / (fMax - fMin)
		}
	}
}
