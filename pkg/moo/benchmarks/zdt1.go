package benchmarks

import (
	"math"
	"math/rand"

	"antevo/pkg/moo/framework"
)

const Name = "ZDT1"

// VectorGenome is a bounded real vector using the same per-site
// Bernoulli/Gaussian/clamp mutation operator as the antenna genes.
type VectorGenome struct {
	Values   []float64
	Lo       float64
	Hi       float64
	MutRate  float64
	MutSigma float64
}

var _ framework.Genome = (*VectorGenome)(nil)

func (v *VectorGenome) Clone() framework.Genome {
	clone := *v
	clone.Values = append([]float64(nil), v.Values...)
	return &clone
}

func (v *VectorGenome) Mutate(rng *rand.Rand) {
	for i := range v.Values {
		if rng.Float64() >= v.MutRate {
			continue
		}
		x := v.Values[i] + rng.NormFloat64()*v.MutSigma
		v.Values[i] = math.Min(math.Max(x, v.Lo), v.Hi)
	}
}

// ZDT1 is a benchmark function used to test the correctness of
// multi-objective algorithms. For more details, check the article below:
// https://datacrayon.com/practical-evolutionary-algorithms/synthetic-objective-functions-and-zdt1/
type ZDT1 struct {
	NumVars int
}

func NewZDT1(numVars int) *ZDT1 {
	return &ZDT1{NumVars: numVars}
}

func (p *ZDT1) Name() string {
	return Name
}

// Initialize creates a random, already-evaluated population.
func (p *ZDT1) Initialize(popSize int, rng *rand.Rand) []*framework.Individual {
	population := make([]*framework.Individual, popSize)
	for i := range population {
		values := make([]float64, p.NumVars)
		for j := range values {
			values[j] = rng.Float64()
		}
		population[i] = &framework.Individual{
			ID: i,
			Genome: &VectorGenome{
				Values:   values,
				Lo:       0,
				Hi:       1,
				MutRate:  1.0 / float64(p.NumVars),
				MutSigma: 0.05,
			},
			Fitness: framework.Fitness{},
		}
	}
	p.Evaluate(population)
	return population
}

// Evaluate fills each individual's fitness with the two ZDT1 objectives.
func (p *ZDT1) Evaluate(population []*framework.Individual) {
	for _, ind := range population {
		x := ind.Genome.(*VectorGenome).Values
		ind.Fitness = framework.Fitness{
			"F1": p.f1(x),
			"F2": p.f2(x),
		}
	}
}

func (p *ZDT1) f1(x []float64) float64 {
	return x[0]
}

func (p *ZDT1) f2(x []float64) float64 {
	g := 1.0
	for i := 1; i < len(x); i++ {
		g += 9.0 * x[i] / float64(len(x)-1)
	}
	return g * (1.0 - math.Sqrt(x[0]/g))
}

// TrueParetoFront generates numPoints points on the true Pareto front.
func (p *ZDT1) TrueParetoFront(numPoints int) [][2]float64 {
	points := make([][2]float64, numPoints)
	for i := range points {
		x := float64(i) / float64(numPoints-1)
		points[i] = [2]float64{x, 1.0 - math.Sqrt(x)}
	}
	return points
}
