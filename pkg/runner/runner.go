// Package runner owns the generational loop: it wires the configured
// evolution scheme, the fitness provider and the reporting collaborators
// around the core engine.
package runner

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/seehuhn/mt19937"
	"k8s.io/klog/v2"

	"antevo/pkg/analysis"
	"antevo/pkg/antenna"
	"antevo/pkg/config"
	"antevo/pkg/moo/evolver"
	"antevo/pkg/moo/framework"
	"antevo/pkg/store"
)

// Evaluator populates the population's fitness mappings before each
// generational step. The engine resumes only after every individual carries
// a complete, key-set-consistent mapping.
type Evaluator interface {
	Evaluate(ctx context.Context, population []*framework.Individual) error
}

// Manager drives one optimization run.
type Manager struct {
	cfg       *config.Config
	scheme    evolver.Evolver
	evaluator Evaluator
	rng       *rand.Rand
	recorder  *analysis.Recorder
	db        *store.Store
	runID     uint

	population []*framework.Individual
}

// New resolves the configured selection scheme and builds the run's single
// explicit random stream. Unsupported scheme or selector names fail here,
// before any generational step runs.
func New(cfg *config.Config, evaluator Evaluator) (*Manager, error) {
	if evaluator == nil {
		return nil, fmt.Errorf("runner: evaluator is required")
	}
	selector, err := evolver.ResolveSelector(cfg.Selector)
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}
	scheme, err := evolver.ResolveScheme(cfg.SelectionScheme, selector)
	if err != nil {
		return nil, fmt.Errorf("runner: %w", err)
	}

	src := mt19937.New()
	src.Seed(cfg.Seed)

	m := &Manager{
		cfg:       cfg,
		scheme:    scheme,
		evaluator: evaluator,
		rng:       rand.New(src),
	}

	if cfg.Output.Dir != "" {
		recorder, err := analysis.NewRecorder(cfg.Output.Dir)
		if err != nil {
			return nil, err
		}
		m.recorder = recorder
	}
	if cfg.Persistence.Path != "" {
		db, err := store.Open(&store.Config{
			Path:          cfg.Persistence.Path,
			Name:          cfg.Persistence.Name,
			SQLitePragmas: cfg.Persistence.SQLitePragmas,
		})
		if err != nil {
			return nil, fmt.Errorf("runner: open store: %w", err)
		}
		m.db = db
		if m.runID, err = db.CreateRun(cfg.Seed, cfg.PopulationSize, cfg.SelectionScheme); err != nil {
			return nil, fmt.Errorf("runner: %w", err)
		}
	}
	return m, nil
}

// Population returns the manager's current population.
func (m *Manager) Population() []*framework.Individual {
	return m.population
}

// InitPopulation builds generation zero: N randomly generated genotypes
// wrapped as individuals with no parent.
func (m *Manager) InitPopulation() error {
	spec := m.cfg.GenotypeSpec()
	population := make([]*framework.Individual, m.cfg.PopulationSize)
	for i := range population {
		g, err := antenna.Generate(spec, m.cfg.NumWallPairs, m.rng)
		if err != nil {
			return fmt.Errorf("runner: generate individual %d: %w", i, err)
		}
		population[i] = &framework.Individual{
			ID:                i,
			GenerationCreated: 0,
			Genome:            g,
			Fitness:           framework.Fitness{},
		}
	}
	m.population = population
	return nil
}

// Run executes the full run: evaluate, report, evolve, persist, for each
// generation. Returns the final population with fresh ranks and distances.
func (m *Manager) Run(ctx context.Context) ([]*framework.Individual, error) {
	start := time.Now()
	if err := m.InitPopulation(); err != nil {
		return nil, err
	}

	evaluated := 0
	for gen := 1; gen <= m.cfg.NumGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		genStart := time.Now()
		if err := m.evaluator.Evaluate(ctx, m.population); err != nil {
			return nil, err
		}
		evaluated += len(m.population)
		if err := framework.ValidateFitness(m.population); err != nil {
			return nil, err
		}

		stats := analysis.Summarize(m.population)
		if m.recorder != nil {
			if err := m.recorder.RecordFitness(gen-1, stats); err != nil {
				return nil, err
			}
		}
		if m.db != nil {
			if err := m.db.SaveStats(m.runID, gen-1, stats); err != nil {
				return nil, err
			}
		}

		next, err := m.scheme.Evolve(m.population, gen, m.rng)
		if err != nil {
			return nil, fmt.Errorf("runner: generation %d: %w", gen, err)
		}
		m.population = next

		if m.recorder != nil {
			if err := m.recorder.RecordBest(analysis.ParetoFront(m.population)); err != nil {
				return nil, err
			}
		}
		if m.db != nil {
			if err := m.db.SaveGeneration(m.runID, gen, m.population); err != nil {
				return nil, err
			}
		}
		klog.V(1).Infof("generation %d done in %s", gen, time.Since(genStart).Round(time.Millisecond))
	}

	if m.recorder != nil && len(m.cfg.Output.PlotObjectives) == 2 {
		front := analysis.ParetoFront(m.population)
		path := filepath.Join(m.cfg.Output.Dir, "pareto_front.html")
		if err := analysis.PlotFront(front, m.cfg.Output.PlotObjectives[0], m.cfg.Output.PlotObjectives[1], path); err != nil {
			return nil, err
		}
	}

	klog.Infof("run complete: %d generations, %s evaluations in %s",
		m.cfg.NumGenerations, humanize.Comma(int64(evaluated)), time.Since(start).Round(time.Millisecond))
	return m.population, nil
}

// Close releases the run database, if one was opened.
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
