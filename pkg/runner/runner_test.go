package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antevo/pkg/config"
	"antevo/pkg/fitness"
	"antevo/pkg/moo/evolver"
	"antevo/pkg/moo/framework"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		PopulationSize:     8,
		NumGenerations:     3,
		NumWallPairs:       2,
		Seed:               42,
		PerSiteMutRate:     0.1,
		MutEffectSize:      10,
		SelectionScheme:    "NSGAII",
		Selector:           "tournament",
		MinHeight:          50,
		MaxHeight:          350,
		MinWaveguideHeight: 10,
		MaxWaveguideHeight: 120,
		MinWaveguideLength: 10,
		MaxWaveguideLength: 120,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	cfg := testConfig(t)
	cfg.SelectionScheme = "SPEA2"
	_, err := New(cfg, fitness.NewEvaluator(fitness.NewSurrogateSource()))
	assert.ErrorIs(t, err, evolver.ErrSchemeNotFound)

	cfg = testConfig(t)
	cfg.Selector = "roulette"
	_, err = New(cfg, fitness.NewEvaluator(fitness.NewSurrogateSource()))
	assert.ErrorIs(t, err, evolver.ErrSelectorNotFound)

	_, err = New(testConfig(t), nil)
	assert.Error(t, err, "evaluator is required")
}

func TestInitPopulation(t *testing.T) {
	mgr, err := New(testConfig(t), fitness.NewEvaluator(fitness.NewSurrogateSource()))
	require.NoError(t, err)
	defer mgr.Close()

	require.NoError(t, mgr.InitPopulation())
	pop := mgr.Population()
	require.Len(t, pop, 8)
	for i, ind := range pop {
		assert.Equal(t, i, ind.ID)
		assert.Nil(t, ind.ParentID)
		assert.Equal(t, 0, ind.GenerationCreated)
		assert.NotNil(t, ind.Genome)
	}
}

func TestRunProducesScoredPopulation(t *testing.T) {
	mgr, err := New(testConfig(t), fitness.NewEvaluator(fitness.NewSurrogateSource()))
	require.NoError(t, err)
	defer mgr.Close()

	final, err := mgr.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, final, 8)
	require.NoError(t, framework.ValidateFitness(final))
	for _, ind := range final {
		assert.NotEmpty(t, ind.Fitness)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() []*framework.Individual {
		mgr, err := New(testConfig(t), fitness.NewEvaluator(fitness.NewSurrogateSource()))
		require.NoError(t, err)
		defer mgr.Close()
		final, err := mgr.Run(context.Background())
		require.NoError(t, err)
		return final
	}

	a := run()
	b := run()
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID)
		assert.Equal(t, a[i].Fitness, b[i].Fitness)
	}
}

func TestRunSeedChangesOutcome(t *testing.T) {
	run := func(seed int64) []*framework.Individual {
		cfg := testConfig(t)
		cfg.Seed = seed
		mgr, err := New(cfg, fitness.NewEvaluator(fitness.NewSurrogateSource()))
		require.NoError(t, err)
		defer mgr.Close()
		final, err := mgr.Run(context.Background())
		require.NoError(t, err)
		return final
	}

	a := run(1)
	b := run(2)
	same := true
	for i := range a {
		if len(b) <= i || a[i].ID != b[i].ID || a[i].Fitness["Residual_RMS"] != b[i].Fitness["Residual_RMS"] {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should explore different populations")
}

func TestRunWritesReports(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Dir = t.TempDir()
	cfg.Output.PlotObjectives = []string{fitness.ObjResidualRMS, fitness.ObjRoughness}

	mgr, err := New(cfg, fitness.NewEvaluator(fitness.NewSurrogateSource()))
	require.NoError(t, err)
	defer mgr.Close()

	_, err = mgr.Run(context.Background())
	require.NoError(t, err)

	for _, name := range []string{"fitness.csv", "best_individuals.csv", "pareto_front.html"} {
		_, err := os.Stat(filepath.Join(cfg.Output.Dir, name))
		assert.NoErrorf(t, err, "expected report %s", name)
	}
}

func TestRunPersistsGenerations(t *testing.T) {
	cfg := testConfig(t)
	cfg.Persistence.Path = t.TempDir()
	cfg.Persistence.Name = "run.db"

	mgr, err := New(cfg, fitness.NewEvaluator(fitness.NewSurrogateSource()))
	require.NoError(t, err)

	_, err = mgr.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, mgr.Close())

	_, err = os.Stat(filepath.Join(cfg.Persistence.Path, "run.db"))
	assert.NoError(t, err)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mgr, err := New(testConfig(t), fitness.NewEvaluator(fitness.NewSurrogateSource()))
	require.NoError(t, err)
	defer mgr.Close()

	_, err = mgr.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
