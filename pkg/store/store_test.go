package store

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antevo/pkg/analysis"
	"antevo/pkg/antenna"
	"antevo/pkg/moo/framework"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(&Config{
		Path:          t.TempDir(),
		Name:          "run.db",
		SQLitePragmas: []string{"journal_mode(WAL)", "synchronous(NORMAL)"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenValidation(t *testing.T) {
	_, err := Open(nil)
	assert.Error(t, err)
	_, err = Open(&Config{Name: "run.db"})
	assert.Error(t, err)
	_, err = Open(&Config{Path: t.TempDir()})
	assert.Error(t, err)
}

func TestCreateRun(t *testing.T) {
	s := openTestStore(t)

	id, err := s.CreateRun(42, 20, "NSGAII")
	require.NoError(t, err)
	assert.NotZero(t, id)

	var run RunRecord
	require.NoError(t, s.DB.First(&run, id).Error)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, 20, run.PopulationSize)
	assert.Equal(t, "NSGAII", run.SelectionScheme)
}

func TestSaveGeneration(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.CreateRun(1, 2, "NSGAII")
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	spec := &antenna.Spec{MinHeight: 50, MaxHeight: 350, MinWaveguideHeight: 10,
		MaxWaveguideHeight: 120, MinWaveguideLength: 10, MaxWaveguideLength: 120}
	g, err := antenna.Generate(spec, 2, rng)
	require.NoError(t, err)

	parent := 0
	population := []*framework.Individual{
		{ID: 0, Genome: g, Fitness: framework.Fitness{"F1": 1.5}, Rank: 0, Distance: math.Inf(1)},
		{ID: 5, ParentID: &parent, GenerationCreated: 1, Genome: g,
			Fitness: framework.Fitness{"F1": 2.5}, Rank: 1, Distance: 0.75},
	}
	require.NoError(t, s.SaveGeneration(runID, 1, population))

	var records []IndividualRecord
	require.NoError(t, s.DB.Where("run_id = ? AND generation = ?", runID, 1).
		Order("individual_id").Find(&records).Error)
	require.Len(t, records, 2)

	assert.Equal(t, "inf", records[0].Distance)
	assert.Nil(t, records[0].ParentID)
	assert.Equal(t, g.Height, records[0].Height)
	assert.JSONEq(t, `{"F1":1.5}`, records[0].Objectives)

	require.NotNil(t, records[1].ParentID)
	assert.Equal(t, 0, *records[1].ParentID)
	assert.Equal(t, "0.75", records[1].Distance)
}

func TestSaveStats(t *testing.T) {
	s := openTestStore(t)
	runID, err := s.CreateRun(1, 2, "NSGAII")
	require.NoError(t, err)

	stats := []analysis.ObjectiveStats{
		{Objective: "F1", Average: 1.5, Maximum: 3},
		{Objective: "F2", Average: 10, Maximum: 20},
	}
	require.NoError(t, s.SaveStats(runID, 0, stats))

	var records []StatRecord
	require.NoError(t, s.DB.Where("run_id = ?", runID).Order("objective").Find(&records).Error)
	require.Len(t, records, 2)
	assert.Equal(t, "F1", records[0].Objective)
	assert.Equal(t, 3.0, records[0].Maximum)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "inf", formatDistance(math.Inf(1)))
	assert.Equal(t, "0.5", formatDistance(0.5))
	assert.Equal(t, "0", formatDistance(0))
}
