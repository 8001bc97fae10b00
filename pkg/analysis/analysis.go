package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"antevo/pkg/antenna"
	"antevo/pkg/moo/framework"
)

// ObjectiveStats summarises one objective across a generation.
type ObjectiveStats struct {
	Objective string
	Average   float64
	Maximum   float64
}

// Summarize computes the average and maximum score per objective, in sorted
// objective order.
func Summarize(population []*framework.Individual) []ObjectiveStats {
	if len(population) == 0 {
		return nil
	}
	scores := make([]float64, len(population))
	var stats []ObjectiveStats
	for _, obj := range population[0].Fitness.Keys() {
		for i, ind := range population {
			scores[i] = ind.Fitness[obj]
		}
		stats = append(stats, ObjectiveStats{
			Objective: obj,
			Average:   stat.Mean(scores, nil),
			Maximum:   floats.Max(scores),
		})
	}
	return stats
}

// ParetoFront returns the minimum-rank subset of the population.
func ParetoFront(population []*framework.Individual) []*framework.Individual {
	if len(population) == 0 {
		return nil
	}
	minRank := population[0].Rank
	for _, ind := range population[1:] {
		if ind.Rank < minRank {
			minRank = ind.Rank
		}
	}
	var best []*framework.Individual
	for _, ind := range population {
		if ind.Rank == minRank {
			best = append(best, ind)
		}
	}
	return best
}

// Recorder writes the per-generation CSV reports: fitness.csv accumulates
// one statistics row per generation, best_individuals.csv is rewritten with
// the current Pareto front.
type Recorder struct {
	fitnessPath string
	bestPath    string
}

func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("analysis: create output dir: %w", err)
	}
	return &Recorder{
		fitnessPath: filepath.Join(dir, "fitness.csv"),
		bestPath:    filepath.Join(dir, "best_individuals.csv"),
	}, nil
}

// RecordFitness appends one generation's statistics, writing the header the
// first time the file is created.
func (r *Recorder) RecordFitness(generation int, stats []ObjectiveStats) error {
	_, statErr := os.Stat(r.fitnessPath)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(r.fitnessPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("analysis: open %s: %w", r.fitnessPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		header := []string{"Generation"}
		for _, s := range stats {
			header = append(header, s.Objective+"_Average", s.Objective+"_Maximum")
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}

	row := []string{strconv.Itoa(generation)}
	for _, s := range stats {
		row = append(row,
			strconv.FormatFloat(s.Average, 'g', -1, 64),
			strconv.FormatFloat(s.Maximum, 'g', -1, 64))
	}
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// RecordBest rewrites the best-individuals report with the given front.
// Gene columns are populated for antenna genotypes; other genome kinds get
// empty gene cells.
func (r *Recorder) RecordBest(best []*framework.Individual) error {
	f, err := os.Create(r.bestPath)
	if err != nil {
		return fmt.Errorf("analysis: create %s: %w", r.bestPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	var objectives []string
	if len(best) > 0 {
		objectives = best[0].Fitness.Keys()
	}
	header := []string{"ID", "Parent_ID", "Generation_Created", "Height", "Waveguide_Height", "Waveguide_Length"}
	header = append(header, objectives...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, ind := range best {
		parent := "None"
		if ind.ParentID != nil {
			parent = strconv.Itoa(*ind.ParentID)
		}
		row := []string{strconv.Itoa(ind.ID), parent, strconv.Itoa(ind.GenerationCreated)}
		if g, ok := ind.Genome.(*antenna.Genotype); ok {
			row = append(row,
				strconv.FormatFloat(g.Height, 'g', -1, 64),
				strconv.FormatFloat(g.WaveguideHeight, 'g', -1, 64),
				strconv.FormatFloat(g.WaveguideLength, 'g', -1, 64))
		} else {
			row = append(row, "", "", "")
		}
		for _, obj := range objectives {
			row = append(row, strconv.FormatFloat(ind.Fitness[obj], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
