package store

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	gorm "gorm.io/gorm"

	"antevo/pkg/analysis"
	"antevo/pkg/antenna"
	"antevo/pkg/moo/framework"
)

// Config locates the sqlite run database.
type Config struct {
	Path          string
	Name          string
	SQLitePragmas []string
}

// Store persists runs, per-generation populations and fitness statistics as
// tabular records.
type Store struct {
	Config *Config
	DB     *gorm.DB
}

// RunRecord identifies one optimization run.
type RunRecord struct {
	ID              uint `gorm:"primarykey"`
	Seed            int64
	PopulationSize  int
	SelectionScheme string
	CreatedAt       time.Time
}

// IndividualRecord is one individual of one generation's population.
type IndividualRecord struct {
	ID                uint `gorm:"primarykey"`
	RunID             uint `gorm:"index"`
	Generation        int  `gorm:"index"`
	IndividualID      int
	ParentID          *int
	GenerationCreated int
	Rank              int
	// Distance is stored as a string so the +Inf boundary marker survives
	// the round trip.
	Distance        string
	Height          float64
	WaveguideHeight float64
	WaveguideLength float64
	Objectives      string // JSON objective name -> score
}

// StatRecord is one objective's aggregate statistics for one generation.
type StatRecord struct {
	ID         uint `gorm:"primarykey"`
	RunID      uint `gorm:"index"`
	Generation int  `gorm:"index"`
	Objective  string
	Average    float64
	Maximum    float64
}

func Open(config *Config) (*Store, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if len(config.Path) == 0 {
		return nil, fmt.Errorf("path to database must be defined")
	}
	if len(config.Name) == 0 {
		return nil, fmt.Errorf("name of database must be defined")
	}

	var dsn strings.Builder
	dsn.WriteString(filepath.Join(config.Path, config.Name))
	for i, prag := range config.SQLitePragmas {
		if i == 0 {
			dsn.WriteRune('?')
		} else {
			dsn.WriteRune('&')
		}
		dsn.WriteString(fmt.Sprintf("_pragma=%s", prag))
	}

	db, err := gorm.Open(sqlite.Open(dsn.String()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	db = db.Session(&gorm.Session{PrepareStmt: true, CreateBatchSize: 1000})

	s := &Store{Config: config, DB: db}
	if err := s.DB.AutoMigrate(&RunRecord{}, &IndividualRecord{}, &StatRecord{}); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	sqldb, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to retrieve raw DB: %w", err)
	}
	return sqldb.Close()
}

// CreateRun registers a run and returns its identifier.
func (s *Store) CreateRun(seed int64, populationSize int, scheme string) (uint, error) {
	run := &RunRecord{
		Seed:            seed,
		PopulationSize:  populationSize,
		SelectionScheme: scheme,
		CreatedAt:       time.Now(),
	}
	if result := s.DB.Create(run); result.Error != nil {
		return 0, fmt.Errorf("failed to create run: %w", result.Error)
	}
	return run.ID, nil
}

// SaveGeneration batch-inserts the generation's population.
func (s *Store) SaveGeneration(runID uint, generation int, population []*framework.Individual) error {
	records := make([]*IndividualRecord, 0, len(population))
	for _, ind := range population {
		objectives, err := json.Marshal(ind.Fitness)
		if err != nil {
			return fmt.Errorf("failed to encode objectives for individual %d: %w", ind.ID, err)
		}
		rec := &IndividualRecord{
			RunID:             runID,
			Generation:        generation,
			IndividualID:      ind.ID,
			ParentID:          ind.ParentID,
			GenerationCreated: ind.GenerationCreated,
			Rank:              ind.Rank,
			Distance:          formatDistance(ind.Distance),
			Objectives:        string(objectives),
		}
		if g, ok := ind.Genome.(*antenna.Genotype); ok {
			rec.Height = g.Height
			rec.WaveguideHeight = g.WaveguideHeight
			rec.WaveguideLength = g.WaveguideLength
		}
		records = append(records, rec)
	}
	if result := s.DB.Create(&records); result.Error != nil {
		return fmt.Errorf("failed to save generation %d: %w", generation, result.Error)
	}
	return nil
}

// SaveStats inserts the generation's per-objective statistics.
func (s *Store) SaveStats(runID uint, generation int, stats []analysis.ObjectiveStats) error {
	records := make([]*StatRecord, 0, len(stats))
	for _, st := range stats {
		records = append(records, &StatRecord{
			RunID:      runID,
			Generation: generation,
			Objective:  st.Objective,
			Average:    st.Average,
			Maximum:    st.Maximum,
		})
	}
	if result := s.DB.Create(&records); result.Error != nil {
		return fmt.Errorf("failed to save stats for generation %d: %w", generation, result.Error)
	}
	return nil
}

func formatDistance(d float64) string {
	if math.IsInf(d, 1) {
		return "inf"
	}
	return fmt.Sprintf("%g", d)
}
