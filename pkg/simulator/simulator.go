// Package simulator drives the external electromagnetic simulator. The core
// engine never talks to it directly: each individual's genotype is rendered
// into a macro script, submitted as a job, and the result file is polled
// until the solver finishes.
package simulator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"text/template"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"antevo/pkg/antenna"
	"antevo/pkg/moo/framework"
)

// Config locates the solver binary and the directories jobs run in.
type Config struct {
	Command      string
	Args         []string
	MacroDir     string
	ResultDir    string
	PollInterval time.Duration
	Timeout      time.Duration

	FreqStartMHz float64
	FreqStopMHz  float64
	FreqStepMHz  float64
}

// Client submits simulation jobs and waits for their results.
type Client struct {
	cfg Config
}

// Job tracks one submitted simulation.
type Job struct {
	ID           string
	IndividualID int
	MacroPath    string
	ResultPath   string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("simulator command must be defined")
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Hour
	}
	for _, dir := range []string{cfg.MacroDir, cfg.ResultDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("simulator: create %s: %w", dir, err)
		}
	}
	return &Client{cfg: cfg}, nil
}

var macroTemplate = template.Must(template.New("macro").Parse(`// auto-generated simulation macro, job {{.JobID}}
var antenna = {
    height_cm: {{.Height}},
    waveguide_height_cm: {{.WaveguideHeight}},
    waveguide_length_cm: {{.WaveguideLength}},
    walls: [
{{- range .Walls}}
        { has_ridge: {{.HasRidge}}, width_cm: {{.Width}}, angle_deg: {{.Angle}}, ridge_height_cm: {{.RidgeHeight}}, ridge_width_cm: {{.RidgeWidth}}, ridge_thickness_cm: {{.RidgeThickness}} },
{{- end}}
    ]
};
var sweep = { start_mhz: {{.FreqStart}}, stop_mhz: {{.FreqStop}}, step_mhz: {{.FreqStep}} };
var output = "{{.ResultPath}}";
runSimulation(antenna, sweep, output);
`))

type macroParams struct {
	JobID           string
	Height          float64
	WaveguideHeight float64
	WaveguideLength float64
	Walls           []*antenna.WallPair
	FreqStart       float64
	FreqStop        float64
	FreqStep        float64
	ResultPath      string
}

// PrepareJob renders the individual's genotype into a macro script and
// returns the job handle. Individuals carrying non-antenna genomes are
// rejected.
func (c *Client) PrepareJob(ind *framework.Individual) (*Job, error) {
	g, ok := ind.Genome.(*antenna.Genotype)
	if !ok {
		return nil, fmt.Errorf("individual %d does not carry an antenna genotype", ind.ID)
	}

	job := &Job{
		ID:           uuid.NewString(),
		IndividualID: ind.ID,
	}
	job.MacroPath = filepath.Join(c.cfg.MacroDir, fmt.Sprintf("%s.xmacro", job.ID))
	job.ResultPath = filepath.Join(c.cfg.ResultDir, fmt.Sprintf("%s.uan", job.ID))

	f, err := os.Create(job.MacroPath)
	if err != nil {
		return nil, fmt.Errorf("simulator: create macro: %w", err)
	}
	defer f.Close()

	err = macroTemplate.Execute(f, macroParams{
		JobID:           job.ID,
		Height:          g.Height,
		WaveguideHeight: g.WaveguideHeight,
		WaveguideLength: g.WaveguideLength,
		Walls:           g.Walls,
		FreqStart:       c.cfg.FreqStartMHz,
		FreqStop:        c.cfg.FreqStopMHz,
		FreqStep:        c.cfg.FreqStepMHz,
		ResultPath:      job.ResultPath,
	})
	if err != nil {
		return nil, fmt.Errorf("simulator: render macro: %w", err)
	}
	return job, nil
}

// Submit launches the solver on the job's macro and waits for the launch
// command itself to return. Solver completion is detected by WaitResult.
func (c *Client) Submit(ctx context.Context, job *Job) error {
	args := append(append([]string{}, c.cfg.Args...), job.MacroPath)
	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("simulator: submit job %s: %w: %s", job.ID, err, out)
	}
	klog.V(2).Infof("submitted job %s for individual %d", job.ID, job.IndividualID)
	return nil
}

// WaitResult polls for the job's result file until it appears or the
// timeout expires.
func (c *Client) WaitResult(ctx context.Context, job *Job) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := os.Stat(job.ResultPath); err == nil {
			klog.V(2).Infof("job %s complete", job.ID)
			return job.ResultPath, nil
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("simulator: waiting for job %s: %w", job.ID, ctx.Err())
		case <-ticker.C:
		}
	}
}
