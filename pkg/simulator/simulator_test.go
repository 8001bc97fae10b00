package simulator

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antevo/pkg/antenna"
	"antevo/pkg/moo/framework"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(Config{
		Command:      "true",
		MacroDir:     t.TempDir(),
		ResultDir:    t.TempDir(),
		PollInterval: 5 * time.Millisecond,
		Timeout:      200 * time.Millisecond,
		FreqStartMHz: 50,
		FreqStopMHz:  200,
		FreqStepMHz:  1,
	})
	require.NoError(t, err)
	return c
}

func testIndividual(t *testing.T) *framework.Individual {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	spec := &antenna.Spec{MinHeight: 50, MaxHeight: 350, MinWaveguideHeight: 10,
		MaxWaveguideHeight: 120, MinWaveguideLength: 10, MaxWaveguideLength: 120}
	g, err := antenna.Generate(spec, 2, rng)
	require.NoError(t, err)
	return &framework.Individual{ID: 3, Genome: g}
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err, "command is required")
}

func TestPrepareJobRendersMacro(t *testing.T) {
	c := testClient(t)
	ind := testIndividual(t)

	job, err := c.PrepareJob(ind)
	require.NoError(t, err)
	assert.Equal(t, 3, job.IndividualID)
	assert.NotEmpty(t, job.ID)

	macro, err := os.ReadFile(job.MacroPath)
	require.NoError(t, err)
	text := string(macro)

	assert.Contains(t, text, "height_cm:")
	assert.Contains(t, text, "sweep = { start_mhz: 50, stop_mhz: 200, step_mhz: 1 }")
	assert.Contains(t, text, job.ResultPath)
	// One wall entry per pair.
	assert.Equal(t, 2, strings.Count(text, "has_ridge:"))
}

func TestPrepareJobRejectsForeignGenome(t *testing.T) {
	c := testClient(t)
	_, err := c.PrepareJob(&framework.Individual{ID: 1})
	assert.Error(t, err)
}

func TestSubmit(t *testing.T) {
	c := testClient(t)
	job, err := c.PrepareJob(testIndividual(t))
	require.NoError(t, err)

	assert.NoError(t, c.Submit(context.Background(), job))

	c.cfg.Command = "false"
	assert.Error(t, c.Submit(context.Background(), job))
}

func TestWaitResult(t *testing.T) {
	c := testClient(t)
	job, err := c.PrepareJob(testIndividual(t))
	require.NoError(t, err)

	// Result already present returns immediately.
	require.NoError(t, os.WriteFile(job.ResultPath, []byte("50 12.5\n"), 0o644))
	path, err := c.WaitResult(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, job.ResultPath, path)
}

func TestWaitResultTimesOut(t *testing.T) {
	c := testClient(t)
	job, err := c.PrepareJob(testIndividual(t))
	require.NoError(t, err)

	start := time.Now()
	_, err = c.WaitResult(context.Background(), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
