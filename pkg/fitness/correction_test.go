package fitness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeamCorrectionFactorAchromatic(t *testing.T) {
	// A beam identical at every frequency needs no correction.
	row := []float64{0, -3, -10, -30}
	beam := [][]float64{row, row, row}
	sky := []float64{5000, 3000, 1000, 200}

	bcf, err := BeamCorrectionFactor(beam, sky, 0)
	require.NoError(t, err)
	require.Len(t, bcf, 3)
	for i, v := range bcf {
		assert.InDeltaf(t, 1.0, v, 1e-12, "frequency %d", i)
	}
}

func TestBeamCorrectionFactorKnownValue(t *testing.T) {
	// Two pixels, two frequencies, 0 dB = unit power. At frequency 1 the
	// beam swaps which pixel it weights, so with sky {4,1}:
	//   weighted0 = 1*4 + 0.1*1 = 4.1, total0 = 1.1
	//   weighted1 = 0.1*4 + 1*1 = 1.4, total1 = 1.1
	//   bcf1 = (1.4/4.1) * (1.1/1.1)
	beam := [][]float64{
		{0, -10},
		{-10, 0},
	}
	sky := []float64{4, 1}

	bcf, err := BeamCorrectionFactor(beam, sky, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bcf[0], 1e-12)
	assert.InDelta(t, 1.4/4.1, bcf[1], 1e-12)
}

func TestBeamCorrectionFactorReferenceFrequency(t *testing.T) {
	beam := [][]float64{
		{0, -10},
		{-10, 0},
	}
	sky := []float64{4, 1}

	bcf, err := BeamCorrectionFactor(beam, sky, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bcf[1], 1e-12, "the reference frequency is always 1")
	assert.InDelta(t, 4.1/1.4, bcf[0], 1e-12)
}

func TestBeamCorrectionFactorErrors(t *testing.T) {
	_, err := BeamCorrectionFactor(nil, []float64{1}, 0)
	assert.Error(t, err, "empty beam")

	beam := [][]float64{{0, 0}}
	_, err = BeamCorrectionFactor(beam, []float64{1, 1}, 5)
	assert.Error(t, err, "reference index out of range")

	_, err = BeamCorrectionFactor([][]float64{{0, 0}, {0}}, []float64{1, 1}, 0)
	assert.Error(t, err, "pixel count mismatch")
}
