package antenna

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallPairRidgeInvariant(t *testing.T) {
	wp, err := NewWallPair(true, 10, 45, 1, 2, 3)
	require.NoError(t, err)
	assert.True(t, wp.HasRidge)

	cases := []struct {
		name                  string
		height, width, thickn float64
	}{
		{"zero height", 0, 2, 3},
		{"zero width", 1, 0, 3},
		{"zero thickness", 1, 2, 0},
		{"negative height", -1, 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWallPair(true, 10, 45, tc.height, tc.width, tc.thickn)
			assert.ErrorIs(t, err, ErrConstruction)
		})
	}

	// Without a ridge, the ridge dimensions are free genes and may be zero.
	wp, err = NewWallPair(false, 10, 45, 0, 0, 0)
	require.NoError(t, err)
	assert.False(t, wp.HasRidge)
}

func TestGenerateWallPairBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 500; trial++ {
		wp := GenerateWallPair(rng)
		assert.False(t, wp.HasRidge)
		assert.Greater(t, wp.Width, MinWidth, "width lower bound is exclusive")
		assert.LessOrEqual(t, wp.Width, MaxWidth)
		assert.GreaterOrEqual(t, wp.Angle, MinAngle)
		assert.LessOrEqual(t, wp.Angle, MaxAngle)
		assert.GreaterOrEqual(t, wp.RidgeHeight, MinRidgeHeight)
		assert.LessOrEqual(t, wp.RidgeHeight, MaxRidgeHeight)
	}
}

func TestGenerateWallPairWithRidge(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 500; trial++ {
		wp := GenerateWallPairWithRidge(rng)
		assert.True(t, wp.HasRidge)
		assert.Greater(t, wp.RidgeHeight, 0.0)
		assert.Greater(t, wp.RidgeWidth, 0.0)
		assert.Greater(t, wp.RidgeThickness, 0.0)
	}
}

func TestGenerateWallPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	_, err := GenerateWallPairs(0, rng)
	assert.ErrorIs(t, err, ErrConstruction)
	_, err = GenerateWallPairs(-2, rng)
	assert.ErrorIs(t, err, ErrConstruction)

	walls, err := GenerateWallPairs(400, rng)
	require.NoError(t, err)
	require.Len(t, walls, 400)

	ridged := 0
	for _, wp := range walls {
		if wp.HasRidge {
			ridged++
		}
	}
	// The per-slot coin should land well away from both extremes.
	assert.Greater(t, ridged, 100)
	assert.Less(t, ridged, 300)
}
