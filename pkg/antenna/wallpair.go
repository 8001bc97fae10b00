package antenna

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrConstruction marks a genotype or wall pair built with structurally
// invalid data. It is raised at construction, never silently repaired.
var ErrConstruction = errors.New("antenna: invalid construction")

// Wall pair gene bounds. Dimensions in cm, angle in degrees. The width lower
// bound is exclusive; every other interval is closed.
const (
	MinWidth = 0.0
	MaxWidth = 100.0

	MinAngle = 0.0
	MaxAngle = 100.0

	MinRidgeHeight = 0.0
	MaxRidgeHeight = 100.0

	MinRidgeWidth = 0.0
	MaxRidgeWidth = 100.0

	MinRidgeThickness = 0.0
	MaxRidgeThickness = 100.0
)

// WallPair is one sheet of wall material, both sides, in the antenna's
// flared section. A ridge is expressed only when every ridge dimension is
// strictly positive.
type WallPair struct {
	HasRidge       bool
	Width          float64
	Angle          float64
	RidgeHeight    float64
	RidgeWidth     float64
	RidgeThickness float64
}

// NewWallPair validates the ridge invariant: HasRidge may only be true when
// all three ridge dimensions are strictly positive.
func NewWallPair(hasRidge bool, width, angle, ridgeHeight, ridgeWidth, ridgeThickness float64) (*WallPair, error) {
	if hasRidge && (ridgeHeight <= 0 || ridgeWidth <= 0 || ridgeThickness <= 0) {
		return nil, fmt.Errorf("%w: ridge expressed with non-positive dimension (height=%g width=%g thickness=%g)",
			ErrConstruction, ridgeHeight, ridgeWidth, ridgeThickness)
	}
	return &WallPair{
		HasRidge:       hasRidge,
		Width:          width,
		Angle:          angle,
		RidgeHeight:    ridgeHeight,
		RidgeWidth:     ridgeWidth,
		RidgeThickness: ridgeThickness,
	}, nil
}

// GenerateWallPair samples a random wall pair with the ridge unexpressed.
// Ridge dimensions are still drawn so a later mutation has genes to act on.
func GenerateWallPair(rng *rand.Rand) *WallPair {
	width := MinWidth
	for width == MinWidth { // exclusive lower bound
		width = uniform(rng, MinWidth, MaxWidth)
	}
	return &WallPair{
		Width:          width,
		Angle:          uniform(rng, MinAngle, MaxAngle),
		RidgeHeight:    uniform(rng, MinRidgeHeight, MaxRidgeHeight),
		RidgeWidth:     uniform(rng, MinRidgeWidth, MaxRidgeWidth),
		RidgeThickness: uniform(rng, MinRidgeThickness, MaxRidgeThickness),
	}
}

// GenerateWallPairWithRidge samples a wall pair and redraws any ridge
// dimension that lands exactly on zero until all are strictly positive,
// then expresses the ridge.
func GenerateWallPairWithRidge(rng *rand.Rand) *WallPair {
	wp := GenerateWallPair(rng)
	for wp.RidgeHeight == 0 {
		wp.RidgeHeight = uniform(rng, MinRidgeHeight, MaxRidgeHeight)
	}
	for wp.RidgeWidth == 0 {
		wp.RidgeWidth = uniform(rng, MinRidgeWidth, MaxRidgeWidth)
	}
	for wp.RidgeThickness == 0 {
		wp.RidgeThickness = uniform(rng, MinRidgeThickness, MaxRidgeThickness)
	}
	wp.HasRidge = true
	return wp
}

// GenerateWallPairs samples n wall pairs, flipping an unbiased coin per slot
// between the ridged and unridged generation modes.
func GenerateWallPairs(n int, rng *rand.Rand) ([]*WallPair, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: wall pair count must be greater than zero, got %d", ErrConstruction, n)
	}
	walls := make([]*WallPair, n)
	for i := range walls {
		if rng.Intn(2) == 0 {
			walls[i] = GenerateWallPair(rng)
		} else {
			walls[i] = GenerateWallPairWithRidge(rng)
		}
	}
	return walls, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
