package fitness

import (
	"fmt"
	"math"
)

// BeamCorrectionFactor computes the chromaticity correction factor at each
// frequency from a per-pixel beam power pattern and a sky temperature map
// sampled on the same pixel grid:
//
//	bcf(ν) = [Σ_p B(ν,p)·T(p) / Σ_p B(ref,p)·T(p)] × [Σ_p B(ref,p) / Σ_p B(ν,p)]
//
// A perfectly achromatic beam gives bcf = 1 at every frequency. The measured
// spectrum can be divided by this factor to partially correct the beam's
// chromatic coupling to the foreground brightness distribution.
//
// beamPowerDB has shape (Nfreq, Npix) and is not peak-normalised; skyTemp is
// the foreground temperature per pixel, already weighted for horizon cuts.
func BeamCorrectionFactor(beamPowerDB [][]float64, skyTemp []float64, refIdx int) ([]float64, error) {
	if len(beamPowerDB) == 0 {
		return nil, fmt.Errorf("fitness: beam pattern is empty")
	}
	if refIdx < 0 || refIdx >= len(beamPowerDB) {
		return nil, fmt.Errorf("fitness: reference index %d outside %d frequencies", refIdx, len(beamPowerDB))
	}

	npix := len(skyTemp)
	weighted := make([]float64, len(beamPowerDB))
	total := make([]float64, len(beamPowerDB))
	for i, row := range beamPowerDB {
		if len(row) != npix {
			return nil, fmt.Errorf("fitness: frequency %d has %d pixels, sky map has %d", i, len(row), npix)
		}
		for p, db := range row {
			power := math.Pow(10, db/10)
			weighted[i] += power * skyTemp[p]
			total[i] += power
		}
		if total[i] == 0 {
			return nil, fmt.Errorf("fitness: beam power vanishes at frequency %d", i)
		}
	}
	if weighted[refIdx] == 0 {
		return nil, fmt.Errorf("fitness: sky-weighted beam power vanishes at reference frequency")
	}

	bcf := make([]float64, len(beamPowerDB))
	for i := range bcf {
		bcf[i] = (weighted[i] / weighted[refIdx]) * (total[refIdx] / total[i])
	}
	return bcf, nil
}
