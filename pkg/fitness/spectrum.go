package fitness

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Spectrum is a simulated antenna response sampled on a frequency grid: the
// beam power integrated over the sky at each frequency, in dB.
type Spectrum struct {
	FreqMHz []float64
	PowerDB []float64
}

// ParseSpectrum reads a simulator result file: one "freq_mhz power_db" pair
// per line, comments starting with '#'.
func ParseSpectrum(path string) (Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spectrum{}, fmt.Errorf("fitness: open result: %w", err)
	}
	defer f.Close()

	var s Spectrum
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
		if len(fields) < 2 {
			return Spectrum{}, fmt.Errorf("fitness: %s:%d: want freq and power, got %q", path, line, text)
		}
		freq, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Spectrum{}, fmt.Errorf("fitness: %s:%d: bad frequency: %w", path, line, err)
		}
		power, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Spectrum{}, fmt.Errorf("fitness: %s:%d: bad power: %w", path, line, err)
		}
		s.FreqMHz = append(s.FreqMHz, freq)
		s.PowerDB = append(s.PowerDB, power)
	}
	if err := scanner.Err(); err != nil {
		return Spectrum{}, err
	}
	if len(s.FreqMHz) == 0 {
		return Spectrum{}, fmt.Errorf("fitness: %s holds no samples", path)
	}
	return s, nil
}

// RoughnessRMS measures small-scale spectral structure as the RMS of the
// second differences of the power spectrum.
func RoughnessRMS(s Spectrum) float64 {
	if len(s.PowerDB) < 3 {
		return 0
	}
	var sum float64
	n := 0
	for i := 1; i < len(s.PowerDB)-1; i++ {
		d := s.PowerDB[i+1] - 2*s.PowerDB[i] + s.PowerDB[i-1]
		sum += d * d
		n++
	}
	return math.Sqrt(sum / float64(n))
}

// GainSpread is the peak-to-peak variation of the power spectrum, a cheap
// proxy for beam chromaticity across the band.
func GainSpread(s Spectrum) float64 {
	if len(s.PowerDB) == 0 {
		return 0
	}
	return floats.Max(s.PowerDB) - floats.Min(s.PowerDB)
}
