// Package stats summarizes samples collected over many self-play games.
package stats

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Epsilon = 1e-6
)

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// ZVal returns the two-tailed z-value for a confidence interval given in
// percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.UnitNormal
	return dist.Quantile((1 + confidenceInterval/100) / 2)
}

// Sample is a named list of observations, such as the number of lines
// cleared in each game.
type Sample struct {
	Name   string
	values []float64
}

func NewSample(name string) *Sample {
	return &Sample{Name: name}
}

func (s *Sample) Push(val float64) {
	s.values = append(s.values, val)
}

func (s *Sample) Len() int { return len(s.values) }

func (s *Sample) Sum() float64 { return floats.Sum(s.values) }

func (s *Sample) Mean() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return stat.Mean(s.values, nil)
}

// Stdev is the sample standard deviation.
func (s *Sample) Stdev() float64 {
	if len(s.values) <= 1 {
		return 0
	}
	return stat.StdDev(s.values, nil)
}

func (s *Sample) StandardError() float64 {
	if len(s.values) == 0 {
		return 0
	}
	return s.Stdev() / math.Sqrt(float64(len(s.values)))
}

// ConfidenceInterval returns the bounds of the interval around the mean
// for the given confidence, in percent.
func (s *Sample) ConfidenceInterval(pct float64) (float64, float64) {
	half := ZVal(pct) * s.StandardError()
	return s.Mean() - half, s.Mean() + half
}

// Quantile returns the p-quantile (0 <= p <= 1) of the observations.
func (s *Sample) Quantile(p float64) float64 {
	if len(s.values) == 0 {
		return 0
	}
	sorted := slices.Clone(s.values)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Fprint writes a one-line summary followed by a histogram.
func (s *Sample) Fprint(w io.Writer, bins int) error {
	lo, hi := s.ConfidenceInterval(95)
	_, err := fmt.Fprintf(w, "%s: n=%d mean=%.2f stdev=%.2f 95%% CI [%.2f, %.2f] median=%.1f\n",
		s.Name, s.Len(), s.Mean(), s.Stdev(), lo, hi, s.Quantile(0.5))
	if err != nil || len(s.values) == 0 {
		return err
	}
	if floats.Min(s.values) == floats.Max(s.values) {
		// a histogram needs a non-empty range.
		return nil
	}
	return histogram.Fprint(w, histogram.Hist(bins, s.values), histogram.Linear(40))
}
