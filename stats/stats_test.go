package stats

import (
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestSample(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := NewSample("lines")
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
}

func TestConfidenceIntervalAndQuantile(t *testing.T) {
	is := is.New(t)
	s := NewSample("pieces")
	for _, v := range []float64{4, 1, 3, 2, 5} {
		s.Push(v)
	}
	lo, hi := s.ConfidenceInterval(95)
	is.True(lo < s.Mean())
	is.True(hi > s.Mean())
	is.True(FuzzyEqual(s.Mean()-lo, hi-s.Mean()))
	is.Equal(s.Quantile(0.5), 3.0)
	is.Equal(s.Quantile(1), 5.0)
	is.Equal(s.Sum(), 15.0)
}

func TestFprint(t *testing.T) {
	is := is.New(t)
	s := NewSample("lines")
	for _, v := range []float64{1, 2, 2, 3, 3, 3} {
		s.Push(v)
	}
	var sb strings.Builder
	is.NoErr(s.Fprint(&sb, 3))
	is.True(strings.HasPrefix(sb.String(), "lines: n=6 mean=2.33"))
	is.True(strings.Count(sb.String(), "\n") > 1)

	var empty strings.Builder
	is.NoErr(NewSample("none").Fprint(&empty, 3))
	is.Equal(strings.Count(empty.String(), "\n"), 1)
}

func TestFprintConstant(t *testing.T) {
	is := is.New(t)
	s := NewSample("pieces")
	s.Push(20)
	s.Push(20)
	var sb strings.Builder
	is.NoErr(s.Fprint(&sb, 10))
	is.Equal(strings.Count(sb.String(), "\n"), 1)
}
