package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestFromString(t *testing.T) {
	is := is.New(t)
	for _, tc := range []struct {
		tok string
		cmd Command
	}{
		{"left", Left},
		{"right", Right},
		{"up", Up},
		{"down", Down},
		{"rotate", Rotate},
		{"drop", Drop},
	} {
		c, err := FromString(tc.tok)
		is.NoErr(err)
		is.Equal(c, tc.cmd)
		is.Equal(c.String(), tc.tok)
	}
}

func TestFromStringUnknown(t *testing.T) {
	is := is.New(t)
	_, err := FromString("place")
	is.True(errors.Is(err, ErrUnknownCommand))
}

func TestParseSequence(t *testing.T) {
	is := is.New(t)
	seq, err := ParseSequence("left left", "rotate", "drop")
	is.NoErr(err)
	is.Equal(seq, Sequence{Left, Left, Rotate, Drop})
	is.Equal(seq.String(), "left left rotate drop")
	is.Equal(seq.Count(Left), 2)

	_, err = ParseSequence("left sideways")
	is.True(errors.Is(err, ErrUnknownCommand))
}

func TestReversed(t *testing.T) {
	is := is.New(t)
	seq := Sequence{Left, Down, Rotate}
	rev := seq.Reversed()
	is.Equal(rev, Sequence{Rotate, Down, Left})
	// the original is untouched
	is.Equal(seq, Sequence{Left, Down, Rotate})
}

func TestOpposite(t *testing.T) {
	is := is.New(t)
	is.Equal(Left.Opposite(), Right)
	is.Equal(Right.Opposite(), Left)
	is.Equal(Up.Opposite(), Down)
	is.Equal(Down.Opposite(), Up)
	is.Equal(Rotate.Opposite(), Rotate)
}
