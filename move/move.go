// Package move holds the primitive command vocabulary used to steer a
// falling block: left, right, up, down, rotate and drop.
package move

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Command is a single primitive input.
type Command uint8

const (
	Left Command = iota
	Right
	Up
	Down
	Rotate
	Drop
)

var ErrUnknownCommand = errors.New("unknown command")

var commandNames = [...]string{
	Left:   "left",
	Right:  "right",
	Up:     "up",
	Down:   "down",
	Rotate: "rotate",
	Drop:   "drop",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}

// FromString parses a single command token.
func FromString(s string) (Command, error) {
	for i, n := range commandNames {
		if s == n {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Opposite returns the command that undoes c. Rotate has no inverse in the
// vocabulary and is returned unchanged, as is Drop.
func (c Command) Opposite() Command {
	switch c {
	case Left:
		return Right
	case Right:
		return Left
	case Up:
		return Down
	case Down:
		return Up
	}
	return c
}

// Sequence is an ordered list of commands.
type Sequence []Command

// ParseSequence parses whitespace-separated or pre-split command tokens.
func ParseSequence(tokens ...string) (Sequence, error) {
	var seq Sequence
	for _, tok := range tokens {
		for _, f := range strings.Fields(tok) {
			c, err := FromString(f)
			if err != nil {
				return nil, err
			}
			seq = append(seq, c)
		}
	}
	return seq, nil
}

// Reversed returns a reversed copy of the sequence.
func (s Sequence) Reversed() Sequence {
	return lo.Reverse(append(Sequence(nil), s...))
}

// Count returns how many times c occurs in the sequence.
func (s Sequence) Count(c Command) int {
	return lo.Count(s, c)
}

// Strings renders each command as its token.
func (s Sequence) Strings() []string {
	return lo.Map(s, func(c Command, _ int) string {
		return c.String()
	})
}

func (s Sequence) String() string {
	return strings.Join(s.Strings(), " ")
}
