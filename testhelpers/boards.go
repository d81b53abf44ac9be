// Package testhelpers has fixtures shared by package tests.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
	"github.com/domino14/dropblox/pieceset"
)

// Dot is a single-cell shape spawning in column 0 of row 0.
var Dot = block.MustShape("dot", block.Point{}, block.Point{})

// Tetrominoes returns the default piece set for a board cols wide.
func Tetrominoes(cols int) *pieceset.PieceSet {
	return pieceset.Default(cols)
}

// Tetromino returns one of the default shapes by name.
func Tetromino(name string, cols int) *block.Shape {
	s, ok := pieceset.Default(cols).ByName(name)
	if !ok {
		panic("no such tetromino " + name)
	}
	return s
}

// Repeat returns a preview of n copies of s.
func Repeat(s *block.Shape, n int) []*block.Shape {
	out := make([]*block.Shape, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// BoardFromRows builds a board from plaintext rows (see board.FromPlaintext)
// and fails the test on error.
func BoardFromRows(t testing.TB, rows []string, active *block.Shape, preview ...*block.Shape) *board.Board {
	t.Helper()
	b, err := board.FromPlaintext(rows, active, preview)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// EmptyRows returns n rows of width cols with nothing in them.
func EmptyRows(n, cols int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = strings.Repeat(".", cols)
	}
	return rows
}
