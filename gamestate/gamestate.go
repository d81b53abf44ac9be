// Package gamestate reads and writes the JSON description of a dropblox
// position:
//
//	{
//	  "bitmap":  [[0, 1, ...], ...],                       // rows of cols cells
//	  "block":   {"center": {"i": 1, "j": 5}, "offsets": [{"i": 0, "j": -1}, ...]},
//	  "preview": [{"center": ..., "offsets": ...}, ...]
//	}
//
// i is the row and j the column. Any other fields are ignored.
package gamestate

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/domino14/dropblox/block"
	"github.com/domino14/dropblox/board"
)

var ErrMalformed = errors.New("malformed game state")

// Parse builds a board from a JSON game state. rows and cols give the
// expected dimensions; pass 0 for both to take them from the bitmap.
func Parse(data []byte, rows, cols int) (*board.Board, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	state := gjson.ParseBytes(data)

	bitmap := state.Get("bitmap")
	if !bitmap.IsArray() {
		return nil, fmt.Errorf("%w: missing bitmap", ErrMalformed)
	}
	grid, err := parseBitmap(bitmap)
	if err != nil {
		return nil, err
	}
	if rows == 0 && cols == 0 {
		rows = len(grid)
		if rows > 0 {
			cols = len(grid[0])
		}
	}

	active, err := parseShape("block", state.Get("block"))
	if err != nil {
		return nil, err
	}
	var preview []*block.Shape
	for i, raw := range state.Get("preview").Array() {
		s, err := parseShape(fmt.Sprintf("preview-%d", i), raw)
		if err != nil {
			return nil, err
		}
		preview = append(preview, s)
	}

	b, err := board.NewBoard(rows, cols, grid, active, preview)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	log.Debug().Int("rows", rows).Int("cols", cols).Int("preview", len(preview)).
		Msg("parsed-game-state")
	return b, nil
}

func parseBitmap(bitmap gjson.Result) ([][]bool, error) {
	var grid [][]bool
	for r, row := range bitmap.Array() {
		if !row.IsArray() {
			return nil, fmt.Errorf("%w: bitmap row %d is not an array", ErrMalformed, r)
		}
		cells := row.Array()
		line := make([]bool, len(cells))
		for c, cell := range cells {
			switch cell.Type {
			case gjson.Number:
				line[c] = cell.Int() != 0
			case gjson.True, gjson.False:
				line[c] = cell.Bool()
			default:
				return nil, fmt.Errorf("%w: bitmap cell (%d, %d) is %s", ErrMalformed, r, c, cell.Type)
			}
		}
		grid = append(grid, line)
	}
	return grid, nil
}

func parseShape(name string, raw gjson.Result) (*block.Shape, error) {
	if !raw.IsObject() {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformed, name)
	}
	center, err := parsePoint(raw.Get("center"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s center", err, name)
	}
	offsets := raw.Get("offsets")
	if !offsets.IsArray() {
		return nil, fmt.Errorf("%w: %s has no offsets", ErrMalformed, name)
	}
	var points []block.Point
	for k, o := range offsets.Array() {
		p, err := parsePoint(o)
		if err != nil {
			return nil, fmt.Errorf("%w: %s offset %d", err, name, k)
		}
		points = append(points, p)
	}
	s, err := block.NewShape(name, center, points)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return s, nil
}

func parsePoint(raw gjson.Result) (block.Point, error) {
	i, j := raw.Get("i"), raw.Get("j")
	if i.Type != gjson.Number || j.Type != gjson.Number {
		return block.Point{}, ErrMalformed
	}
	return block.Point{Row: int(i.Int()), Col: int(j.Int())}, nil
}

// Marshal writes the board's locked cells, its active shape and its
// preview in the format Parse reads. The active block is written at its
// spawn pose.
func Marshal(b *board.Board) ([]byte, error) {
	grid := make([][]int, b.Rows())
	for r := range grid {
		grid[r] = make([]int, b.Cols())
		for c := range grid[r] {
			if b.Occupied(r, c) {
				grid[r][c] = 1
			}
		}
	}
	preview := make([]shapeJSON, len(b.Preview()))
	for i, s := range b.Preview() {
		preview[i] = toJSON(s)
	}

	out, err := sjson.SetBytes([]byte(`{}`), "bitmap", grid)
	if err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "block", toJSON(b.Active().Shape())); err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "preview", preview)
}

type point struct {
	I int `json:"i"`
	J int `json:"j"`
}

type shapeJSON struct {
	Center  point   `json:"center"`
	Offsets []point `json:"offsets"`
}

func toJSON(s *block.Shape) shapeJSON {
	c := s.Center()
	sj := shapeJSON{Center: point{I: c.Row, J: c.Col}, Offsets: make([]point, s.Size())}
	for k := range sj.Offsets {
		o := s.Offset(k)
		sj.Offsets[k] = point{I: o.Row, J: o.Col}
	}
	return sj
}
