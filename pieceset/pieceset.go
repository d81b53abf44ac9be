// Package pieceset is the registry of shapes a game can deal. Shapes are
// described in YAML and placed at a spawn position for a given board width.
package pieceset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
	"lukechampine.com/frand"

	"github.com/domino14/dropblox/block"
)

//go:embed tetrominoes.yaml
var defaultPieces []byte

var ErrNoPieces = errors.New("piece set is empty")

type pieceDef struct {
	Name    string  `yaml:"name"`
	Offsets [][]int `yaml:"offsets"`
}

type setDef struct {
	Pieces []pieceDef `yaml:"pieces"`
}

// PieceSet holds immutable shapes; it is safe for concurrent use.
type PieceSet struct {
	shapes []*block.Shape
	byName map[string]*block.Shape
}

// Default returns the seven tetrominoes laid out for a board cols wide.
func Default(cols int) *PieceSet {
	ps, err := Parse(defaultPieces, cols)
	if err != nil {
		panic(err)
	}
	return ps
}

// Load reads a piece set from a YAML file. An empty path loads the default
// set.
func Load(path string, cols int) (*PieceSet, error) {
	if path == "" {
		return Parse(defaultPieces, cols)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Msg("loading-piece-set")
	return Parse(data, cols)
}

// Parse decodes a YAML piece set.
func Parse(data []byte, cols int) (*PieceSet, error) {
	def := setDef{}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	if len(def.Pieces) == 0 {
		return nil, ErrNoPieces
	}
	ps := &PieceSet{byName: map[string]*block.Shape{}}
	for _, pd := range def.Pieces {
		offsets := make([]block.Point, len(pd.Offsets))
		for i, o := range pd.Offsets {
			if len(o) != 2 {
				return nil, fmt.Errorf("piece %q: offset %d is not a (row, col) pair", pd.Name, i)
			}
			offsets[i] = block.Point{Row: o[0], Col: o[1]}
		}
		shape, err := block.NewShape(pd.Name, spawnCenter(offsets, cols), offsets)
		if err != nil {
			return nil, fmt.Errorf("piece %q: %w", pd.Name, err)
		}
		if _, dup := ps.byName[pd.Name]; dup {
			return nil, fmt.Errorf("duplicate piece %q", pd.Name)
		}
		ps.shapes = append(ps.shapes, shape)
		ps.byName[pd.Name] = shape
	}
	return ps, nil
}

// spawnCenter puts the pivot low enough that every rotation fits below the
// top edge, in the middle column.
func spawnCenter(offsets []block.Point, cols int) block.Point {
	radius := 0
	for _, o := range offsets {
		radius = max(radius, o.Row, -o.Row, o.Col, -o.Col)
	}
	return block.Point{Row: radius, Col: (cols - 1) / 2}
}

func (ps *PieceSet) Shapes() []*block.Shape { return ps.shapes }

func (ps *PieceSet) ByName(name string) (*block.Shape, bool) {
	s, ok := ps.byName[name]
	return s, ok
}

// Random deals one shape uniformly at random.
func (ps *PieceSet) Random() *block.Shape {
	return ps.shapes[frand.Intn(len(ps.shapes))]
}

// Draw deals n shapes.
func (ps *PieceSet) Draw(n int) []*block.Shape {
	out := make([]*block.Shape, n)
	for i := range out {
		out[i] = ps.Random()
	}
	return out
}
