package shell

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/gamestate"
	"github.com/domino14/dropblox/testhelpers"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -file /path/to/log.txt",
			&shellcmd{"autoplay", nil, map[string]string{"file": "/path/to/log.txt"}},
			nil},
		{"play 2",
			&shellcmd{"play", []string{"2"}, map[string]string{}},
			nil},
		{"play rotate right drop -games 3 ",
			&shellcmd{"play",
				[]string{"rotate", "right", "drop"},
				map[string]string{"games": "3"}},
			nil,
		},
		{"set weight-height -7",
			&shellcmd{"set", []string{"weight-height", "-7"}, map[string]string{}},
			nil},
		{`load "/tmp/my state.json"`,
			&shellcmd{"load", []string{"/tmp/my state.json"}, map[string]string{}},
			nil},
		{"autoplay -games 3 -file",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	if err := cfg.Load([]string{"--rows=12", "--cols=6", "--threads=2",
		"--autoplay-max-pieces=5", "--weight-lookahead=0"}); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	sc, err := newController(cfg, &out)
	if err != nil {
		t.Fatal(err)
	}
	return sc, &out
}

// run executes one line and returns what it printed.
func run(sc *ShellController, out *bytes.Buffer, line string) string {
	out.Reset()
	sc.Execute(context.Background(), line)
	return out.String()
}

func writeState(t *testing.T) string {
	t.Helper()
	tee := testhelpers.Tetromino("T", 6)
	b := testhelpers.BoardFromRows(t, []string{
		"......",
		"......",
		"......",
		"......",
		"......",
		"......",
		"......",
		"......",
		"......",
		"#.....",
		"##..##",
		"###.##",
	}, tee, testhelpers.Repeat(tee, 3)...)
	data, err := gamestate.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNeedsBoard(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	for _, line := range []string{"show", "gen", "best", "eval", "play left", "save /tmp/x.json"} {
		is.True(strings.HasPrefix(run(sc, out, line), "Error: please load"))
	}
}

func TestLoadGenPlaySave(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	path := writeState(t)

	is.True(strings.Contains(run(sc, out, "load "+path), "preview: preview-0 preview-1 preview-2"))

	res := run(sc, out, "gen 3")
	is.True(strings.HasPrefix(res, playTableHeader()))
	is.True(strings.Contains(res, "placements reachable"))
	is.True(len(sc.curPlays) > 3)
	is.Equal(strings.Count(res, "\n"), 5)

	is.True(strings.Contains(run(sc, out, "eval 1"), "total"))

	top := sc.curPlays[0]
	run(sc, out, "play 1")
	is.Equal(sc.board.Plaintext(), top.Result.Plaintext())
	is.Equal(len(sc.board.Preview()), 3)
	is.Equal(sc.curPlays, nil)

	saved := filepath.Join(t.TempDir(), "saved.json")
	is.Equal(run(sc, out, "save "+saved), "saved to "+saved+"\n")
	data, err := os.ReadFile(saved)
	is.NoErr(err)
	b, err := gamestate.Parse(data, 12, 6)
	is.NoErr(err)
	is.Equal(b.Plaintext(), sc.board.Plaintext())
}

func TestPlayCommands(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	run(sc, out, "load "+writeState(t))
	before := sc.board

	is.True(strings.Contains(run(sc, out, "play rotate bogus"), "unknown command"))
	is.Equal(sc.board, before)
	is.True(strings.HasPrefix(run(sc, out, "play 1"), "Error: no generated plays"))

	expected, err := before.Place()
	is.NoErr(err)
	run(sc, out, "play drop")
	is.Equal(sc.board.Plaintext(), expected.Plaintext())
}

func TestBest(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	run(sc, out, "load "+writeState(t))
	before := sc.board
	run(sc, out, "gen")
	top := sc.curPlays[0]

	res := run(sc, out, "best")
	is.True(strings.HasPrefix(res, "  1: "))
	is.Equal(sc.board.Plaintext(), top.Result.Plaintext())
	is.True(sc.board != before)
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	run(sc, out, "new")
	is.Equal(sc.board.Rows(), 12)
	is.Equal(sc.board.Cols(), 6)
	is.Equal(len(sc.board.Preview()), 5)
	is.Equal(sc.board.FilledCells(), 0)
}

func TestSet(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	is.True(strings.HasPrefix(run(sc, out, "set"), "Settings:\n"))
	is.Equal(run(sc, out, "set weight-height"), "weight-height: -5\n")

	old := sc.solver
	run(sc, out, "set weight-height -7")
	is.Equal(sc.config.GetInt(config.ConfigWeightHeight), -7)
	is.True(sc.solver != old)

	is.True(strings.HasPrefix(run(sc, out, "set nonsense 1"), "Error: no such setting"))
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	is.True(strings.HasPrefix(run(sc, out, "help"), "Usage:"))
	is.True(strings.HasPrefix(run(sc, out, "help autoplay"), "autoplay [options]"))
	is.True(strings.HasPrefix(run(sc, out, "help nothing"), "Error: there is no help text"))
	is.True(strings.Contains(run(sc, out, "frobnicate"), "not recognized"))
	is.Equal(run(sc, out, "   "), "")
}

func TestAutoplay(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	logfile := filepath.Join(t.TempDir(), "games.csv")
	res := run(sc, out, "autoplay -games 2 -threads 1 -file "+logfile)
	is.True(strings.HasPrefix(res, "games: 2"))

	data, err := os.ReadFile(logfile)
	is.NoErr(err)
	is.True(strings.HasPrefix(string(data), "gameID,"))

	is.True(strings.HasPrefix(run(sc, out, "autoplay -games x"), "Error: "))
}

func TestAutoplayPiecesIsPerRun(t *testing.T) {
	is := is.New(t)
	sc, out := testController(t)
	res := run(sc, out, "autoplay -games 1 -threads 1 -pieces 3")
	is.True(strings.HasPrefix(res, "games: 1"))
	is.Equal(sc.config.GetInt(config.ConfigAutoplayMax), 5)
	is.True(strings.Contains(run(sc, out, "set autoplay-max-pieces"), ": 5"))
}
