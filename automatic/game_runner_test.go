package automatic

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/dropblox/config"
)

func smallConfig(t *testing.T, extra ...string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	args := append([]string{"--rows=12", "--cols=6", "--autoplay-max-pieces=20",
		"--weight-lookahead=0", "--threads=2"}, extra...)
	if err := cfg.Load(args); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestPlayGame(t *testing.T) {
	is := is.New(t)
	r, err := NewGameRunner(nil, smallConfig(t))
	is.NoErr(err)
	for i := 0; i < 3; i++ {
		res, err := r.PlayGame(context.Background())
		is.NoErr(err)
		is.True(res.Pieces > 0)
		is.True(res.Pieces <= 20)
		if !res.ToppedOut {
			is.Equal(res.Pieces, 20)
		}
		// every tetromino adds four cells and every line takes six away.
		is.Equal(res.Final.FilledCells(), 4*res.Pieces-6*res.Lines)
		is.Equal(len(res.Final.Preview()), 5)
	}
}

func TestPlayGameLogs(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 100)
	r, err := NewGameRunner(logchan, smallConfig(t, "--autoplay-max-pieces=5"))
	is.NoErr(err)
	res, err := r.PlayGame(context.Background())
	is.NoErr(err)
	close(logchan)
	lines := 0
	for msg := range logchan {
		is.True(strings.HasPrefix(msg, "1,"))
		is.True(strings.HasSuffix(msg, "drop\n"))
		lines++
	}
	is.Equal(lines, res.Pieces)
}

func TestBadPiecesFile(t *testing.T) {
	is := is.New(t)
	_, err := NewGameRunner(nil, smallConfig(t, "--pieces-file=/nonexistent/pieces.yaml"))
	is.True(err != nil)
}

func TestPlayGames(t *testing.T) {
	is := is.New(t)
	var logw bytes.Buffer
	summary, err := PlayGames(context.Background(), smallConfig(t), 3, 2, &logw)
	is.NoErr(err)
	is.Equal(summary.Games, 3)
	is.Equal(summary.Pieces.Len(), 3)
	is.Equal(IsPlaying.Value(), int64(0))
	is.Equal(GameCounter.Value(), int64(3))

	rows := strings.Split(strings.TrimSuffix(logw.String(), "\n"), "\n")
	is.Equal(rows[0]+"\n", LogHeader)
	is.Equal(len(rows)-1, int(summary.Pieces.Sum()))

	var out bytes.Buffer
	is.NoErr(summary.Fprint(&out))
	is.True(strings.HasPrefix(out.String(), "games: 3"))
}

func TestPlayGamesCanceled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := PlayGames(ctx, smallConfig(t), 5, 2, nil)
	is.True(err != nil)
	is.True(summary.Games < 5)
}
