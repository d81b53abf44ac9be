package automatic

// Self-play over many games, for tuning the evaluation weights.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/stats"
)

var (
	GameCounter *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GameCounter = expvar.NewInt("gameCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// LogHeader names the columns of the per-piece CSV log.
const LogHeader = "gameID,piece,shape,score,cleared,totallines,commands\n"

// Summary collects the results of a batch of games.
type Summary struct {
	Games     int
	ToppedOut int
	Pieces    *stats.Sample
	Lines     *stats.Sample
}

func newSummary() *Summary {
	return &Summary{Pieces: stats.NewSample("pieces"), Lines: stats.NewSample("lines")}
}

func (s *Summary) add(res *GameResult) {
	s.Games++
	if res.ToppedOut {
		s.ToppedOut++
	}
	s.Pieces.Push(float64(res.Pieces))
	s.Lines.Push(float64(res.Lines))
}

// Fprint writes the summary with histograms of pieces placed and lines
// cleared per game.
func (s *Summary) Fprint(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "games: %d (topped out: %d)\n", s.Games, s.ToppedOut); err != nil {
		return err
	}
	if err := s.Pieces.Fprint(w, 10); err != nil {
		return err
	}
	return s.Lines.Fprint(w, 10)
}

type job struct{}

// PlayGames plays numGames games on the given number of goroutines. If
// logw is not nil every placement is written to it as CSV.
func PlayGames(ctx context.Context, cfg *config.Config, numGames, threads int,
	logw io.Writer) (*Summary, error) {

	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	threads = max(1, min(threads, numGames))
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	var logChan chan string
	var logDone sync.WaitGroup
	if logw != nil {
		logChan = make(chan string, 100)
		logDone.Add(1)
		go func() {
			defer logDone.Done()
			io.WriteString(logw, LogHeader)
			for msg := range logChan {
				io.WriteString(logw, msg)
			}
		}()
	}

	GameCounter.Set(0)
	jobs := make(chan job, 100)
	results := make(chan *GameResult, 100)
	errs := make(chan error, threads)
	var wg sync.WaitGroup
	wg.Add(threads)

	for i := 0; i < threads; i++ {
		go func() {
			defer wg.Done()
			r, err := NewGameRunner(logChan, cfg)
			if err != nil {
				errs <- err
				for range jobs {
				}
				return
			}
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			failed := false
			for range jobs {
				if failed {
					continue
				}
				res, err := r.PlayGame(ctx)
				if err != nil {
					// keep draining so the feeder never blocks.
					errs <- err
					failed = true
					continue
				}
				GameCounter.Add(1)
				results <- res
			}
		}()
	}

	go func() {
	gameLoop:
		for i := 0; i < numGames; i++ {
			select {
			case <-ctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				break gameLoop
			case jobs <- job{}:
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
		if logChan != nil {
			close(logChan)
		}
	}()

	summary := newSummary()
	for res := range results {
		summary.add(res)
	}
	logDone.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	log.Info().Int("games", summary.Games).Float64("mean-lines", summary.Lines.Mean()).
		Msg("self-play-finished")
	return summary, nil
}
