// Command dropblox reads a game state as JSON, from its first argument or
// from stdin, and prints the commands for the best placement, one per line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/config"
	"github.com/domino14/dropblox/gamestate"
	"github.com/domino14/dropblox/move"
	"github.com/domino14/dropblox/solver"
)

func setupLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger
}

func readState(args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	return io.ReadAll(os.Stdin)
}

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	logger := setupLogger(cfg.GetBool(config.ConfigDebug))
	ctx := logger.WithContext(context.Background())

	data, err := readState(cfg.Args())
	if err != nil {
		log.Fatal().Err(err).Msg("reading-state")
	}
	b, err := gamestate.Parse(data, cfg.GetInt(config.ConfigRows), cfg.GetInt(config.ConfigCols))
	if err != nil {
		log.Fatal().Err(err).Msg("parsing-state")
	}

	if v := cfg.GetString(config.ConfigVerify); v != "" {
		cmds, err := move.ParseSequence(v)
		if err != nil {
			log.Fatal().Err(err).Msg("parsing-commands")
		}
		nb, err := b.DoCommands(cmds)
		if err != nil {
			log.Fatal().Err(err).Msg("replaying-commands")
		}
		fmt.Printf("cleared %d\n%s", nb.Cleared(), nb.ToDisplayText())
		return
	}

	start := time.Now()
	play, err := solver.NewFromConfig(cfg).Solve(ctx, b)
	if err != nil {
		log.Fatal().Err(err).Msg("solving")
	}
	log.Debug().Stringer("pose", play.Pose).Int("score", play.Score).
		Dur("elapsed", time.Since(start)).Msg("best-play")
	for _, c := range play.Commands {
		fmt.Println(c.String())
	}
}
