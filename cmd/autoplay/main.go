// Command autoplay plays self-play games with the configured weights and
// prints statistics on pieces placed and lines cleared.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/dropblox/automatic"
	"github.com/domino14/dropblox/config"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}

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
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(logger.WithContext(context.Background()),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var logw io.Writer
	if path := cfg.GetString(config.ConfigAutoplayLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatal().Err(err).Msg("creating-log")
		}
		defer f.Close()
		logw = f
	}

	start := time.Now()
	summary, err := automatic.PlayGames(ctx, cfg, cfg.GetInt(config.ConfigAutoplayGames),
		cfg.GetInt(config.ConfigThreads), logw)
	if err != nil {
		log.Error().Err(err).Msg("autoplay-stopped")
	}
	if summary != nil {
		log.Info().Dur("elapsed", time.Since(start)).Int("games", summary.Games).Msg("autoplay-done")
		if err := summary.Fprint(os.Stdout); err != nil {
			log.Error().Err(err).Msg("printing-summary")
		}
	}
}
