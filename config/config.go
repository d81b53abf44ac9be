package config

import (
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigRows          = "rows"
	ConfigCols          = "cols"
	ConfigPreviewSize   = "preview-size"
	ConfigThreads       = "threads"
	ConfigDebug         = "debug"
	ConfigPathFallback  = "path-fallback"
	ConfigScoreCache    = "score-cache-size"
	ConfigPiecesFile    = "pieces-file"
	ConfigConfigFile    = "config-file"
	ConfigCPUProfile    = "cpu-profile"
	ConfigAutoplayGames = "autoplay-games"
	ConfigAutoplayMax   = "autoplay-max-pieces"
	ConfigAutoplayLog   = "autoplay-log"
	ConfigVerify        = "verify"

	ConfigWeightLine       = "weight-line"
	ConfigWeightPartial    = "weight-partial"
	ConfigWeightHoleOpen   = "weight-hole-open"
	ConfigWeightHoleClosed = "weight-hole-closed"
	ConfigWeightFlat       = "weight-flat"
	ConfigWeightHeight     = "weight-height"
	ConfigWeightLookahead  = "weight-lookahead"
)

// Config wraps a viper instance. Settings come, in increasing order of
// precedence, from the defaults below, an optional config file,
// DROPBLOX_* environment variables and command-line flags.
type Config struct {
	*viper.Viper
	args []string
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("dropblox", pflag.ContinueOnError)
	fs.Int(ConfigRows, 33, "number of rows on the board")
	fs.Int(ConfigCols, 12, "number of columns on the board")
	fs.Int(ConfigPreviewSize, 5, "number of upcoming pieces revealed")
	fs.Int(ConfigThreads, runtime.NumCPU(), "number of goroutines scoring placements")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Bool(ConfigPathFallback, true, "fall back to a breadth-first path search when the greedy path fails")
	fs.Int(ConfigScoreCache, 0, "maximum number of cached scores; 0 sizes the cache from system memory")
	fs.String(ConfigPiecesFile, "", "YAML file with the piece set (default: tetrominoes)")
	fs.String(ConfigConfigFile, "", "optional YAML/TOML/JSON config file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.Int(ConfigAutoplayGames, 10, "number of self-play games")
	fs.Int(ConfigAutoplayMax, 500, "maximum pieces per self-play game")
	fs.String(ConfigAutoplayLog, "", "write one CSV line per self-play placement to this file")
	fs.String(ConfigVerify, "", "space-separated commands to replay against the input instead of solving")

	fs.Int(ConfigWeightLine, 100, "score per cleared row")
	fs.Int(ConfigWeightPartial, 1, "score per partially filled row")
	fs.Int(ConfigWeightHoleOpen, -10, "score per covered empty cell in a run, up to 10 per run")
	fs.Int(ConfigWeightHoleClosed, -100, "score per fully enclosed hole")
	fs.Int(ConfigWeightFlat, -10, "multiplier for the total surface slope change")
	fs.Int(ConfigWeightHeight, -5, "score per row of the tallest column")
	fs.Int(ConfigWeightLookahead, 20, "score per row the next piece could complete; 0 disables lookahead")
	return fs
}

// DefaultConfig returns a config holding only the default values.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}

// Load parses args (without the program name) and reads the environment
// and the config file, if one was given.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("DROPBLOX")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Args returns the positional arguments left over after flag parsing.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings returns all settings except local file paths, for
// logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	delete(settings, ConfigConfigFile)
	delete(settings, ConfigCPUProfile)
	return settings
}
