// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group shared by all commands.
type Logger struct {
	Level   string `long:"log-level"    env:"LOG_LEVEL"    description:"Log level"  choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format  string `long:"log-format"   env:"LOG_FORMAT"   description:"Log format" choice:"text" choice:"json" default:"text"`
	NoColor bool   `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colors in text log format"`
}

// Setup applies the options to the global logger.
// Unknown levels fall back to info.
func (l Logger) Setup() {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if l.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.DateTime,
		NoColor:    l.NoColor,
	})
}
