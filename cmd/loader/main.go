package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geofieldmap/internal/config"
	"github.com/woozymasta/geofieldmap/internal/logger"
	"github.com/woozymasta/geofieldmap/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config"   env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	DataDir    string   `short:"d" long:"data-dir" env:"DATA_DIR"    description:"Output directory"           default:"maps"`
	Limit      []string `short:"l" long:"limit"    env:"LIMIT_NAMES" description:"Limit processing to specific display names"`
	Force      bool     `short:"f" long:"force"    description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := &http.Client{Timeout: 15 * time.Second}

	// Filter displays if limit is set
	displays := cfg.Displays
	if len(opts.Limit) > 0 {
		displays = make([]config.Display, 0, len(opts.Limit))
		available := make(map[string]config.Display)
		for _, d := range cfg.Displays {
			available[d.Name] = d
		}

		seen := make(map[string]bool)

		for _, name := range opts.Limit {
			if seen[name] {
				continue
			}
			seen[name] = true

			if d, ok := available[name]; ok {
				displays = append(displays, d)
			} else {
				log.Error().
					Str("name", name).
					Msg("Display specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("displays_total", len(cfg.Displays)).
		Int("displays_queued", len(displays)).
		Msg("Starting loader")

	ctx := context.Background()
	failed := 0
	for _, d := range displays {
		if err := processor.ProcessDisplay(ctx, client, cfg, d, opts.DataDir, opts.Force); err != nil {
			failed++
			log.Error().Err(err).Str("display", d.Name).Msg("Failed to process display")
		}
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Loader finished with errors")
	}

	log.Info().Msg("Loader finished successfully")
}
