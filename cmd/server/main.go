package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geofieldmap/internal/apikey"
	"github.com/woozymasta/geofieldmap/internal/config"
	"github.com/woozymasta/geofieldmap/internal/logger"
	"github.com/woozymasta/geofieldmap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile     string `short:"c" long:"config"          env:"CONFIG_FILE"         description:"Path to configuration file"                default:"config.yaml"`
	DataDir        string `short:"d" long:"data-dir"        env:"DATA_DIR"            description:"Directory with generated display files"    default:"maps"`
	Addr           string `short:"a" long:"addr"            env:"LISTEN_ADDRESS"      description:"Address to listen on"                      default:"0.0.0.0"`
	KeyDisplayName string `short:"k" long:"key-display-name" env:"APIKEY_DISPLAY_NAME" description:"Google Cloud API key display name to look up via ADC"`
	Port           int    `short:"p" long:"port"            env:"LISTEN_PORT"         description:"Port to listen on"                         default:"8080"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var remote apikey.Lookup
	if name := firstNonEmpty(opts.KeyDisplayName, cfg.APIKeyDisplayName); name != "" {
		remote = apikey.CloudKeys{DisplayName: name}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	srvCtx := server.NewServerContext(ctx, cfg, apikey.NewResolver(cfg, remote), opts.DataDir)
	cancel()

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("displays_loaded", len(srvCtx.Displays)).
		Msg("Web server started")

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
