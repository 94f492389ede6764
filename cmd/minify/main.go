package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/woozymasta/geofieldmap/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// pageHooks are the element ids script.js looks up on the page.
var pageHooks = []string{"display", "map", "message"}

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	AssetsDir string `short:"a" long:"assets" description:"Directory with index.html.tpl, style.css and script.js" default:"assets"`
	Output    string `short:"o" long:"out"    description:"Output file, relative to the assets directory unless absolute" default:"index.html"`
}

// PageData is rendered into index.html.tpl.
type PageData struct {
	CSS string
	JS  string
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

	out := opts.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(opts.AssetsDir, out)
	}

	page, err := buildPage(opts.AssetsDir)
	if err != nil {
		log.Fatal().Err(err).Str("assets", opts.AssetsDir).Msg("Failed to build page")
	}

	if err := os.WriteFile(out, page, 0644); err != nil {
		log.Fatal().Err(err).Str("path", out).Msg("Failed to write page")
	}

	log.Info().Str("path", out).Int("bytes", len(page)).Msg("Page built")
}

// buildPage minifies the stylesheet and the script, inlines them into the
// template and minifies the result.
func buildPage(dir string) ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	tplRaw, err := os.ReadFile(filepath.Join(dir, "index.html.tpl"))
	if err != nil {
		return nil, err
	}
	if err := checkHooks(string(tplRaw)); err != nil {
		return nil, fmt.Errorf("index.html.tpl: %w", err)
	}

	var data PageData
	for _, src := range []struct {
		file, mediatype string
		dst             *string
	}{
		{"style.css", "text/css", &data.CSS},
		{"script.js", "text/javascript", &data.JS},
	} {
		raw, err := os.ReadFile(filepath.Join(dir, src.file))
		if err != nil {
			return nil, err
		}
		if *src.dst, err = m.String(src.mediatype, string(raw)); err != nil {
			return nil, fmt.Errorf("minify %s: %w", src.file, err)
		}
	}

	tmpl, err := template.New("index").Option("missingkey=error").Parse(string(tplRaw))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	page, err := m.String("text/html", buf.String())
	if err != nil {
		return nil, fmt.Errorf("minify page: %w", err)
	}

	return []byte(page), nil
}

// checkHooks fails when the template lacks an element the script binds to.
func checkHooks(tpl string) error {
	var missing []string
	for _, id := range pageHooks {
		if !strings.Contains(tpl, `id="`+id+`"`) {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing element ids: %s", strings.Join(missing, ", "))
	}

	return nil
}
