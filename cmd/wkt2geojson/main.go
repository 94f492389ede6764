package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/woozymasta/geofieldmap/internal/geo"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input        string   `short:"i" long:"in"          description:"Input file with one geofield value per line. Reads from stdin if empty"`
	Output       string   `short:"o" long:"out"         description:"Output file path. Writes to stdout if empty"`
	Format       string   `short:"f" long:"format"      description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Descriptions []string `short:"D" long:"description" description:"Feature description, repeat for each line; the first one is the fallback"`
	Data         string   `short:"d" long:"data"        description:"JSON payload attached to every feature as properties.data"`
	Typed        bool     `short:"t" long:"typed"       description:"Treat lines as typed field values (any WKT, WKB hex or GeoJSON geometry)"`
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

	var data any
	if opts.Data != "" {
		if err := json.Unmarshal([]byte(opts.Data), &data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: --data is not valid JSON: %v\n", err)
			os.Exit(1)
		}
	}

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	items, err := readItems(in, opts.Typed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	fc := geo.NewFeatureCollection(geo.BuildFeatures(items, opts.Descriptions, data))

	outputData, err := marshal(fc, opts.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d of %d values to %s (format: %s)\n",
			len(fc.Features), len(items), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// readItems reads one value per line, skipping blank lines.
func readItems(r io.Reader, typed bool) (geo.Items, error) {
	var items geo.Items

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if typed {
			items = append(items, geo.FieldItem{Value: line})
		} else {
			items = append(items, geo.RawValue(line))
		}
	}

	return items, scanner.Err()
}

// marshal encodes the collection; YAML goes through the JSON form so geometries
// keep their GeoJSON shape.
func marshal(fc geo.FeatureCollection, format string) ([]byte, error) {
	raw, err := json.MarshalIndent(fc, "", "  ")
	if err != nil || format != "yaml" {
		return raw, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	return yaml.Marshal(doc)
}
