// Copyright 2026 The Spatialkit Authors.
//
// Use of this software is governed by the MIT License
// included in the file LICENSE.

// gmlconv converts geometries between GML dialects, GeoRSS and GeoJSON.
// The input format is detected from the document itself (JSON object or
// XML element); the output format is selected with --to.
package main

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twpayne/go-geom"

	"github.com/spatialkit/gml"
	"github.com/spatialkit/gml/internal/config"
)

type Logger struct {
	Level string `long:"log-level" env:"LOG_LEVEL" description:"Logging level" default:"info" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	JSON  bool   `long:"log-json"  env:"LOG_JSON"  description:"Log in JSON format"`
}

// Setup applies the logging options to the global zerolog logger.
func (l *Logger) Setup() {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !l.JSON {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

type Options struct {
	Logger Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE" description:"Path to configuration file"`
	In         string `short:"i" long:"in"       description:"Input file ('-' for stdin)"  default:"-"`
	Out        string `short:"o" long:"out"      description:"Output file ('-' for stdout)" default:"-"`
	From       string `short:"f" long:"from"     description:"Input dialect" default:"auto" choice:"auto" choice:"gml-3.1.1" choice:"gml-3.2" choice:"gml-3.3-ce" choice:"georss"`
	To         string `short:"t" long:"to"       description:"Output format" default:"geojson" choice:"geojson" choice:"gml-3.1.1" choice:"gml-3.2" choice:"gml-3.3-ce" choice:"georss"`
	SRS        string `short:"s" long:"srs"      description:"srsName to assume when the input declares none"`
	SRSName    string `long:"srs-name" description:"srsName to write on the encoded document"`
	ID         string `long:"id"       description:"gml:id seed for the encoded document" default:"ID"`
	Digits     int    `short:"d" long:"digits"   description:"Maximum decimal digits in GeoJSON output" default:"-1"`
	CRS        bool   `long:"crs"      description:"Include a named CRS member in GeoJSON output"`
	Pretty     bool   `short:"p" long:"pretty"   description:"Indent the output"`
}

var dialectNames = map[string]gml.Dialect{
	"auto":       gml.DialectAuto,
	"gml-3.1.1":  gml.Dialect311,
	"gml-3.2":    gml.Dialect32,
	"gml-3.3-ce": gml.Dialect33CE,
	"georss":     gml.DialectGeoRSS,
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

	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		applyConfig(&opts, cfg)
	}

	data, err := readInput(opts.In)
	if err != nil {
		log.Fatal().Err(err).Str("in", opts.In).Msg("Failed to read input")
	}

	g, err := decode(data, &opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse input geometry")
	}
	log.Debug().Str("type", geomTypeName(g)).Int("srid", g.SRID()).Msg("Parsed input geometry")

	out, err := encode(g, &opts)
	if err != nil {
		log.Fatal().Err(err).Str("to", opts.To).Msg("Failed to encode geometry")
	}

	if err := writeOutput(opts.Out, out); err != nil {
		log.Fatal().Err(err).Str("out", opts.Out).Msg("Failed to write output")
	}
}

// applyConfig fills in options the command line left at their zero or
// default values.
func applyConfig(opts *Options, cfg *config.Config) {
	if cfg.From != "" && opts.From == "auto" {
		opts.From = cfg.From
	}
	if cfg.To != "" && opts.To == "geojson" {
		opts.To = cfg.To
	}
	if cfg.SRS != "" && opts.SRS == "" {
		opts.SRS = cfg.SRS
	}
	if cfg.SRSName != "" && opts.SRSName == "" {
		opts.SRSName = cfg.SRSName
	}
	if cfg.ID != "" && opts.ID == "ID" {
		opts.ID = cfg.ID
	}
	if cfg.Digits > 0 && opts.Digits < 0 {
		opts.Digits = cfg.Digits
	}
	if cfg.Pretty {
		opts.Pretty = true
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// decode parses the input as GeoJSON when it opens with a JSON object,
// otherwise as a markup geometry document.
func decode(data []byte, opts *Options) (geom.T, error) {
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		return gml.FromGeoJSON(data)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, errors.New("input has no document element")
	}

	parseOpts := []gml.ParseOption{}
	if d := dialectNames[opts.From]; d != gml.DialectAuto {
		parseOpts = append(parseOpts, gml.WithDialect(d))
	}
	if opts.SRS != "" {
		parseOpts = append(parseOpts, gml.WithDefaultSRS(opts.SRS))
	}
	return gml.Parse(doc.Root(), parseOpts...)
}

func encode(g geom.T, opts *Options) ([]byte, error) {
	if opts.To == "geojson" {
		flag := gml.GeoJSONFlagZero
		if opts.CRS {
			flag |= gml.GeoJSONFlagCRS
		}
		out, err := gml.AsGeoJSON(g, opts.Digits, flag)
		if err != nil {
			return nil, err
		}
		if opts.Pretty {
			var buf bytes.Buffer
			if err := json.Indent(&buf, out, "", "  "); err != nil {
				return nil, err
			}
			out = buf.Bytes()
		}
		return append(out, '\n'), nil
	}

	encodeOpts := []gml.EncodeOption{gml.WithID(opts.ID)}
	if opts.SRSName != "" {
		encodeOpts = append(encodeOpts, gml.WithSRSName(opts.SRSName))
	}
	el, err := gml.Encode(g, dialectNames[opts.To], encodeOpts...)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.SetRoot(el)
	if opts.Pretty {
		doc.Indent(2)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return []byte(s), nil
}

func geomTypeName(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "Point"
	case *geom.LineString:
		return "LineString"
	case *geom.Polygon:
		return "Polygon"
	case *geom.MultiPoint:
		return "MultiPoint"
	case *geom.MultiLineString:
		return "MultiLineString"
	case *geom.MultiPolygon:
		return "MultiPolygon"
	case *geom.GeometryCollection:
		return "GeometryCollection"
	default:
		return "unknown"
	}
}
