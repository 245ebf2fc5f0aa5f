package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/woozymasta/gpxnear/internal/config"
	"github.com/woozymasta/gpxnear/internal/geo"
	"github.com/woozymasta/gpxnear/internal/logger"
	"github.com/woozymasta/gpxnear/internal/processor"
	"github.com/woozymasta/gpxnear/internal/report"
	"github.com/woozymasta/gpxnear/internal/scan"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Latitude        string   `long:"latitude"   env:"GPXNEAR_LATITUDE"   description:"Reference latitude, decimal degrees or degrees-minutes like 'N 48° 7.038'"`
	Longitude       string   `long:"longitude"  env:"GPXNEAR_LONGITUDE"  description:"Reference longitude, decimal degrees or degrees-minutes like 'E 11° 34.563'"`
	Coordinate      string   `short:"c" long:"coordinate" env:"GPXNEAR_COORDINATE" description:"Combined 'latitude, longitude' reference pair"`
	Distance        *float64 `short:"d" long:"distance"   env:"GPXNEAR_DISTANCE"   description:"Distance threshold in meters"`
	Workers         int      `short:"j" long:"workers"    env:"GPXNEAR_WORKERS"    description:"Parallel workers (0 = all CPUs)"`
	ConfigFile      string   `short:"C" long:"config"     env:"GPXNEAR_CONFIG"     description:"Path to YAML configuration file"`
	Format          string   `short:"f" long:"format"     env:"GPXNEAR_FORMAT"     description:"Report format: text, json or geojson"`
	Extension       string   `long:"extension"  env:"GPXNEAR_EXTENSION"  description:"Track file extension to scan for (default .gpx)"`
	LegacyLonCosine bool     `long:"legacy-lon-cosine" description:"Evaluate projection scale factors at the reference longitude as older builds did"`
	NoProgress      bool     `long:"no-progress" env:"GPXNEAR_NO_PROGRESS" description:"Disable the progress bar"`

	Args struct {
		Path string `positional-arg-name:"PATH" description:"Directory or single track file (default .)"`
	} `positional-args:"yes"`
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

	cfg := config.Default()
	if opts.ConfigFile != "" {
		loaded, err := config.Load(opts.ConfigFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
		cfg = loaded
	}

	applyFlags(cfg, &opts)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid run parameters")
	}

	ref := geo.Coordinate{Lat: *cfg.Latitude, Lon: *cfg.Longitude}

	root := opts.Args.Path
	if root == "" {
		root = "."
	}

	files, err := scan.Files(root, cfg.Extension)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to scan for track files")
	}

	if cfg.Format == "text" {
		fmt.Println(ref)
		fmt.Println(geo.FormatDMS(ref))
		fmt.Printf("Found %d %s file(s).\nSearching...\n",
			len(files), strings.TrimPrefix(cfg.Extension, "."))
	} else {
		log.Info().
			Stringer("reference", ref).
			Int("files", len(files)).
			Msg("Starting search")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	popts := processor.Options{
		Reference:       ref,
		DistanceMeters:  *cfg.DistanceMeters,
		Workers:         cfg.Workers,
		LegacyLonCosine: cfg.LegacyLonCosine,
	}

	if !opts.NoProgress && len(files) > 0 {
		bar := progressbar.Default(int64(len(files)), "Analyzing")
		popts.Progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}

	rep, runErr := processor.Run(ctx, files, popts)
	if runErr != nil {
		log.Warn().Err(runErr).Msg("Analysis interrupted, reporting partial results")
	}

	if err := writeReport(os.Stdout, rep, cfg.Format, ref); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
}

// applyFlags lets command line values override the configuration file.
// The reference may arrive as a combined pair or as separate angles.
func applyFlags(cfg *config.Config, opts *Options) {
	if opts.Coordinate != "" && (opts.Latitude != "" || opts.Longitude != "") {
		log.Fatal().Msg("--coordinate conflicts with --latitude/--longitude")
	}

	switch {
	case opts.Coordinate != "":
		ref, err := geo.ParsePair(opts.Coordinate)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --coordinate value")
		}
		cfg.Latitude, cfg.Longitude = &ref.Lat, &ref.Lon

	case opts.Latitude != "" || opts.Longitude != "":
		if opts.Latitude == "" || opts.Longitude == "" {
			log.Fatal().Msg("--latitude and --longitude must be given together")
		}

		lat, err := geo.ParseAngle(opts.Latitude)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --latitude value")
		}
		lon, err := geo.ParseAngle(opts.Longitude)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --longitude value")
		}
		cfg.Latitude, cfg.Longitude = &lat, &lon
	}

	if opts.Distance != nil {
		cfg.DistanceMeters = opts.Distance
	}
	if opts.Workers > 0 {
		cfg.Workers = opts.Workers
	}
	if opts.Format != "" {
		cfg.Format = opts.Format
	}
	if opts.Extension != "" {
		cfg.Extension = opts.Extension
	}
	if opts.LegacyLonCosine {
		cfg.LegacyLonCosine = true
	}
}

func writeReport(w io.Writer, rep report.Report, format string, ref geo.Coordinate) error {
	switch format {
	case "json":
		return report.WriteJSON(w, rep)
	case "geojson":
		return report.WriteGeoJSON(w, rep, ref)
	default:
		return report.WriteText(w, rep)
	}
}
