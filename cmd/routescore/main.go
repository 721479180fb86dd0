package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/routescore-backend-go/internal/analysis"
	"github.com/jengzang/routescore-backend-go/internal/difficulty"
	"github.com/jengzang/routescore-backend-go/internal/logger"
	"github.com/jengzang/routescore-backend-go/internal/models"
	"github.com/jengzang/routescore-backend-go/internal/parser"
	"github.com/jengzang/routescore-backend-go/internal/tuning"
)

// result is one output line
type result struct {
	File       string               `json:"file"`
	Metrics    *models.RouteMetrics `json:"metrics,omitempty"`
	Difficulty float64              `json:"difficulty"`
	Error      string               `json:"error,omitempty"`
}

type options struct {
	preset    string
	noSmooth  bool
	workers   int
	timeout   time.Duration
	logLevel  string
	format    string
	profile   bool
	files     []string
	tuning    tuning.Params
	extractor *analysis.Engine
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("routescore", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.preset, "preset", "", "Tuning preset file (YAML, TOML or JSON); reference values when empty")
	fs.BoolVar(&opts.noSmooth, "no-smoothing", false, "Disable elevation smoothing")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "Files scored in parallel")
	fs.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Time budget per file")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.format, "format", "", "Force the file format (gpx, tcx, fit) instead of using the extension")
	fs.BoolVar(&opts.profile, "profile", false, "Keep the elevation profile (track_points) in the output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "routescore - score the difficulty of GPX, TCX and FIT routes\n\n")
		fmt.Fprintf(stderr, "usage: routescore [options] file...\n\n")
		fmt.Fprintf(stderr, "examples:\n")
		fmt.Fprintf(stderr, "  routescore ride.gpx\n")
		fmt.Fprintf(stderr, "  routescore -preset gravel.yaml -workers 4 rides/*.tcx\n\n")
		fmt.Fprintf(stderr, "options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}
	opts.files = fs.Args()
	if len(opts.files) == 0 || opts.workers < 1 || opts.timeout <= 0 {
		fs.Usage()
		return 2
	}

	log, err := logger.New(opts.logLevel, "stderr")
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	opts.tuning, err = tuning.LoadFileOrDefault(opts.preset)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading preset: %v\n", err)
		return 1
	}
	opts.extractor = analysis.NewEngine(log)

	results := scoreAll(ctx, opts, log)

	enc := json.NewEncoder(stdout)
	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return 1
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}

// scoreAll scores every file with at most opts.workers in flight; results keep input order
func scoreAll(ctx context.Context, opts options, log *zap.Logger) []result {
	results := make([]result, len(opts.files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers)

	for i, file := range opts.files {
		i, file := i, file
		g.Go(func() error {
			results[i] = scoreFile(ctx, opts, file)
			if results[i].Error != "" {
				log.Warn("route not scored", zap.String("file", file), zap.String("error", results[i].Error))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func scoreFile(ctx context.Context, opts options, file string) result {
	res := result{File: file}

	format := parser.ParseFormat(opts.format)
	if opts.format == "" {
		var ok bool
		if format, ok = parser.FormatFromFilename(file); !ok {
			res.Error = fmt.Sprintf("unsupported file type %q", format)
			return res
		}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	type outcome struct {
		metrics *models.RouteMetrics
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		extractOpts := analysis.Options{ApplySmoothing: !opts.noSmooth, Params: opts.tuning}
		m, err := opts.extractor.ExtractFile(file, format, extractOpts)
		done <- outcome{m, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			res.Error = fmt.Sprintf("timed out after %s", opts.timeout)
		} else {
			res.Error = ctx.Err().Error()
		}
		return res
	}

	if out.err != nil {
		res.Error = out.err.Error()
		return res
	}

	res.Metrics = out.metrics
	if !opts.profile {
		res.Metrics.TrackPoints = nil
	}
	if !out.metrics.HasMetrics() {
		res.Error = "could not extract metrics from this file: " + out.metrics.RouteName
		return res
	}
	res.Difficulty = difficulty.Compute(out.metrics, opts.tuning.Difficulty)
	return res
}
