package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"h1bstats/internal/config"
	"h1bstats/internal/metrics"
	"h1bstats/internal/metrics/prompush"

	// register all archive backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "h1bstats/internal/storage/all"
)

// main is the entry point for the report binary. It loads the run config,
// optionally initializes a metrics backend, and executes the run.
func main() {
	var (
		cfgPath           string
		inputPath         string
		occupationsPath   string
		statesPath        string
		metricsBackendFlg string
		pushGatewayURLFlg string
		preview           bool
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "", "run config JSON path (optional; defaults apply without one)")
	flag.StringVar(&inputPath, "input", "input/h1b_input.csv", "input disclosure CSV path")
	flag.StringVar(&occupationsPath, "occupations", "output/top_10_occupations.txt", "occupations report output path")
	flag.StringVar(&statesPath, "states", "output/top_10_states.txt", "states report output path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend to use (e.g. pushgateway, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&preview, "preview", false, "render both reports as console tables after writing them")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	// A .env next to the binary supplies ARCHIVE_DSN / PUSHGATEWAY_URL in dev.
	// Its absence is the normal production case.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("dotenv: %v", err)
	}

	run := config.Default()
	if cfgPath != "" {
		var err error
		run, err = config.LoadFile(cfgPath)
		if err != nil {
			fatalf("load config: %v", err)
		}
	}
	if preview {
		run.Reports.Preview = true
	}

	// Validate run config.
	issues := config.ValidateRun(run)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	// Decide metrics backend: flag → env → default (disabled).
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		// Decide Pushgateway URL: flag → env → default.
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}

		b, err := prompush.NewBackend(run.Job, gwURL)
		if err != nil {
			log.Printf("metrics: failed to init prom push backend: %v; using nop", err)
		} else {
			log.Printf("metrics: url=%v, backend=%v, job=%v", gwURL, backendName, run.Job)
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					log.Printf("metrics: flush error: %v", err)
				}
			}()
		}

	case "", "none":
		// metrics disabled; nop backend remains
		if *verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
	}

	ctx := context.Background()
	start := time.Now()

	paths := outputPaths{
		Input:       inputPath,
		Occupations: occupationsPath,
		States:      statesPath,
	}

	if *verbose {
		log.Printf("run: job=%s input=%s occupations=%s states=%s archive=%s",
			run.Job, paths.Input, paths.Occupations, paths.States, run.Archive.Kind)
	}

	if err := runReports(ctx, run, paths); err != nil {
		log.Fatalf("%v", err)
	}

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
