package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"BosonNLP/internal/app"
	"BosonNLP/internal/config"
	"BosonNLP/internal/logging"
)

// optionalFloat distinguishes an unset flag from an explicit zero.
type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) String() string {
	if f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'g', -1, 64)
}

func (f *optionalFloat) Set(raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	f.value = &v
	return nil
}

func parseOptions(args []string) (app.Options, error) {
	fs := flag.NewFlagSet("bosonnlp", flag.ContinueOnError)

	var opts app.Options
	var alpha, beta optionalFloat
	fs.StringVar(&opts.Analyzer, "analyzer", "cluster", "analyzer to run (cluster, comments, sentiment, classify, tag, ner, depparser, keywords, suggest, time, summary)")
	fs.StringVar(&opts.Input, "input", "-", "line-per-document input file, - for stdin")
	fs.StringVar(&opts.HTML, "html", "", "HTML file or http(s) URL to extract documents from")
	fs.StringVar(&opts.Selector, "selector", "p", "CSS selector of document elements in -html")
	fs.StringVar(&opts.TaskID, "task-id", "", "remote task id for cluster and comments (generated when empty)")
	fs.Var(&alpha, "alpha", "alpha parameter of cluster and comments analysis")
	fs.Var(&beta, "beta", "beta parameter of cluster and comments analysis")
	fs.DurationVar(&opts.Timeout, "timeout", 0, "task timeout; 0 uses the configured default, negative waits forever")
	fs.StringVar(&opts.Title, "title", "", "title passed to the summary analyzer")
	fs.BoolVar(&opts.Store, "store", false, "persist groups to Postgres (DATABASE_DSN)")

	if err := fs.Parse(args); err != nil {
		return app.Options{}, err
	}
	if fs.NArg() > 0 {
		return app.Options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	opts.Alpha = alpha.value
	opts.Beta = beta.value
	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error("application init failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx, os.Stdout); err != nil {
		logger.Error("application stopped", "error", err)
		application.Close()
		os.Exit(1)
	}
}
