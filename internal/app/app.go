package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"BosonNLP/internal/analysis"
	"BosonNLP/internal/config"
	"BosonNLP/internal/infrastructure/nlp"
	"BosonNLP/internal/infrastructure/source"
	"BosonNLP/internal/infrastructure/storage"
	"BosonNLP/internal/logging"
	"BosonNLP/internal/ports"
	"BosonNLP/internal/usecase"
)

// Options are the command-line choices for a single run.
type Options struct {
	Analyzer string
	// Input is a line file; "-" or empty reads stdin. Ignored when HTML is set.
	Input    string
	HTML     string
	Selector string
	TaskID   string
	Alpha    *float64
	Beta     *float64
	Timeout  time.Duration
	Title    string
	Store    bool
}

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	opts     Options
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
	logger   *slog.Logger
}

// New builds a runnable application instance. A database connection is
// opened only when storing is requested and a DSN is configured.
func New(ctx context.Context, cfg config.Config, opts Options, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.API.Token == "" {
		baseLogger.Warn("BosonNLP API token is empty; requests will be rejected")
	}

	client := nlp.NewClient(cfg.API, baseLogger.With("component", "bosonnlp"))

	registry := analysis.NewRegistry()
	analysis.RegisterDefaults(registry, client)

	application := &Application{opts: opts, cfg: cfg, logger: baseLogger}

	var repository ports.GroupRepository
	if opts.Store {
		if cfg.Database.DSN == "" {
			return nil, errors.New("storing results requires a database dsn")
		}
		db, err := storage.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		application.db = db
		repository = repo
	}

	application.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:     newSource(opts),
		Registry:   registry,
		Repository: repository,
		Logger:     baseLogger.With("component", "pipeline"),
	})
	return application, nil
}

func newSource(opts Options) ports.ContentSource {
	if opts.HTML != "" {
		return source.NewHTMLSource(opts.HTML, opts.Selector, nil)
	}
	if opts.Input == "" {
		return source.NewLineFile("-")
	}
	return source.NewLineFile(opts.Input)
}

// Run executes the pipeline once and writes the payload as JSON to out.
func (a *Application) Run(ctx context.Context, out io.Writer) error {
	req := usecase.Request{
		Analyzer: a.opts.Analyzer,
		TaskID:   a.opts.TaskID,
		Alpha:    a.opts.Alpha,
		Beta:     a.opts.Beta,
		Timeout:  a.opts.Timeout,
		Title:    a.opts.Title,
	}
	if req.Alpha == nil {
		req.Alpha = a.cfg.Task.Alpha
	}
	if req.Beta == nil {
		req.Beta = a.cfg.Task.Beta
	}
	if req.Timeout == 0 {
		req.Timeout = a.cfg.Task.Timeout
	}

	outcome, err := a.pipeline.Run(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome.Payload); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// Close releases the database connection, if any.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
