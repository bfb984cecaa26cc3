package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"BosonNLP/internal/analysis"
	"BosonNLP/internal/domain"
	"BosonNLP/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ContentSource
	Registry   *analysis.Registry
	Repository ports.GroupRepository
	Logger     *slog.Logger
}

// Pipeline loads documents, runs one analyzer over them and stores the groups.
type Pipeline struct {
	source     ports.ContentSource
	registry   *analysis.Registry
	repository ports.GroupRepository
	logger     *slog.Logger
}

// Request selects the analyzer and its task parameters.
type Request struct {
	Analyzer string
	TaskID   string
	Alpha    *float64
	Beta     *float64
	Timeout  time.Duration
	Title    string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		source:     deps.Source,
		registry:   deps.Registry,
		repository: deps.Repository,
		logger:     logger,
	}
}

// Run executes one analysis pass.
func (p *Pipeline) Run(ctx context.Context, req Request) (domain.Outcome, error) {
	if p.source == nil {
		return domain.Outcome{}, errors.New("content source is not configured")
	}
	if p.registry == nil {
		return domain.Outcome{}, errors.New("analyzer registry is not configured")
	}

	analyzer, err := p.registry.Resolve(req.Analyzer)
	if err != nil {
		return domain.Outcome{}, err
	}

	docs, err := p.source.Load(ctx)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("load contents: %w", err)
	}
	p.logger.Debug("contents loaded", "analyzer", req.Analyzer, "documents", len(docs))

	outcome, err := analyzer.Analyze(ctx, analysis.Request{
		Documents: docs,
		TaskID:    req.TaskID,
		Alpha:     req.Alpha,
		Beta:      req.Beta,
		Timeout:   req.Timeout,
		Title:     req.Title,
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	p.logger.Info("analysis finished", "analyzer", outcome.Analyzer, "task_id", outcome.TaskID, "groups", len(outcome.Groups))

	if p.repository != nil && len(outcome.Groups) > 0 {
		if err := p.repository.SaveGroups(ctx, outcome); err != nil {
			return domain.Outcome{}, fmt.Errorf("persist groups: %w", err)
		}
		p.logger.Debug("groups persisted", "task_id", outcome.TaskID, "count", len(outcome.Groups))
	}

	return outcome, nil
}
