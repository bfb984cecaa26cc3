package analysis

import (
	"context"
	"fmt"
	"sort"
	"time"

	"BosonNLP/internal/domain"
)

// Request carries all parameters required to run one analysis.
type Request struct {
	Documents []domain.Document
	// TaskID names the remote task of grouping analyzers; generated when empty.
	TaskID  string
	Alpha   *float64
	Beta    *float64
	Timeout time.Duration
	// Title is used by the summary analyzer.
	Title string
}

// Analyzer runs one BosonNLP operation over a batch of documents.
type Analyzer interface {
	Name() string
	Analyze(ctx context.Context, req Request) (domain.Outcome, error)
}

// Registry keeps a mapping from analyzer names to their implementations.
type Registry struct {
	analyzers map[string]Analyzer
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{analyzers: map[string]Analyzer{}}
}

// Register adds or replaces an analyzer.
func (r *Registry) Register(analyzer Analyzer) {
	if r.analyzers == nil {
		r.analyzers = map[string]Analyzer{}
	}
	r.analyzers[analyzer.Name()] = analyzer
}

// Resolve returns an analyzer by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Analyzer, error) {
	if analyzer, ok := r.analyzers[name]; ok {
		return analyzer, nil
	}
	return nil, fmt.Errorf("analyzer %s is not registered", name)
}

// Names lists registered analyzers in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.analyzers))
	for name := range r.analyzers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
