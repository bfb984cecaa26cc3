package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BosonNLP/internal/analysis"
	"BosonNLP/internal/domain"
)

type staticSource struct {
	docs []domain.Document
	err  error
}

func (s staticSource) Load(context.Context) ([]domain.Document, error) {
	return s.docs, s.err
}

type fakeAnalyzer struct {
	got     analysis.Request
	outcome domain.Outcome
	err     error
}

func (f *fakeAnalyzer) Name() string { return "cluster" }

func (f *fakeAnalyzer) Analyze(_ context.Context, req analysis.Request) (domain.Outcome, error) {
	f.got = req
	return f.outcome, f.err
}

type memoryRepository struct {
	saved []domain.Outcome
	err   error
}

func (m *memoryRepository) SaveGroups(_ context.Context, outcome domain.Outcome) error {
	m.saved = append(m.saved, outcome)
	return m.err
}

func newPipeline(src staticSource, analyzer *fakeAnalyzer, repo *memoryRepository) *Pipeline {
	reg := analysis.NewRegistry()
	reg.Register(analyzer)
	deps := PipelineDeps{Source: src, Registry: reg}
	if repo != nil {
		deps.Repository = repo
	}
	return NewPipeline(deps)
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	docs := []domain.Document{{ID: "1", Text: "今天天气好"}, {ID: "2", Text: "今天天气好"}}
	groups := []domain.Group{{ID: "0", Num: 2, Members: []string{"1", "2"}}}
	analyzer := &fakeAnalyzer{outcome: domain.Outcome{Analyzer: "cluster", TaskID: "t1", Groups: groups}}
	repo := &memoryRepository{}

	alpha := 0.8
	outcome, err := newPipeline(staticSource{docs: docs}, analyzer, repo).Run(context.Background(), Request{
		Analyzer: "cluster",
		TaskID:   "t1",
		Alpha:    &alpha,
	})
	require.NoError(t, err)

	assert.Equal(t, "t1", outcome.TaskID)
	assert.Equal(t, docs, analyzer.got.Documents)
	assert.Equal(t, "t1", analyzer.got.TaskID)
	assert.Equal(t, &alpha, analyzer.got.Alpha)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, groups, repo.saved[0].Groups)
}

func TestPipelineSkipsPersistenceWithoutGroups(t *testing.T) {
	t.Parallel()

	repo := &memoryRepository{}
	analyzer := &fakeAnalyzer{outcome: domain.Outcome{Analyzer: "cluster", Payload: []int{}}}

	_, err := newPipeline(staticSource{}, analyzer, repo).Run(context.Background(), Request{Analyzer: "cluster"})
	require.NoError(t, err)
	assert.Empty(t, repo.saved)
}

func TestPipelineErrors(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("disk on fire")
	analyzeErr := errors.New("task failed")
	saveErr := errors.New("connection refused")

	tests := []struct {
		name     string
		source   staticSource
		analyzer *fakeAnalyzer
		repo     *memoryRepository
		request  string
		wantErr  error
		wantMsg  string
	}{
		{
			name:     "unknown analyzer",
			analyzer: &fakeAnalyzer{},
			request:  "translate",
			wantMsg:  "analyzer translate is not registered",
		},
		{
			name:     "load failure",
			source:   staticSource{err: loadErr},
			analyzer: &fakeAnalyzer{},
			request:  "cluster",
			wantErr:  loadErr,
			wantMsg:  "load contents: disk on fire",
		},
		{
			name:     "analyze failure",
			analyzer: &fakeAnalyzer{err: analyzeErr},
			request:  "cluster",
			wantErr:  analyzeErr,
		},
		{
			name:     "persist failure",
			analyzer: &fakeAnalyzer{outcome: domain.Outcome{Groups: []domain.Group{{ID: "0"}}}},
			repo:     &memoryRepository{err: saveErr},
			request:  "cluster",
			wantErr:  saveErr,
			wantMsg:  "persist groups: connection refused",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newPipeline(tc.source, tc.analyzer, tc.repo).Run(context.Background(), Request{Analyzer: tc.request})
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.wantMsg != "" {
				assert.EqualError(t, err, tc.wantMsg)
			}
		})
	}
}

func TestPipelineNotConfigured(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(PipelineDeps{}).Run(context.Background(), Request{Analyzer: "cluster"})
	assert.EqualError(t, err, "content source is not configured")
}
