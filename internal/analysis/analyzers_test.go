package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BosonNLP/internal/domain"
	"BosonNLP/internal/ports"
	"BosonNLP/pkg/bosonnlp"
)

type stubService struct {
	clusterRecords []bosonnlp.Record
	clusterOpts    bosonnlp.RunOptions
	clusterErr     error
	batches        [][]string
	summaryContent string
	summaryTitle   string
}

var _ ports.NLPService = (*stubService)(nil)

func (s *stubService) Cluster(_ context.Context, contents bosonnlp.Contents, opts bosonnlp.RunOptions) ([]bosonnlp.ClusterGroup, error) {
	s.clusterRecords = bosonnlp.Normalize(contents)
	s.clusterOpts = opts
	if s.clusterErr != nil {
		return nil, s.clusterErr
	}
	return []bosonnlp.ClusterGroup{{
		ID:   bosonnlp.IntID(0),
		List: []bosonnlp.ID{bosonnlp.StringID("1"), bosonnlp.StringID("2")},
		Num:  2,
	}}, nil
}

func (s *stubService) Comments(context.Context, bosonnlp.Contents, bosonnlp.RunOptions) ([]bosonnlp.OpinionGroup, error) {
	return []bosonnlp.OpinionGroup{{
		ID: bosonnlp.IntID(0),
		List: []bosonnlp.Snippet{
			{Text: "点点楼头", ID: bosonnlp.StringID("4")},
			{Text: "点点楼头", ID: bosonnlp.StringID("11")},
		},
		Num:     2,
		Opinion: "点点楼头",
	}}, nil
}

func (s *stubService) Sentiment(_ context.Context, contents []string, _ string) ([]bosonnlp.SentimentScore, error) {
	s.batches = append(s.batches, contents)
	out := make([]bosonnlp.SentimentScore, len(contents))
	for i := range out {
		out[i] = bosonnlp.SentimentScore{Positive: 0.9, Negative: 0.1}
	}
	return out, nil
}

func (s *stubService) Classify(_ context.Context, contents []string) ([]int, error) {
	return []int{1}, nil
}

func (s *stubService) Tag(context.Context, []string, bosonnlp.TagOptions) ([]bosonnlp.Tagged, error) {
	return nil, nil
}

func (s *stubService) NER(context.Context, []string, bosonnlp.NEROptions) ([]bosonnlp.NERResult, error) {
	return nil, nil
}

func (s *stubService) DepParser(context.Context, []string) ([]bosonnlp.DepTree, error) {
	return nil, nil
}

func (s *stubService) ExtractKeywords(_ context.Context, text string, _ bosonnlp.KeywordOptions) ([]bosonnlp.ScoredWord, error) {
	if text == "boom" {
		return nil, errors.New("keywords failed")
	}
	return []bosonnlp.ScoredWord{{Score: 1, Word: text}}, nil
}

func (s *stubService) Suggest(context.Context, string, int) ([]bosonnlp.ScoredWord, error) {
	return nil, nil
}

func (s *stubService) Summary(_ context.Context, title, content string, _ bosonnlp.SummaryOptions) (string, error) {
	s.summaryTitle, s.summaryContent = title, content
	return "short", nil
}

func (s *stubService) ConvertTime(context.Context, string, time.Time) (bosonnlp.TimeResult, error) {
	return bosonnlp.TimeResult{Type: "timestamp"}, nil
}

func docs(texts ...string) []domain.Document {
	out := make([]domain.Document, len(texts))
	for i, text := range texts {
		out[i] = domain.Document{ID: fmt.Sprint(i + 1), Text: text}
	}
	return out
}

func newRegistry(svc ports.NLPService) *Registry {
	reg := NewRegistry()
	RegisterDefaults(reg, svc)
	return reg
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := newRegistry(&stubService{})

	assert.Equal(t, []string{
		"classify", "cluster", "comments", "depparser", "keywords", "ner",
		"sentiment", "suggest", "summary", "tag", "time",
	}, reg.Names())

	_, err := reg.Resolve("translate")
	assert.EqualError(t, err, "analyzer translate is not registered")
}

func TestClusterAnalyzer(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	analyzer, err := newRegistry(svc).Resolve("cluster")
	require.NoError(t, err)

	alpha := 0.7
	outcome, err := analyzer.Analyze(context.Background(), Request{
		Documents: docs("今天天气好", "今天天气好"),
		Alpha:     &alpha,
		Timeout:   time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, "cluster", outcome.Analyzer)
	assert.NotEmpty(t, outcome.TaskID)
	assert.Equal(t, outcome.TaskID, svc.clusterOpts.TaskID)
	assert.Equal(t, &alpha, svc.clusterOpts.Alpha)
	assert.Equal(t, time.Minute, svc.clusterOpts.Timeout)
	assert.Equal(t, []bosonnlp.Record{
		{ID: bosonnlp.StringID("1"), Text: "今天天气好"},
		{ID: bosonnlp.StringID("2"), Text: "今天天气好"},
	}, svc.clusterRecords)
	assert.Equal(t, []domain.Group{{ID: "0", Num: 2, Members: []string{"1", "2"}}}, outcome.Groups)
}

func TestClusterAnalyzerError(t *testing.T) {
	t.Parallel()

	svc := &stubService{clusterErr: bosonnlp.ErrTimeout}
	analyzer, err := newRegistry(svc).Resolve("cluster")
	require.NoError(t, err)

	_, err = analyzer.Analyze(context.Background(), Request{Documents: docs("a"), TaskID: "fixed"})
	assert.ErrorIs(t, err, bosonnlp.ErrTimeout)
	assert.Equal(t, "fixed", svc.clusterOpts.TaskID)
}

func TestCommentsAnalyzer(t *testing.T) {
	t.Parallel()

	analyzer, err := newRegistry(&stubService{}).Resolve("comments")
	require.NoError(t, err)

	outcome, err := analyzer.Analyze(context.Background(), Request{Documents: docs("点点楼头细雨")})
	require.NoError(t, err)
	assert.Equal(t, []domain.Group{{ID: "0", Num: 2, Opinion: "点点楼头", Members: []string{"4", "11"}}}, outcome.Groups)
}

func TestBatchedAnalyzer(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	analyzer, err := newRegistry(svc).Resolve("sentiment")
	require.NoError(t, err)

	texts := make([]string, 250)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}
	outcome, err := analyzer.Analyze(context.Background(), Request{Documents: docs(texts...)})
	require.NoError(t, err)

	require.Len(t, svc.batches, 3)
	assert.Len(t, svc.batches[0], 100)
	assert.Len(t, svc.batches[2], 50)

	results, ok := outcome.Payload.([]DocumentResult[bosonnlp.SentimentScore])
	require.True(t, ok)
	require.Len(t, results, 250)
	assert.Equal(t, "250", results[249].ID)
	assert.Empty(t, outcome.Groups)
}

func TestBatchedAnalyzerResultMismatch(t *testing.T) {
	t.Parallel()

	analyzer, err := newRegistry(&stubService{}).Resolve("classify")
	require.NoError(t, err)

	_, err = analyzer.Analyze(context.Background(), Request{Documents: docs("a", "b")})
	assert.ErrorContains(t, err, "got 1 results")
}

func TestPerDocumentAnalyzer(t *testing.T) {
	t.Parallel()

	analyzer, err := newRegistry(&stubService{}).Resolve("keywords")
	require.NoError(t, err)

	outcome, err := analyzer.Analyze(context.Background(), Request{Documents: docs("病毒式", "蔓延")})
	require.NoError(t, err)
	results := outcome.Payload.([]DocumentResult[[]bosonnlp.ScoredWord])
	require.Len(t, results, 2)
	assert.Equal(t, "蔓延", results[1].Result[0].Word)

	_, err = analyzer.Analyze(context.Background(), Request{Documents: docs("ok", "boom")})
	assert.EqualError(t, err, "keywords: document 2: keywords failed")
}

func TestSummaryAnalyzer(t *testing.T) {
	t.Parallel()

	svc := &stubService{}
	analyzer, err := newRegistry(svc).Resolve("summary")
	require.NoError(t, err)

	outcome, err := analyzer.Analyze(context.Background(), Request{Documents: docs("第一段", "第二段"), Title: "标题"})
	require.NoError(t, err)
	assert.Equal(t, "short", outcome.Payload)
	assert.Equal(t, "标题", svc.summaryTitle)
	assert.Equal(t, "第一段\n第二段", svc.summaryContent)
}
