package ports

import (
	"context"
	"time"

	"BosonNLP/internal/domain"
	"BosonNLP/pkg/bosonnlp"
)

// ContentSource loads the documents to analyze.
type ContentSource interface {
	Load(ctx context.Context) ([]domain.Document, error)
}

// GroupRepository persists grouped results of clustering and opinion tasks.
type GroupRepository interface {
	SaveGroups(ctx context.Context, outcome domain.Outcome) error
}

// NLPService is the subset of the BosonNLP client the analyzers rely on.
type NLPService interface {
	Cluster(ctx context.Context, contents bosonnlp.Contents, opts bosonnlp.RunOptions) ([]bosonnlp.ClusterGroup, error)
	Comments(ctx context.Context, contents bosonnlp.Contents, opts bosonnlp.RunOptions) ([]bosonnlp.OpinionGroup, error)
	Sentiment(ctx context.Context, contents []string, model string) ([]bosonnlp.SentimentScore, error)
	Classify(ctx context.Context, contents []string) ([]int, error)
	Tag(ctx context.Context, contents []string, opts bosonnlp.TagOptions) ([]bosonnlp.Tagged, error)
	NER(ctx context.Context, contents []string, opts bosonnlp.NEROptions) ([]bosonnlp.NERResult, error)
	DepParser(ctx context.Context, contents []string) ([]bosonnlp.DepTree, error)
	ExtractKeywords(ctx context.Context, text string, opts bosonnlp.KeywordOptions) ([]bosonnlp.ScoredWord, error)
	Suggest(ctx context.Context, word string, topK int) ([]bosonnlp.ScoredWord, error)
	Summary(ctx context.Context, title, content string, opts bosonnlp.SummaryOptions) (string, error)
	ConvertTime(ctx context.Context, pattern string, basetime time.Time) (bosonnlp.TimeResult, error)
}
