package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"BosonNLP/internal/domain"
	"BosonNLP/internal/ports"
	"BosonNLP/pkg/bosonnlp"
)

// batchSize is the most texts a single-call endpoint accepts.
const batchSize = 100

// DocumentResult pairs a document id with the service output for it.
type DocumentResult[T any] struct {
	ID     string `json:"id"`
	Result T      `json:"result"`
}

type analyzerFunc struct {
	name string
	run  func(ctx context.Context, req Request) (domain.Outcome, error)
}

func (a analyzerFunc) Name() string {
	return a.name
}

func (a analyzerFunc) Analyze(ctx context.Context, req Request) (domain.Outcome, error) {
	outcome, err := a.run(ctx, req)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%s: %w", a.name, err)
	}
	outcome.Analyzer = a.name
	return outcome, nil
}

// RegisterDefaults registers one analyzer per BosonNLP operation.
func RegisterDefaults(reg *Registry, svc ports.NLPService) {
	reg.Register(analyzerFunc{name: "cluster", run: func(ctx context.Context, req Request) (domain.Outcome, error) {
		taskID := taskIDFor(req)
		groups, err := svc.Cluster(ctx, pairsOf(req.Documents), runOptions(req, taskID))
		if err != nil {
			return domain.Outcome{}, err
		}
		out := domain.Outcome{TaskID: taskID, Payload: groups}
		for _, g := range groups {
			members := make([]string, len(g.List))
			for i, id := range g.List {
				members[i] = id.String()
			}
			out.Groups = append(out.Groups, domain.Group{ID: g.ID.String(), Num: g.Num, Members: members})
		}
		return out, nil
	}})

	reg.Register(analyzerFunc{name: "comments", run: func(ctx context.Context, req Request) (domain.Outcome, error) {
		taskID := taskIDFor(req)
		groups, err := svc.Comments(ctx, pairsOf(req.Documents), runOptions(req, taskID))
		if err != nil {
			return domain.Outcome{}, err
		}
		out := domain.Outcome{TaskID: taskID, Payload: groups}
		for _, g := range groups {
			members := make([]string, len(g.List))
			for i, snippet := range g.List {
				members[i] = snippet.ID.String()
			}
			out.Groups = append(out.Groups, domain.Group{ID: g.ID.String(), Num: g.Num, Opinion: g.Opinion, Members: members})
		}
		return out, nil
	}})

	reg.Register(batched("sentiment", func(ctx context.Context, texts []string) ([]bosonnlp.SentimentScore, error) {
		return svc.Sentiment(ctx, texts, "")
	}))
	reg.Register(batched("classify", svc.Classify))
	reg.Register(batched("depparser", svc.DepParser))
	reg.Register(batched("tag", func(ctx context.Context, texts []string) ([]bosonnlp.Tagged, error) {
		return svc.Tag(ctx, texts, bosonnlp.DefaultTagOptions())
	}))
	reg.Register(batched("ner", func(ctx context.Context, texts []string) ([]bosonnlp.NERResult, error) {
		return svc.NER(ctx, texts, bosonnlp.NEROptions{})
	}))

	reg.Register(perDocument("keywords", func(ctx context.Context, text string) ([]bosonnlp.ScoredWord, error) {
		return svc.ExtractKeywords(ctx, text, bosonnlp.KeywordOptions{})
	}))
	reg.Register(perDocument("suggest", func(ctx context.Context, word string) ([]bosonnlp.ScoredWord, error) {
		return svc.Suggest(ctx, strings.TrimSpace(word), 0)
	}))
	reg.Register(perDocument("time", func(ctx context.Context, pattern string) (bosonnlp.TimeResult, error) {
		return svc.ConvertTime(ctx, pattern, time.Time{})
	}))

	reg.Register(analyzerFunc{name: "summary", run: func(ctx context.Context, req Request) (domain.Outcome, error) {
		texts := textsOf(req.Documents)
		summary, err := svc.Summary(ctx, req.Title, strings.Join(texts, "\n"), bosonnlp.SummaryOptions{})
		if err != nil {
			return domain.Outcome{}, err
		}
		return domain.Outcome{Payload: summary}, nil
	}})
}

// batched calls fn with at most batchSize texts at a time and zips the
// results back to document ids.
func batched[T any](name string, fn func(ctx context.Context, texts []string) ([]T, error)) Analyzer {
	return analyzerFunc{name: name, run: func(ctx context.Context, req Request) (domain.Outcome, error) {
		texts := textsOf(req.Documents)
		results := make([]DocumentResult[T], 0, len(texts))
		for start := 0; start < len(texts); start += batchSize {
			end := min(start+batchSize, len(texts))
			batch, err := fn(ctx, texts[start:end])
			if err != nil {
				return domain.Outcome{}, fmt.Errorf("documents %d-%d: %w", start, end, err)
			}
			if len(batch) != end-start {
				return domain.Outcome{}, fmt.Errorf("documents %d-%d: got %d results", start, end, len(batch))
			}
			for i, item := range batch {
				results = append(results, DocumentResult[T]{ID: req.Documents[start+i].ID, Result: item})
			}
		}
		return domain.Outcome{Payload: results}, nil
	}}
}

func perDocument[T any](name string, fn func(ctx context.Context, text string) (T, error)) Analyzer {
	return analyzerFunc{name: name, run: func(ctx context.Context, req Request) (domain.Outcome, error) {
		results := make([]DocumentResult[T], 0, len(req.Documents))
		for _, doc := range req.Documents {
			item, err := fn(ctx, doc.Text)
			if err != nil {
				return domain.Outcome{}, fmt.Errorf("document %s: %w", doc.ID, err)
			}
			results = append(results, DocumentResult[T]{ID: doc.ID, Result: item})
		}
		return domain.Outcome{Payload: results}, nil
	}}
}

func taskIDFor(req Request) string {
	if req.TaskID != "" {
		return req.TaskID
	}
	return uuid.NewString()
}

func runOptions(req Request, taskID string) bosonnlp.RunOptions {
	return bosonnlp.RunOptions{TaskID: taskID, Alpha: req.Alpha, Beta: req.Beta, Timeout: req.Timeout}
}

func pairsOf(docs []domain.Document) bosonnlp.Contents {
	pairs := make([]bosonnlp.Pair, len(docs))
	for i, doc := range docs {
		pairs[i] = bosonnlp.Pair{ID: bosonnlp.StringID(doc.ID), Text: doc.Text}
	}
	return bosonnlp.Pairs(pairs...)
}

func textsOf(docs []domain.Document) []string {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	return texts
}
