package bosonnlp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SentimentScore holds the positive and negative probabilities of a text.
type SentimentScore struct {
	Positive float64
	Negative float64
}

func (s SentimentScore) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{s.Positive, s.Negative})
}

func (s *SentimentScore) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("sentiment score: %w", err)
	}
	s.Positive, s.Negative = pair[0], pair[1]
	return nil
}

// ScoredWord is a [score, word] pair returned by Suggest and ExtractKeywords.
type ScoredWord struct {
	Score float64
	Word  string
}

func (w ScoredWord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{w.Score, w.Word})
}

func (w *ScoredWord) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("scored word: want 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &w.Score); err != nil {
		return fmt.Errorf("scored word score: %w", err)
	}
	return json.Unmarshal(parts[1], &w.Word)
}

// Tagged is the word segmentation and part-of-speech result of one text.
type Tagged struct {
	Word []string `json:"word"`
	Tag  []string `json:"tag"`
}

// Entity marks words [Start, End) as an entity of Type.
type Entity struct {
	Start int
	End   int
	Type  string
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("entity: want 3 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.Start); err != nil {
		return fmt.Errorf("entity start: %w", err)
	}
	if err := json.Unmarshal(parts[1], &e.End); err != nil {
		return fmt.Errorf("entity end: %w", err)
	}
	return json.Unmarshal(parts[2], &e.Type)
}

// NERResult is the named-entity recognition result of one text.
type NERResult struct {
	Word   []string `json:"word"`
	Tag    []string `json:"tag"`
	Entity []Entity `json:"entity"`
}

// DepTree is the dependency parse of one text. Head[i] is the index of the
// head word of word i, or -1 for the root.
type DepTree struct {
	Word []string `json:"word"`
	Tag  []string `json:"tag"`
	Head []int    `json:"head"`
	Role []string `json:"role"`
}

// TimeResult is a normalized time expression. Which fields are set depends
// on Type (timestamp, timedelta, timespan_0, timespan_1).
type TimeResult struct {
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp,omitempty"`
	Timespan  []string `json:"timespan,omitempty"`
	Timedelta string   `json:"timedelta,omitempty"`
}

// NEROptions tunes NER. SpaceMode defaults to "3".
type NEROptions struct {
	Sensitivity int
	Segmented   bool
	SpaceMode   string
}

// TagOptions tunes Tag. Use DefaultTagOptions for the service defaults.
type TagOptions struct {
	SpaceMode       int
	OOVLevel        int
	T2S             int
	SpecialCharConv int
}

// DefaultTagOptions returns space_mode=0, oov_level=3, t2s=0,
// special_char_conv=0.
func DefaultTagOptions() TagOptions {
	return TagOptions{OOVLevel: 3}
}

// KeywordOptions tunes ExtractKeywords.
type KeywordOptions struct {
	TopK      int
	Segmented bool
}

// SummaryOptions tunes Summary. WordLimit is a ratio when below 1 and a
// word count otherwise; zero means 0.3.
type SummaryOptions struct {
	WordLimit float64
	NotExceed bool
}

// Sentiment scores each text with the given model ("general" when empty).
func (c *Client) Sentiment(ctx context.Context, contents []string, model string) ([]SentimentScore, error) {
	if model == "" {
		model = "general"
	}
	var out []SentimentScore
	if err := c.post(ctx, "/sentiment/analysis?"+url.QueryEscape(model), nil, contents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertTime normalizes a time expression relative to basetime (now when
// zero).
func (c *Client) ConvertTime(ctx context.Context, pattern string, basetime time.Time) (TimeResult, error) {
	query := url.Values{"pattern": {pattern}}
	if !basetime.IsZero() {
		query.Set("basetime", strconv.FormatInt(basetime.Unix(), 10))
	}
	var out TimeResult
	if err := c.post(ctx, "/time/analysis", query, nil, &out); err != nil {
		return TimeResult{}, err
	}
	return out, nil
}

// Classify returns a news category index per text.
func (c *Client) Classify(ctx context.Context, contents []string) ([]int, error) {
	var out []int
	if err := c.post(ctx, "/classify/analysis", nil, contents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Suggest returns semantically related words; topK <= 0 uses the service
// default.
func (c *Client) Suggest(ctx context.Context, word string, topK int) ([]ScoredWord, error) {
	query := url.Values{}
	if topK > 0 {
		query.Set("top_k", strconv.Itoa(topK))
	}
	var out []ScoredWord
	if err := c.post(ctx, "/suggest/analysis", query, word, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExtractKeywords returns weighted keywords of text.
func (c *Client) ExtractKeywords(ctx context.Context, text string, opts KeywordOptions) ([]ScoredWord, error) {
	query := url.Values{}
	if opts.Segmented {
		query.Set("segmented", "1")
	}
	if opts.TopK > 0 {
		query.Set("top_k", strconv.Itoa(opts.TopK))
	}
	var out []ScoredWord
	if err := c.post(ctx, "/keywords/analysis", query, text, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DepParser returns the dependency parse of each text.
func (c *Client) DepParser(ctx context.Context, contents []string) ([]DepTree, error) {
	var out []DepTree
	if err := c.post(ctx, "/depparser/analysis", nil, contents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NER recognizes named entities in each text.
func (c *Client) NER(ctx context.Context, contents []string, opts NEROptions) ([]NERResult, error) {
	spaceMode := opts.SpaceMode
	if spaceMode == "" {
		spaceMode = "3"
	}
	query := url.Values{"space_mode": {spaceMode}}
	if opts.Sensitivity > 0 {
		query.Set("sensitivity", strconv.Itoa(opts.Sensitivity))
	}
	if opts.Segmented {
		query.Set("segmented", "true")
	}
	var out []NERResult
	if err := c.post(ctx, "/ner/analysis", query, contents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Tag segments each text and tags parts of speech.
func (c *Client) Tag(ctx context.Context, contents []string, opts TagOptions) ([]Tagged, error) {
	query := url.Values{
		"space_mode":        {strconv.Itoa(opts.SpaceMode)},
		"oov_level":         {strconv.Itoa(opts.OOVLevel)},
		"t2s":               {strconv.Itoa(opts.T2S)},
		"special_char_conv": {strconv.Itoa(opts.SpecialCharConv)},
	}
	var out []Tagged
	if err := c.post(ctx, "/tag/analysis", query, contents, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Summary extracts a summary of a news article.
func (c *Client) Summary(ctx context.Context, title, content string, opts SummaryOptions) (string, error) {
	limit := opts.WordLimit
	if limit == 0 {
		limit = 0.3
	}
	notExceed := 0
	if opts.NotExceed {
		notExceed = 1
	}
	body := map[string]any{
		"content":    content,
		"not_exceed": notExceed,
		"percentage": limit,
		"title":      title,
	}
	var out string
	if err := c.post(ctx, "/summary/analysis", nil, body, &out); err != nil {
		return "", err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body any, v any) error {
	resp, err := c.request(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return err
	}
	return resp.Decode(v)
}
