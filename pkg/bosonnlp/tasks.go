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

const (
	clusterFamily  = "cluster"
	commentsFamily = "comments"
)

// ClusterGroup is one group of near-duplicate texts.
type ClusterGroup struct {
	ID   ID   `json:"_id"`
	List []ID `json:"list"`
	Num  int  `json:"num"`
}

// Snippet is an opinion fragment and the record it was taken from. It is
// encoded as the array [text, id].
type Snippet struct {
	Text string
	ID   ID
}

func (s Snippet) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Text, s.ID})
}

func (s *Snippet) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("snippet: want 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &s.Text); err != nil {
		return fmt.Errorf("snippet text: %w", err)
	}
	return s.ID.UnmarshalJSON(parts[1])
}

// OpinionGroup is one typical opinion with the snippets supporting it.
type OpinionGroup struct {
	ID      ID        `json:"_id"`
	List    []Snippet `json:"list"`
	Num     int       `json:"num"`
	Opinion string    `json:"opinion"`
}

// ClusterTask is a text clustering task.
type ClusterTask = Task[ClusterGroup]

// CommentsTask is a typical-opinion extraction task.
type CommentsTask = Task[OpinionGroup]

// RunOptions configures the one-shot Cluster and Comments calls.
type RunOptions struct {
	// TaskID is generated when empty.
	TaskID string
	Alpha  *float64
	Beta   *float64
	// Timeout of zero means DefaultTaskTimeout; negative waits forever.
	Timeout time.Duration
}

// familyEndpoints maps the task operations onto /<family>/<op>/<task id>.
type familyEndpoints[R any] struct {
	client *Client
	family string
}

func (e familyEndpoints[R]) Family() string {
	return e.family
}

func (e familyEndpoints[R]) path(op, taskID string) string {
	return "/" + e.family + "/" + op + "/" + url.PathEscape(taskID)
}

func (e familyEndpoints[R]) Push(ctx context.Context, taskID string, chunk []Record) error {
	_, err := e.client.request(ctx, http.MethodPost, e.path("push", taskID), nil, chunk)
	return err
}

func (e familyEndpoints[R]) Analyze(ctx context.Context, taskID string, params AnalysisParams) error {
	query := url.Values{}
	if params.Alpha != nil {
		query.Set("alpha", strconv.FormatFloat(*params.Alpha, 'f', -1, 64))
	}
	if params.Beta != nil {
		query.Set("beta", strconv.FormatFloat(*params.Beta, 'f', -1, 64))
	}
	_, err := e.client.request(ctx, http.MethodGet, e.path("analysis", taskID), query, nil)
	return err
}

func (e familyEndpoints[R]) Status(ctx context.Context, taskID string) (string, error) {
	resp, err := e.client.request(ctx, http.MethodGet, e.path("status", taskID), nil, nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := resp.Decode(&payload); err != nil {
		return "", err
	}
	return payload.Status, nil
}

func (e familyEndpoints[R]) Result(ctx context.Context, taskID string) ([]R, error) {
	resp, err := e.client.request(ctx, http.MethodGet, e.path("result", taskID), nil, nil)
	if err != nil {
		return nil, err
	}
	var result []R
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e familyEndpoints[R]) Clear(ctx context.Context, taskID string) (bool, error) {
	resp, err := e.client.request(ctx, http.MethodGet, e.path("clear", taskID), nil, nil)
	if err != nil {
		return false, err
	}
	return resp.StatusCode < http.StatusBadRequest, nil
}

// NewClusterTask creates a clustering task and pushes contents, if any. On a
// push error the task is still returned so the caller can Clear it.
func (c *Client) NewClusterTask(ctx context.Context, contents Contents, taskID string) (*ClusterTask, error) {
	return startTask(ctx, c, familyEndpoints[ClusterGroup]{client: c, family: clusterFamily}, contents, taskID)
}

// NewCommentsTask creates a typical-opinion task and pushes contents, if any.
// On a push error the task is still returned so the caller can Clear it.
func (c *Client) NewCommentsTask(ctx context.Context, contents Contents, taskID string) (*CommentsTask, error) {
	return startTask(ctx, c, familyEndpoints[OpinionGroup]{client: c, family: commentsFamily}, contents, taskID)
}

// Cluster groups contents in a single blocking call and clears the task on
// the server afterwards.
func (c *Client) Cluster(ctx context.Context, contents Contents, opts RunOptions) ([]ClusterGroup, error) {
	return run(ctx, c, familyEndpoints[ClusterGroup]{client: c, family: clusterFamily}, contents, opts)
}

// Comments extracts typical opinions in a single blocking call and clears the
// task on the server afterwards.
func (c *Client) Comments(ctx context.Context, contents Contents, opts RunOptions) ([]OpinionGroup, error) {
	return run(ctx, c, familyEndpoints[OpinionGroup]{client: c, family: commentsFamily}, contents, opts)
}

func startTask[R any](ctx context.Context, c *Client, endpoints Endpoints[R], contents Contents, taskID string) (*Task[R], error) {
	task := NewTask(endpoints, taskID, c.logger)
	if c.sleep != nil {
		task.sleep = c.sleep
	}
	if _, err := task.Push(ctx, contents); err != nil {
		return task, err
	}
	return task, nil
}

// run pushes, analyzes, waits and fetches. Bare texts get ids 0..n-1 so
// results can be matched back by position. Clear always runs once the task
// exists; its failure is logged and never replaces the primary error.
func run[R any](ctx context.Context, c *Client, endpoints Endpoints[R], contents Contents, opts RunOptions) ([]R, error) {
	if contents.Len() == 0 {
		return nil, nil
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTaskTimeout
	}

	task, err := startTask(ctx, c, endpoints, indexed(contents), opts.TaskID)
	// Clear runs even when the first chunk was rejected; the server may hold
	// part of an upload under this task id.
	defer func() {
		if _, clearErr := task.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			c.logger.Warn("clear task failed", "task_id", task.ID(), "error", clearErr)
		}
	}()
	if err != nil {
		return nil, err
	}

	if err := task.Analysis(ctx, AnalysisParams{Alpha: opts.Alpha, Beta: opts.Beta}); err != nil {
		return nil, err
	}
	if err := task.WaitUntilComplete(ctx, timeout); err != nil {
		return nil, err
	}
	return task.Result(ctx)
}
