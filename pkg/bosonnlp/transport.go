package bosonnlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// compressThreshold is the body size above which requests are gzipped.
const compressThreshold = 10 * 1024

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// HTTPError is returned for any response with a 4xx or 5xx status.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTPError: %d %s", e.StatusCode, e.Message)
}

// request sends one API call. A non-nil body is encoded as JSON. path may
// already carry a raw query; query values are appended to it.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		endpoint += sep + query.Encode()
	}

	var (
		reader   io.Reader = http.NoBody
		encoding string
	)
	if body != nil {
		payload, err := encodeJSON(body)
		if err != nil {
			return nil, err
		}
		if c.compress && len(payload) > compressThreshold {
			payload, err = gzipBytes(payload)
			if err != nil {
				return nil, err
			}
			encoding = "gzip"
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	c.applyHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 600 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp, raw)}
	}

	return &Response{StatusCode: resp.StatusCode, Body: raw, Header: resp.Header}, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("X-Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "bosonnlp-go/"+Version)
}

// errorMessage prefers the "message" field of a JSON error body and falls back
// to the status phrase.
func errorMessage(resp *http.Response, raw []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
}

// encodeJSON leaves non-ASCII and HTML characters unescaped.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("gzip writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("gzip payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}
