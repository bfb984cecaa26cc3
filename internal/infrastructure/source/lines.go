package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"BosonNLP/internal/domain"
	"BosonNLP/internal/ports"
)

const maxLineSize = 1 << 20

// LineSource reads one document per non-blank line. The document id is the
// 1-based line number, so ids stay stable when blank lines are skipped.
type LineSource struct {
	open func() (io.ReadCloser, error)
}

var _ ports.ContentSource = (*LineSource)(nil)

// NewLineFile reads documents from a file; "-" means stdin.
func NewLineFile(path string) *LineSource {
	return &LineSource{open: func() (io.ReadCloser, error) {
		if path == "-" {
			return io.NopCloser(os.Stdin), nil
		}
		return os.Open(path)
	}}
}

// NewLineReader reads documents from r.
func NewLineReader(r io.Reader) *LineSource {
	return &LineSource{open: func() (io.ReadCloser, error) {
		return io.NopCloser(r), nil
	}}
}

// Load scans every line, stopping early if ctx is done.
func (s *LineSource) Load(ctx context.Context) ([]domain.Document, error) {
	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer rc.Close()

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var docs []domain.Document
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		docs = append(docs, domain.Document{ID: strconv.Itoa(line), Text: text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return docs, nil
}
