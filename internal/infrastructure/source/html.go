package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BosonNLP/internal/domain"
	"BosonNLP/internal/ports"
)

// DefaultSelector picks paragraphs when no selector is configured.
const DefaultSelector = "p"

// HTMLSource extracts one document per element matching a CSS selector.
// Location is either a local file or an http(s) URL.
type HTMLSource struct {
	location string
	selector string
	client   *http.Client
}

var _ ports.ContentSource = (*HTMLSource)(nil)

// NewHTMLSource wires an HTTP client for remote pages; selector defaults to "p".
func NewHTMLSource(location, selector string, client *http.Client) *HTMLSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if strings.TrimSpace(selector) == "" {
		selector = DefaultSelector
	}
	return &HTMLSource{location: location, selector: selector, client: client}
}

// Load fetches the page and returns the non-empty text of every match.
func (s *HTMLSource) Load(ctx context.Context) ([]domain.Document, error) {
	doc, err := s.fetchDocument(ctx)
	if err != nil {
		return nil, err
	}
	return extractDocuments(doc, s.selector), nil
}

func (s *HTMLSource) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	if !isRemote(s.location) {
		f, err := os.Open(s.location)
		if err != nil {
			return nil, fmt.Errorf("open html: %w", err)
		}
		defer f.Close()
		return parseDocument(f)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "BosonNLP/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", s.location, resp.Status)
	}

	return parseDocument(resp.Body)
}

func parseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func extractDocuments(doc *goquery.Document, selector string) []domain.Document {
	var docs []domain.Document
	doc.Find(selector).Each(func(i int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" {
			return
		}
		id, ok := sel.Attr("id")
		if !ok || strings.TrimSpace(id) == "" {
			id = strconv.Itoa(i + 1)
		}
		docs = append(docs, domain.Document{ID: id, Text: text})
	})
	return docs
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
