package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BosonNLP/internal/domain"
)

const reviewsPage = `
<html><body>
  <div class="review" id="r-7">
    今天天气好
  </div>
  <div class="review">   </div>
  <div class="review">点点楼头细雨，
     重重江外平湖</div>
  <p>页脚</p>
</body></html>`

func TestExtractDocuments(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(reviewsPage))
	require.NoError(t, err)

	docs := extractDocuments(doc, ".review")
	assert.Equal(t, []domain.Document{
		{ID: "r-7", Text: "今天天气好"},
		{ID: "3", Text: "点点楼头细雨， 重重江外平湖"},
	}, docs)
}

func TestHTMLSourceRemote(t *testing.T) {
	t.Parallel()

	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(reviewsPage))
	}))
	defer server.Close()

	docs, err := NewHTMLSource(server.URL, "", server.Client()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "BosonNLP/1.0", userAgent)
	assert.Equal(t, []domain.Document{{ID: "1", Text: "页脚"}}, docs)
}

func TestHTMLSourceRemoteStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	_, err := NewHTMLSource(server.URL, ".review", server.Client()).Load(context.Background())
	assert.ErrorContains(t, err, "410 Gone")
}

func TestHTMLSourceFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.html")
	require.NoError(t, os.WriteFile(path, []byte(reviewsPage), 0o600))

	docs, err := NewHTMLSource(path, ".review", nil).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = NewHTMLSource(filepath.Join(t.TempDir(), "missing.html"), "", nil).Load(context.Background())
	assert.ErrorContains(t, err, "open html")
}

func TestLineSource(t *testing.T) {
	t.Parallel()

	input := "今天天气好\n\n  今天天气很好  \n今天天气真好\n"
	docs, err := NewLineReader(strings.NewReader(input)).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Document{
		{ID: "1", Text: "今天天气好"},
		{ID: "3", Text: "今天天气很好"},
		{ID: "4", Text: "今天天气真好"},
	}, docs)
}

func TestLineSourceFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb"), 0o600))

	docs, err := NewLineFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = NewLineFile(filepath.Join(t.TempDir(), "missing.txt")).Load(context.Background())
	assert.ErrorContains(t, err, "open input")
}

func TestLineSourceCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLineReader(strings.NewReader("a\nb\n")).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
