package grounding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html>
<head><title>Rule 15c3-1</title><style>.x{color:red}</style></head>
<body>
<header>Site navigation</header>
<div class="sidebar">Related links</div>
<script>trackPageView();</script>
<main>Net capital      requirements for brokers.


And dealers.</main>
<footer>Copyright</footer>
</body>
</html>`

func TestCleanHTML(t *testing.T) {
	text, err := CleanHTML(strings.NewReader(samplePage))
	require.NoError(t, err)

	assert.Contains(t, text, "Net capital requirements for brokers.")
	assert.Contains(t, text, "And dealers.")
	assert.NotContains(t, text, "trackPageView")
	assert.NotContains(t, text, "Site navigation")
	assert.NotContains(t, text, "Related links")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "color:red")
	// Runs of spaces collapse to one, 3+ newlines to a paragraph break.
	assert.NotContains(t, text, "  ")
	assert.NotContains(t, text, "\n\n\n")
}

func TestExtractorFetchesAndCleans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	e := NewExtractor()
	text, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "Net capital requirements")
}

func TestExtractorErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewExtractor()
	_, err := e.Extract(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestExtractorBodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>" + strings.Repeat("a", 4096) + "</body></html>"))
	}))
	defer srv.Close()

	e := NewExtractor(func(o *ExtractorOptions) { o.MaxBodyBytes = 64 })
	text, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 64)
}
