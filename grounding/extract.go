package grounding

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// TextExtractor fetches a page and returns its extracted plain text.
type TextExtractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

var (
	spaceRuns   = regexp.MustCompile(` {2,}`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// ExtractorOptions configure the HTTP extractor.
type ExtractorOptions struct {
	// MaxBodyBytes caps how much of a page is read before extraction.
	MaxBodyBytes int64
	// HTTPClient overrides the default client (primarily for tests).
	HTTPClient *http.Client
}

// Extractor implements TextExtractor over plain HTTP GET plus goquery based
// markup stripping.
type Extractor struct {
	client  *http.Client
	maxBody int64
}

// NewExtractor constructs an Extractor with a 10 MB body cap and a 15 second
// request timeout.
func NewExtractor(optFns ...func(o *ExtractorOptions)) *Extractor {
	opts := ExtractorOptions{
		MaxBodyBytes: 10 * 1024 * 1024,
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Extractor{client: opts.HTTPClient, maxBody: opts.MaxBodyBytes}
}

// Extract fetches pageURL and returns its cleaned text content.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build fetch request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	return CleanHTML(io.LimitReader(resp.Body, e.maxBody))
}

// CleanHTML strips non-content markup from an HTML document and collapses
// redundant whitespace: script, style, header and footer elements plus any
// node with the sidebar class are dropped, runs of spaces become one space
// and runs of three or more newlines become a paragraph break.
func CleanHTML(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, header, footer, .sidebar").Remove()

	text := doc.Text()
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
