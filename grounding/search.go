// Package grounding implements the search-and-extract tool that grounds
// answers in a fixed allow-list of regulatory sites: a web search client, an
// HTML-to-text extractor and the adapter that exposes both as a single tool.
package grounding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Searcher issues a web search and returns result URLs in backend order. An
// empty slice is a valid response, not an error.
type Searcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// BingClientOptions configure the Bing Web Search client.
type BingClientOptions struct {
	// Count caps the number of results requested per search.
	Count int
	// HTTPClient overrides the default client (primarily for tests).
	HTTPClient *http.Client
}

// BingClient implements Searcher against the Bing Web Search v7 API.
type BingClient struct {
	endpoint string
	apiKey   string
	count    int
	client   *http.Client
}

// NewBingClient constructs a client for the given API endpoint base (e.g.
// "https://api.bing.microsoft.com/") and subscription key.
func NewBingClient(endpoint, apiKey string, optFns ...func(o *BingClientOptions)) *BingClient {
	opts := BingClientOptions{
		Count:      5,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &BingClient{endpoint: endpoint, apiKey: apiKey, count: opts.Count, client: opts.HTTPClient}
}

// bingResponse mirrors the subset of the v7 search response we consume.
type bingResponse struct {
	WebPages *struct {
		Value []struct {
			URL string `json:"url"`
		} `json:"value"`
	} `json:"webPages"`
}

// Search implements Searcher. A response without a webPages section means
// zero hits and yields an empty slice.
func (c *BingClient) Search(ctx context.Context, query string) ([]string, error) {
	searchURL := fmt.Sprintf("%sv7.0/search?q=%s&count=%s",
		c.endpoint, url.QueryEscape(query), strconv.Itoa(c.count))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search backend returned status %d", resp.StatusCode)
	}

	var body bingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if body.WebPages == nil {
		return nil, nil
	}

	urls := make([]string, 0, len(body.WebPages.Value))
	for _, page := range body.WebPages.Value {
		urls = append(urls, page.URL)
	}
	return urls, nil
}
