package grounding

import (
	"context"
	"fmt"
	"strings"

	"github.com/EllieNosrat/chat-with-bing/core"
	"github.com/EllieNosrat/chat-with-bing/internal/schema"
	"github.com/EllieNosrat/chat-with-bing/logging"
)

// ToolName is the name the adapter registers under and the name the model
// requests it by.
const ToolName = "search_and_get_text"

// SearchResult is one grounded source: a sequential citation id (unique
// within one grounding call), the source URL and its extracted text. Results
// live only for the duration of one call; the serialized envelope is what the
// model sees.
type SearchResult struct {
	ID      int
	Src     string
	Content string
}

// searchArgs is the adapter's declared argument shape.
type searchArgs struct {
	Query string `json:"query" description:"Free-text search query without any site: restriction"`
}

// AdapterOptions configure the grounding adapter.
type AdapterOptions struct {
	// MaxSources caps how many result URLs are fetched per call.
	MaxSources int
	Logger     logging.Logger
}

// Adapter exposes search-plus-extraction as a single tool: it restricts the
// query to the allow-listed sites, fetches each hit, and serializes the
// extracted text into citation-id tagged source blocks.
type Adapter struct {
	searcher   Searcher
	extractor  TextExtractor
	sites      []string
	maxSources int
	logger     logging.Logger
}

// NewAdapter constructs the adapter over a search backend, a page extractor
// and the site allow-list the query is scoped to.
func NewAdapter(searcher Searcher, extractor TextExtractor, sites []string, optFns ...func(o *AdapterOptions)) *Adapter {
	opts := AdapterOptions{
		MaxSources: 5,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Adapter{
		searcher:   searcher,
		extractor:  extractor,
		sites:      sites,
		maxSources: opts.MaxSources,
		logger:     opts.Logger,
	}
}

// Name implements tool.Tool.
func (a *Adapter) Name() string { return ToolName }

// Description implements tool.Tool.
func (a *Adapter) Description() string {
	return fmt.Sprintf("Searches %s for a query and returns the text content of the first few results", strings.Join(a.sites, ", "))
}

// Parameters implements tool.Tool.
func (a *Adapter) Parameters() map[string]any { return schema.FromStruct(searchArgs{}) }

// Call implements tool.Tool. Per-URL fetch failures skip that source; a
// failing or empty search yields an explicitly empty source list rather than
// an error, so the orchestrator loop continues and the model can say it found
// nothing instead of fabricating.
func (a *Adapter) Call(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)

	results := a.Ground(ctx, query)

	blocks := make([]string, 0, len(results))
	for _, res := range results {
		blocks = append(blocks, core.SourceBlock(res.ID, res.Src, res.Content))
	}
	return core.SourcesEnvelope(blocks), nil
}

// Ground runs the restricted search and extraction, assigning citation ids
// sequentially from core.FirstCitationID in search-result order.
func (a *Adapter) Ground(ctx context.Context, query string) []SearchResult {
	restricted := RestrictQuery(query, a.sites)
	a.logger.Info("grounding.search", "query", restricted)

	urls, err := a.searcher.Search(ctx, restricted)
	if err != nil {
		a.logger.Warn("grounding.search.failed", "error", err.Error())
		return nil
	}
	if len(urls) > a.maxSources {
		urls = urls[:a.maxSources]
	}

	var results []SearchResult
	id := core.FirstCitationID
	for _, pageURL := range urls {
		text, err := a.extractor.Extract(ctx, pageURL)
		if err != nil {
			a.logger.Warn("grounding.fetch.skipped", "url", pageURL, "error", err.Error())
			continue
		}
		a.logger.Debug("grounding.fetch.extracted", "url", pageURL, "chars", len(text))
		results = append(results, SearchResult{ID: id, Src: pageURL, Content: text})
		id++
	}
	return results
}

// RestrictQuery appends the site allow-list to a free-text query, e.g.
// "broker rules (site:sec.gov OR site:finra.org)". Callers must not embed
// site: syntax themselves; the system prompt forbids the model from doing so.
func RestrictQuery(query string, sites []string) string {
	if len(sites) == 0 {
		return query
	}
	restrictions := make([]string, len(sites))
	for i, s := range sites {
		restrictions[i] = "site:" + s
	}
	return fmt.Sprintf("%s (%s)", query, strings.Join(restrictions, " OR "))
}
