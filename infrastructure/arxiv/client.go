// Package arxiv implements the external metadata source port against the
// arXiv query API. Responses are Atom feeds; every call is wrapped in the
// shared retry policy and an independent response cache keyed by the raw
// request URL, so repeated traversals over the same neighborhood stay off
// the network.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/domain/paper"
	apperrors "papergraph/pkg/errors"
	"papergraph/pkg/retry"
)

// DefaultBaseURL is the public arXiv query endpoint.
const DefaultBaseURL = "http://export.arxiv.org/api/query"

// Client queries the arXiv API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      ports.Cache
	cacheTTL   time.Duration
	retrier    *retry.Retrier
	logger     *zap.Logger
}

// NewClient creates a client. The timeout applies per HTTP call; a timed
// out call counts as one failed attempt under the retry policy.
func NewClient(baseURL string, timeout time.Duration, cache ports.Cache, cacheTTL time.Duration, retrier *retry.Retrier, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		cache:      cache,
		cacheTTL:   cacheTTL,
		retrier:    retrier,
		logger:     logger,
	}
}

// Atom feed structures for the arXiv API. Slice fields tolerate the feed
// carrying a single element where a list is expected; the decoder appends
// one entry either way.

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// PaperByID resolves one identifier to its full record. When the feed
// carries several entries for the id, the first authoritative entry wins.
func (c *Client) PaperByID(ctx context.Context, id string) (*paper.Paper, error) {
	reqURL := fmt.Sprintf("%s?id_list=%s", c.baseURL, url.QueryEscape(id))

	feed, err := c.fetchFeed(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if len(feed.Entries) == 0 {
		return nil, apperrors.NewResolutionError(fmt.Sprintf("paper '%s'", id))
	}

	entry := feed.Entries[0]

	p := &paper.Paper{
		ID:         id,
		Title:      collapseWhitespace(entry.Title),
		Authors:    authorNames(entry.Authors),
		Abstract:   collapseWhitespace(entry.Summary),
		Link:       strings.TrimSpace(entry.ID),
		Categories: categoryTerms(entry.Categories),
	}

	if p.Title == "" && p.Abstract == "" {
		return nil, apperrors.NewResolutionError(fmt.Sprintf("paper '%s'", id))
	}

	return p, nil
}

// StubsByCategory lists up to limit papers filed under a category. The
// origin paper is not excluded here; the caller filters before slicing.
func (c *Client) StubsByCategory(ctx context.Context, category string, limit int) ([]paper.Stub, error) {
	params := url.Values{}
	params.Set("search_query", "cat:"+category)
	params.Set("max_results", fmt.Sprintf("%d", limit))
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	feed, err := c.fetchFeed(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	stubs := make([]paper.Stub, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		stubs = append(stubs, paper.Stub{
			ID:         idFromLink(entry.ID),
			Title:      collapseWhitespace(entry.Title),
			Authors:    authorNames(entry.Authors),
			Categories: categoryTerms(entry.Categories),
		})
	}
	return stubs, nil
}

// fetchFeed returns the parsed feed for a request URL, serving the raw
// body from the response cache when present.
func (c *Client) fetchFeed(ctx context.Context, reqURL string) (*atomFeed, error) {
	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, apperrors.NewResolutionError("arxiv response").WithCause(err)
	}
	return &feed, nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	if cached, ok := c.cache.Get(ctx, reqURL); ok {
		if body, ok := cached.([]byte); ok {
			return body, nil
		}
	}

	var body []byte
	err := c.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return apperrors.NewNetworkError("arxiv request failed", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return apperrors.NewExternalError("arxiv", fmt.Errorf("http %s", resp.Status))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return apperrors.NewNetworkError("reading arxiv response", err)
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("arXiv fetch failed after retries",
			zap.String("url", reqURL),
			zap.Error(err),
		)
		return nil, err
	}

	if cerr := c.cache.Set(ctx, reqURL, body, c.cacheTTL); cerr != nil {
		c.logger.Warn("Failed to cache arXiv response", zap.Error(cerr))
	}

	return body, nil
}

// idFromLink extracts the arXiv identifier from an abstract URL such as
// http://arxiv.org/abs/2301.00001v1.
func idFromLink(link string) string {
	link = strings.TrimSpace(link)
	if idx := strings.LastIndex(link, "/abs/"); idx >= 0 {
		return link[idx+len("/abs/"):]
	}
	return link
}

// collapseWhitespace folds runs of internal whitespace, including the
// newlines arXiv wraps abstracts with, into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func authorNames(authors []atomAuthor) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		names = append(names, strings.TrimSpace(a.Name))
	}
	return names
}

func categoryTerms(categories []atomCategory) []string {
	terms := make([]string, 0, len(categories))
	for _, cat := range categories {
		terms = append(terms, cat.Term)
	}
	return terms
}
