// Package ports defines the interfaces the application services depend on.
// These are ports in hexagonal architecture - the services don't know about
// the DynamoDB, arXiv, or LLM implementations behind them.
package ports

import (
	"context"
	"time"

	"papergraph/domain/paper"
)

// Cache is the process-wide bounded-lifetime cache. Entries expire by TTL
// only; there is no size-based eviction. Implementations must be safe for
// concurrent use; last-write-wins on overlapping writes to the same key is
// acceptable because cached values are idempotent.
type Cache interface {
	// Get retrieves a value. Entries past their TTL behave as absent.
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value with expiry now+ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value.
	Delete(ctx context.Context, key string) error
}

// PaperStore is the persistent Paper document store, queried by id.
type PaperStore interface {
	// Get returns the stored paper, or found=false when the id is absent.
	Get(ctx context.Context, id string) (p *paper.Paper, found bool, err error)

	// Save persists a paper. Papers are written once and never updated.
	Save(ctx context.Context, p *paper.Paper) error
}

// MetadataSource is the external bibliographic service (the arXiv query
// API). Implementations own the per-call timeout, the retry policy, and a
// response cache keyed by raw request URL.
type MetadataSource interface {
	// PaperByID resolves one identifier to its full record, taking the
	// first authoritative entry when the source returns several.
	PaperByID(ctx context.Context, id string) (*paper.Paper, error)

	// StubsByCategory lists up to limit papers filed under a category,
	// unfiltered; exclusion of the origin paper happens in the caller.
	StubsByCategory(ctx context.Context, category string, limit int) ([]paper.Stub, error)
}

// PaperResolver resolves an identifier through the cache/store/source
// pipeline. Implemented by services.PaperService; mocked in traversal tests.
type PaperResolver interface {
	FetchPaperDetails(ctx context.Context, id string) (*paper.Paper, error)
}

// RelatedFinder returns candidate related papers for a category with the
// origin paper excluded. Implemented by services.RelatedService.
type RelatedFinder interface {
	FetchRelatedPapers(ctx context.Context, category, excludeID string, maxResults int) ([]paper.Stub, error)
}

// ChatCompleter is the LLM chat-completion endpoint used by the outline
// generator. One prompt in, one completion out.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
