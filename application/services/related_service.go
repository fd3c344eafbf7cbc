package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/domain/paper"
	apperrors "papergraph/pkg/errors"
)

// DefaultMaxResults is the related-paper limit applied when the caller
// does not specify one.
const DefaultMaxResults = 8

// RelatedService discovers candidate related papers for a subject
// category. The raw (unfiltered) result set is cached under the composite
// (category, maxResults) key so a different origin paper can reuse it;
// exclusion of the origin happens per call, before the maxResults slice.
type RelatedService struct {
	cache  ports.Cache
	source ports.MetadataSource
	ttl    time.Duration
	logger *zap.Logger
}

// NewRelatedService creates a RelatedService. ttl is the metadata cache tier.
func NewRelatedService(cache ports.Cache, source ports.MetadataSource, ttl time.Duration, logger *zap.Logger) *RelatedService {
	return &RelatedService{
		cache:  cache,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func relatedCacheKey(category string, maxResults int) string {
	return fmt.Sprintf("related-%s-%d", category, maxResults)
}

// FetchRelatedPapers returns up to maxResults papers filed under category,
// with the paper matching excludeID removed before truncation. A cache hit
// returns without a network round-trip.
func (s *RelatedService) FetchRelatedPapers(ctx context.Context, category, excludeID string, maxResults int) ([]paper.Stub, error) {
	if category == "" {
		return nil, apperrors.NewValidationError("category is required")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	key := relatedCacheKey(category, maxResults)

	var raw []paper.Stub
	if cached, ok := s.cache.Get(ctx, key); ok {
		if stubs, ok := cached.([]paper.Stub); ok {
			raw = stubs
		}
	}

	if raw == nil {
		stubs, err := s.source.StubsByCategory(ctx, category, maxResults)
		if err != nil {
			return nil, err
		}
		raw = stubs

		if cerr := s.cache.Set(ctx, key, raw, s.ttl); cerr != nil {
			s.logger.Warn("Failed to cache related papers",
				zap.String("category", category),
				zap.Error(cerr),
			)
		}
	}

	// Exclusion before truncation: the slice always yields up to
	// maxResults papers that are not the origin.
	filtered := make([]paper.Stub, 0, len(raw))
	for _, st := range raw {
		if st.ID == excludeID {
			continue
		}
		filtered = append(filtered, st)
	}

	if len(filtered) > maxResults {
		filtered = filtered[:maxResults]
	}

	return filtered, nil
}
