package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"papergraph/application/ports"
	"papergraph/domain/paper"
	apperrors "papergraph/pkg/errors"
)

// PaperService resolves a paper identifier to its metadata through a
// three-step pipeline: cache, persistent store, external source. Each step
// short-circuits on success; a source hit is written through to the store
// and the cache, a store hit only repopulates the cache.
type PaperService struct {
	cache  ports.Cache
	store  ports.PaperStore
	source ports.MetadataSource
	ttl    time.Duration
	logger *zap.Logger
}

// NewPaperService creates a PaperService. ttl is the metadata cache tier.
func NewPaperService(cache ports.Cache, store ports.PaperStore, source ports.MetadataSource, ttl time.Duration, logger *zap.Logger) *PaperService {
	return &PaperService{
		cache:  cache,
		store:  store,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

func paperCacheKey(id string) string {
	return "paper-" + id
}

// FetchPaperDetails resolves id to an immutable Paper. Calling it twice in
// succession returns identical values and the second call never reaches
// the external source.
func (s *PaperService) FetchPaperDetails(ctx context.Context, id string) (*paper.Paper, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("paper id is required")
	}

	key := paperCacheKey(id)
	if cached, ok := s.cache.Get(ctx, key); ok {
		if p, ok := cached.(*paper.Paper); ok {
			return p, nil
		}
	}

	p, found, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if found {
		if cerr := s.cache.Set(ctx, key, p, s.ttl); cerr != nil {
			s.logger.Warn("Failed to cache paper", zap.String("paperID", id), zap.Error(cerr))
		}
		return p, nil
	}

	p, err = s.source.PaperByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Write-through: persist first, then populate the cache.
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	if cerr := s.cache.Set(ctx, key, p, s.ttl); cerr != nil {
		s.logger.Warn("Failed to cache paper", zap.String("paperID", id), zap.Error(cerr))
	}

	s.logger.Info("Resolved paper from external source",
		zap.String("paperID", id),
		zap.Int("authors", len(p.Authors)),
		zap.Int("categories", len(p.Categories)),
	)

	return p, nil
}
