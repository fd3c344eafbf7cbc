package services

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"papergraph/application/ports"
	"papergraph/domain/paper"
	apperrors "papergraph/pkg/errors"
)

// Traversal defaults; callers usually take them from configuration.
const (
	DefaultMaxDepth      = 4
	DefaultMaxBranch     = 8
	DefaultMaxConcurrent = 16
)

// DiscoveryService builds a bounded citation-neighborhood graph from a
// single root identifier. The traversal is an explicit breadth-first work
// queue with a depth tag per item rather than call-stack recursion, which
// keeps concurrency limits enforceable and the stack flat at any depth.
//
// One traversal owns one visited set guarded by a mutex; the
// check-and-insert is atomic, so an id is expanded at most once no matter
// how many sibling branches discover it. A node is appended before any of
// its outgoing edges. Any node-resolution failure aborts the whole call;
// no partial graph is returned.
type DiscoveryService struct {
	papers        ports.PaperResolver
	related       ports.RelatedFinder
	maxConcurrent int
	logger        *zap.Logger
}

// NewDiscoveryService creates a DiscoveryService. maxConcurrent bounds the
// number of in-flight expansions per traversal; non-positive values fall
// back to the default.
func NewDiscoveryService(papers ports.PaperResolver, related ports.RelatedFinder, maxConcurrent int, logger *zap.Logger) *DiscoveryService {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &DiscoveryService{
		papers:        papers,
		related:       related,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

type workItem struct {
	id    string
	depth int
}

// visitedSet is scoped to a single traversal call.
type visitedSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

// visit atomically checks and marks an id, returning true on first visit.
func (v *visitedSet) visit(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.ids[id]; ok {
		return false
	}
	v.ids[id] = struct{}{}
	return true
}

// Discover expands rootID into a graph bounded by maxDepth levels and
// maxBranch related papers per expansion. Sibling expansions at the same
// level run concurrently; their node/edge append order is undefined.
func (s *DiscoveryService) Discover(ctx context.Context, rootID string, maxDepth, maxBranch int) (*paper.Graph, error) {
	if rootID == "" {
		return nil, apperrors.NewValidationError("root paper id is required")
	}
	if maxDepth < 0 || maxBranch < 0 {
		return nil, apperrors.NewValidationError("depth and branch limits must not be negative")
	}

	graph := &paper.Graph{
		Nodes: []paper.Paper{},
		Links: []paper.Edge{},
	}
	var graphMu sync.Mutex

	visited := &visitedSet{ids: make(map[string]struct{})}

	frontier := []workItem{{id: rootID, depth: 0}}

	for len(frontier) > 0 {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(s.maxConcurrent)

		var nextMu sync.Mutex
		var next []workItem

		for _, it := range frontier {
			it := it
			if it.depth > maxDepth {
				continue
			}
			if !visited.visit(it.id) {
				continue
			}

			eg.Go(func() error {
				p, err := s.papers.FetchPaperDetails(egCtx, it.id)
				if err != nil {
					// One bad node invalidates the whole traversal.
					return err
				}

				graphMu.Lock()
				graph.Nodes = append(graph.Nodes, *p)
				graphMu.Unlock()

				if it.depth >= maxDepth {
					return nil
				}

				category := p.PrimaryCategory()
				if category == "" {
					// No category to expand by: leaf, not an error.
					return nil
				}

				stubs, err := s.related.FetchRelatedPapers(egCtx, category, it.id, maxBranch)
				if err != nil {
					return err
				}

				for _, st := range stubs {
					graphMu.Lock()
					graph.Links = append(graph.Links, paper.Edge{Source: it.id, Target: st.ID})
					graphMu.Unlock()

					nextMu.Lock()
					next = append(next, workItem{id: st.ID, depth: it.depth + 1})
					nextMu.Unlock()
				}
				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return nil, err
		}

		frontier = next
	}

	s.logger.Info("Discovery traversal complete",
		zap.String("rootID", rootID),
		zap.Int("maxDepth", maxDepth),
		zap.Int("maxBranch", maxBranch),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("links", len(graph.Links)),
	)

	return graph, nil
}
