package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papergraph/domain/paper"
)

// networkFixture wires a fakeResolver/fakeFinder pair around a static
// paper network and counts resolutions per id.
type networkFixture struct {
	mu      sync.Mutex
	papers  map[string]*paper.Paper
	related map[string][]paper.Stub
	fetches map[string]int
}

func newNetworkFixture() *networkFixture {
	return &networkFixture{
		papers:  make(map[string]*paper.Paper),
		related: make(map[string][]paper.Stub),
		fetches: make(map[string]int),
	}
}

func (f *networkFixture) addPaper(id, category string, relatedIDs ...string) {
	p := &paper.Paper{ID: id, Title: "Paper " + id}
	if category != "" {
		p.Categories = []string{category}
	}
	f.papers[id] = p

	stubs := make([]paper.Stub, 0, len(relatedIDs))
	for _, rid := range relatedIDs {
		stubs = append(stubs, paper.Stub{ID: rid})
	}
	f.related[id] = stubs
}

func (f *networkFixture) resolver() *fakeResolver {
	return &fakeResolver{fn: func(_ context.Context, id string) (*paper.Paper, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.fetches[id]++
		p, ok := f.papers[id]
		if !ok {
			return nil, errNotFound
		}
		return p, nil
	}}
}

// finder serves the per-origin stub lists keyed by excludeID, which is
// how the traversal identifies the expanding paper.
func (f *networkFixture) finder() *fakeFinder {
	return &fakeFinder{fn: func(_ context.Context, _ string, excludeID string, maxResults int) ([]paper.Stub, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		stubs := f.related[excludeID]
		if len(stubs) > maxResults {
			stubs = stubs[:maxResults]
		}
		return stubs, nil
	}}
}

func (f *networkFixture) fetchCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[id]
}

func newTestDiscovery(f *networkFixture) *DiscoveryService {
	return NewDiscoveryService(f.resolver(), f.finder(), 4, zap.NewNop())
}

func TestDiscover_SingleLevel(t *testing.T) {
	f := newNetworkFixture()
	f.addPaper("p0", "cs.CL", "p1", "p2")
	f.addPaper("p1", "cs.CL")
	f.addPaper("p2", "cs.LG")

	graph, err := newTestDiscovery(f).Discover(context.Background(), "p0", 1, 8)
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, n := range graph.Nodes {
		ids[n.ID] = true
	}
	assert.Len(t, graph.Nodes, 3)
	assert.True(t, ids["p0"] && ids["p1"] && ids["p2"])

	require.Len(t, graph.Links, 2)
	for _, l := range graph.Links {
		assert.Equal(t, "p0", l.Source)
	}
}

func TestDiscover_DepthZeroIsRootOnly(t *testing.T) {
	f := newNetworkFixture()
	f.addPaper("p0", "cs.CL", "p1")
	f.addPaper("p1", "cs.CL")

	graph, err := newTestDiscovery(f).Discover(context.Background(), "p0", 0, 8)
	require.NoError(t, err)

	assert.Len(t, graph.Nodes, 1)
	assert.Empty(t, graph.Links)
}

func TestDiscover_CycleExpandsEachPaperOnce(t *testing.T) {
	f := newNetworkFixture()
	f.addPaper("p0", "cs.CL", "p1")
	f.addPaper("p1", "cs.CL", "p0")

	graph, err := newTestDiscovery(f).Discover(context.Background(), "p0", 4, 8)
	require.NoError(t, err)

	assert.Len(t, graph.Nodes, 2)
	assert.Equal(t, 1, f.fetchCount("p0"))
	assert.Equal(t, 1, f.fetchCount("p1"))
}

func TestDiscover_SharedNeighborResolvedOnce(t *testing.T) {
	f := newNetworkFixture()
	f.addPaper("p0", "cs.CL", "p1", "p2")
	f.addPaper("p1", "cs.CL", "p3")
	f.addPaper("p2", "cs.CL", "p3")
	f.addPaper("p3", "cs.CL")

	graph, err := newTestDiscovery(f).Discover(context.Background(), "p0", 2, 8)
	require.NoError(t, err)

	assert.Len(t, graph.Nodes, 4)
	assert.Equal(t, 1, f.fetchCount("p3"))

	// Both discovery paths record their edge even though p3 expands once.
	into3 := 0
	for _, l := range graph.Links {
		if l.Target == "p3" {
			into3++
		}
	}
	assert.Equal(t, 2, into3)
}

func TestDiscover_PaperWithoutCategoryIsLeaf(t *testing.T) {
	f := newNetworkFixture()
	f.addPaper("p0", "cs.CL", "p1")
	f.addPaper("p1", "", "p2")
	f.addPaper("p2", "cs.CL")

	graph, err := newTestDiscovery(f).Discover(context.Background(), "p0", 4, 8)
	require.NoError(t, err)

	// p1 has no category to expand by, so p2 is never reached.
	assert.Len(t, graph.Nodes, 2)
}

func TestDiscover_NodeBound(t *testing.T) {
	f := newNetworkFixture()
	// Every paper relates to the same 3 fresh papers per level.
	f.addPaper("p0", "cs.CL", "a1", "a2", "a3")
	for _, id := range []string{"a1", "a2", "a3"} {
		f.addPaper(id, "cs.CL", "b1", "b2", "b3")
	}
	for _, id := range []string{"b1", "b2", "b3"} {
		f.addPaper(id, "cs.CL")
	}

	graph, err := newTestDiscovery(f).Discover(context.Background(), "p0", 2, 2)
	require.NoError(t, err)

	// 1 + b + b^2 with branch 2.
	assert.LessOrEqual(t, len(graph.Nodes), 7)
}

func TestDiscover_ResolutionFailureAbortsTraversal(t *testing.T) {
	f := newNetworkFixture()
	f.addPaper("p0", "cs.CL", "p1", "missing")
	f.addPaper("p1", "cs.CL")

	graph, err := newTestDiscovery(f).Discover(context.Background(), "p0", 2, 8)

	require.Error(t, err)
	assert.Nil(t, graph)
}

func TestDiscover_InvalidArguments(t *testing.T) {
	f := newNetworkFixture()
	svc := newTestDiscovery(f)

	_, err := svc.Discover(context.Background(), "", 2, 8)
	require.Error(t, err)

	_, err = svc.Discover(context.Background(), "p0", -1, 8)
	require.Error(t, err)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	f := newNetworkFixture()
	f.addPaper("p0", "cs.CL", "p1")
	f.addPaper("p1", "cs.CL")

	ctx, cancel := context.WithCancel(context.Background())
	resolver := &fakeResolver{fn: func(ctx context.Context, id string) (*paper.Paper, error) {
		cancel()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return f.papers[id], nil
	}}

	svc := NewDiscoveryService(resolver, f.finder(), 4, zap.NewNop())
	_, err := svc.Discover(ctx, "p0", 2, 8)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
