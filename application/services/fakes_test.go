package services

import (
	"context"
	"sync"
	"time"

	"papergraph/domain/paper"
	apperrors "papergraph/pkg/errors"
)

var errNotFound = apperrors.NewResolutionError("paper")

// fakeCache is a map-backed cache that ignores TTLs and counts operations.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]interface{}
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]interface{})}
}

func (c *fakeCache) Get(_ context.Context, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// fakeStore is a map-backed paper store that counts saves.
type fakeStore struct {
	mu     sync.Mutex
	papers map[string]*paper.Paper
	saves  int
	getErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{papers: make(map[string]*paper.Paper)}
}

func (s *fakeStore) Get(_ context.Context, id string) (*paper.Paper, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	p, ok := s.papers[id]
	return p, ok, nil
}

func (s *fakeStore) Save(_ context.Context, p *paper.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.papers[p.ID] = p
	s.saves++
	return nil
}

// fakeSource serves canned papers and category listings, counting calls.
type fakeSource struct {
	mu            sync.Mutex
	papers        map[string]*paper.Paper
	stubs         map[string][]paper.Stub
	paperCalls    map[string]int
	categoryCalls map[string]int
	paperErr      error
	stubsErr      error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		papers:        make(map[string]*paper.Paper),
		stubs:         make(map[string][]paper.Stub),
		paperCalls:    make(map[string]int),
		categoryCalls: make(map[string]int),
	}
}

func (s *fakeSource) PaperByID(_ context.Context, id string) (*paper.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paperCalls[id]++
	if s.paperErr != nil {
		return nil, s.paperErr
	}
	p, ok := s.papers[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (s *fakeSource) StubsByCategory(_ context.Context, category string, _ int) ([]paper.Stub, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoryCalls[category]++
	if s.stubsErr != nil {
		return nil, s.stubsErr
	}
	return s.stubs[category], nil
}

// fakeResolver and fakeFinder drive traversal tests with function fields.
type fakeResolver struct {
	fn func(ctx context.Context, id string) (*paper.Paper, error)
}

func (r *fakeResolver) FetchPaperDetails(ctx context.Context, id string) (*paper.Paper, error) {
	return r.fn(ctx, id)
}

type fakeFinder struct {
	fn func(ctx context.Context, category, excludeID string, maxResults int) ([]paper.Stub, error)
}

func (f *fakeFinder) FetchRelatedPapers(ctx context.Context, category, excludeID string, maxResults int) ([]paper.Stub, error) {
	return f.fn(ctx, category, excludeID, maxResults)
}

// fakeCompleter replays canned completions in order.
type fakeCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (c *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	if len(c.responses) > 0 {
		return c.responses[len(c.responses)-1], nil
	}
	return "", nil
}
