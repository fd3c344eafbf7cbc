package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"papergraph/domain/paper"
)

func categoryStubs(n int) []paper.Stub {
	stubs := make([]paper.Stub, 0, n)
	for i := 0; i < n; i++ {
		stubs = append(stubs, paper.Stub{
			ID:         string(rune('a' + i)),
			Title:      "Paper " + string(rune('A'+i)),
			Categories: []string{"cs.CL"},
		})
	}
	return stubs
}

func TestFetchRelatedPapers_ExcludesOriginBeforeTruncating(t *testing.T) {
	source := newFakeSource()
	source.stubs["cs.CL"] = categoryStubs(4)

	svc := NewRelatedService(newFakeCache(), source, time.Hour, zap.NewNop())

	// Excluding "b" must still yield 3 results, not 2.
	got, err := svc.FetchRelatedPapers(context.Background(), "cs.CL", "b", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, st := range got {
		assert.NotEqual(t, "b", st.ID)
	}
}

func TestFetchRelatedPapers_CacheHitSkipsSource(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	source.stubs["cs.CL"] = categoryStubs(3)

	svc := NewRelatedService(newFakeCache(), source, time.Hour, zap.NewNop())

	_, err := svc.FetchRelatedPapers(ctx, "cs.CL", "", 3)
	require.NoError(t, err)
	_, err = svc.FetchRelatedPapers(ctx, "cs.CL", "", 3)
	require.NoError(t, err)

	assert.Equal(t, 1, source.categoryCalls["cs.CL"])
}

func TestFetchRelatedPapers_CachedListServesDifferentOrigins(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	source.stubs["cs.CL"] = categoryStubs(3)

	svc := NewRelatedService(newFakeCache(), source, time.Hour, zap.NewNop())

	first, err := svc.FetchRelatedPapers(ctx, "cs.CL", "a", 3)
	require.NoError(t, err)
	second, err := svc.FetchRelatedPapers(ctx, "cs.CL", "c", 3)
	require.NoError(t, err)

	// The raw list is shared; each call applies its own exclusion.
	assert.Equal(t, 1, source.categoryCalls["cs.CL"])
	for _, st := range first {
		assert.NotEqual(t, "a", st.ID)
	}
	for _, st := range second {
		assert.NotEqual(t, "c", st.ID)
	}
}

func TestFetchRelatedPapers_EmptyCategoryIsRejected(t *testing.T) {
	svc := NewRelatedService(newFakeCache(), newFakeSource(), time.Hour, zap.NewNop())

	_, err := svc.FetchRelatedPapers(context.Background(), "", "x", 3)
	require.Error(t, err)
}

func TestFetchRelatedPapers_DefaultLimit(t *testing.T) {
	source := newFakeSource()
	source.stubs["cs.CL"] = categoryStubs(12)

	svc := NewRelatedService(newFakeCache(), source, time.Hour, zap.NewNop())

	got, err := svc.FetchRelatedPapers(context.Background(), "cs.CL", "", 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultMaxResults)
}
