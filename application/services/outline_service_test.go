package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "papergraph/pkg/errors"
	"papergraph/pkg/retry"
)

const sampleOutline = `{"Introduction":["Background","Motivation"],"Methods":["Model"]}`

const sampleFlowchart = `graph TD
start[Start]
main0[Introduction]
start --> main0
sub0_0[Background]
main0 --> sub0_0
sub0_1[Motivation]
main0 --> sub0_1
main1[Methods]
start --> main1
sub1_0[Model]
main1 --> sub1_0
`

func newTestOutlineService(llm *fakeCompleter, cache *fakeCache) *OutlineService {
	return NewOutlineService(cache, llm, retry.New(3, time.Millisecond), 5*time.Minute, zap.NewNop())
}

func TestGenerateFlowchart_RendersOrderedOutline(t *testing.T) {
	llm := &fakeCompleter{responses: []string{sampleOutline}}
	svc := newTestOutlineService(llm, newFakeCache())

	got, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.NoError(t, err)
	assert.Equal(t, sampleFlowchart, got)
}

func TestGenerateFlowchart_ExtractsJSONFromProse(t *testing.T) {
	llm := &fakeCompleter{responses: []string{
		"Here is the outline:\n```json\n" + sampleOutline + "\n```\nHope this helps!",
	}}
	svc := newTestOutlineService(llm, newFakeCache())

	got, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.NoError(t, err)
	assert.Equal(t, sampleFlowchart, got)
}

func TestGenerateFlowchart_SanitizesLabels(t *testing.T) {
	llm := &fakeCompleter{responses: []string{
		`{"Graph {Theory} [Basics]":["The \"core\" idea; simply"]}`,
	}}
	svc := newTestOutlineService(llm, newFakeCache())

	got, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.NoError(t, err)
	assert.Contains(t, got, "main0[Graph Theory Basics]")
	assert.Contains(t, got, "sub0_0[The 'core' idea simply]")
	assert.NotContains(t, got, "{Theory}")
}

func TestGenerateFlowchart_CacheHitSkipsLLM(t *testing.T) {
	llm := &fakeCompleter{responses: []string{sampleOutline}}
	svc := newTestOutlineService(llm, newFakeCache())

	first, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.NoError(t, err)
	second, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, llm.calls)
}

func TestGenerateFlowchart_RetriesTransientFailure(t *testing.T) {
	llm := &fakeCompleter{
		responses: []string{sampleOutline, sampleOutline},
		errs:      []error{errors.New("upstream hiccup")},
	}
	svc := newTestOutlineService(llm, newFakeCache())

	got, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.NoError(t, err)
	assert.Equal(t, sampleFlowchart, got)
	assert.Equal(t, 2, llm.calls)
}

func TestGenerateFlowchart_EmptyContentIsRejected(t *testing.T) {
	llm := &fakeCompleter{}
	svc := newTestOutlineService(llm, newFakeCache())

	_, err := svc.GenerateFlowchart(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, 0, llm.calls)
}

func TestGenerateFlowchart_UnparseableCompletionFails(t *testing.T) {
	llm := &fakeCompleter{responses: []string{"no json here at all"}}
	svc := newTestOutlineService(llm, newFakeCache())

	_, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.Error(t, err)
}

func TestGenerateFlowchart_TopicWithoutSubtopics(t *testing.T) {
	llm := &fakeCompleter{responses: []string{`{"Conclusion":"wraps up"}`}}
	svc := newTestOutlineService(llm, newFakeCache())

	got, err := svc.GenerateFlowchart(context.Background(), "some paper content")
	require.NoError(t, err)
	assert.Contains(t, got, "main0[Conclusion]")
	assert.NotContains(t, got, "sub0_0")
}
