package service

import (
	"context"
	"errors"
	"testing"

	"github.com/redmercy-dev/MotionsAssistant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	results  []models.KnowledgeResult
	err      error
	storeID  string
	lastText string
	limit    int
}

func (s *stubSearcher) Search(_ context.Context, storeID, query string, limit int) ([]models.KnowledgeResult, error) {
	s.storeID = storeID
	s.lastText = query
	s.limit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func TestRouterRoutesToMotionStore(t *testing.T) {
	searcher := &stubSearcher{results: []models.KnowledgeResult{{Snippet: "s", Citation: "c"}}}
	router := NewKnowledgeRouter(
		RouterWithSearcher(searcher),
		RouterWithConfigStore(configuredStore()),
	)

	results, err := router.Lookup(context.Background(), models.KnowledgeQuery{
		Query:      "cram down standard",
		MotionType: models.MotionAvoidJudicialLien,
	})
	require.NoError(t, err)

	assert.Equal(t, "vs_avoid", searcher.storeID)
	assert.Equal(t, 8, searcher.limit)
	assert.Len(t, results, 1)
}

func TestRouterFoldsJurisdictionAndChapterIntoQuery(t *testing.T) {
	searcher := &stubSearcher{}
	router := NewKnowledgeRouter(
		RouterWithSearcher(searcher),
		RouterWithConfigStore(configuredStore()),
	)

	jurisdiction := "Middle District of Florida"
	chapter := "13"
	_, err := router.Lookup(context.Background(), models.KnowledgeQuery{
		Query:        "valuation standard",
		MotionType:   models.MotionValueSecuredClaim,
		Jurisdiction: &jurisdiction,
		Chapter:      &chapter,
	})
	require.NoError(t, err)

	assert.Equal(t, "valuation standard | jurisdiction: Middle District of Florida | chapter 13", searcher.lastText)
}

func TestRouterMissingStoreIsNotConfigured(t *testing.T) {
	configs := &fakeConfigStore{cfg: &models.WorkspaceConfig{
		VectorStores:    models.VectorStoreIDs{models.MotionValueSecuredClaim: "vs_value"},
		DraftingAgentID: "agent_1",
	}}
	router := NewKnowledgeRouter(
		RouterWithSearcher(&stubSearcher{}),
		RouterWithConfigStore(configs),
	)

	_, err := router.Lookup(context.Background(), models.KnowledgeQuery{
		Query:      "q",
		MotionType: models.MotionAvoidJudicialLien,
	})

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRouterSearchFailureIsLookupUnavailable(t *testing.T) {
	router := NewKnowledgeRouter(
		RouterWithSearcher(&stubSearcher{err: errors.New("vendor 500")}),
		RouterWithConfigStore(configuredStore()),
	)

	_, err := router.Lookup(context.Background(), models.KnowledgeQuery{
		Query:      "q",
		MotionType: models.MotionValueSecuredClaim,
	})

	assert.ErrorIs(t, err, ErrLookupUnavailable)
}

func TestRouterMaxResultsOption(t *testing.T) {
	searcher := &stubSearcher{}
	router := NewKnowledgeRouter(
		RouterWithSearcher(searcher),
		RouterWithConfigStore(configuredStore()),
		RouterWithMaxResults(3),
	)

	_, err := router.Lookup(context.Background(), models.KnowledgeQuery{
		Query:      "q",
		MotionType: models.MotionValueSecuredClaim,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, searcher.limit)
}
