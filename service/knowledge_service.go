package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/redmercy-dev/MotionsAssistant/models"
)

// KnowledgeSearcher issues one ranked search against a named knowledge store.
// Ranking is the vendor's; results pass through in the order received.
type KnowledgeSearcher interface {
	Search(ctx context.Context, storeID, query string, limit int) ([]models.KnowledgeResult, error)
}

// KnowledgeLookup is the orchestrator-facing lookup contract
type KnowledgeLookup interface {
	Lookup(ctx context.Context, query models.KnowledgeQuery) ([]models.KnowledgeResult, error)
}

// KnowledgeRouter maps a motion type to its dedicated knowledge store and
// routes lookups there. Each motion owns exactly one store; jurisdiction and
// chapter travel inside the query text as filter hints, never as separate
// stores.
type KnowledgeRouter struct {
	searcher   KnowledgeSearcher
	configs    ConfigStore
	maxResults int
}

// KnowledgeRouterOption is a functional option for KnowledgeRouter
type KnowledgeRouterOption func(*KnowledgeRouter)

// RouterWithSearcher sets the backing searcher
func RouterWithSearcher(s KnowledgeSearcher) KnowledgeRouterOption {
	return func(r *KnowledgeRouter) {
		r.searcher = s
	}
}

// RouterWithConfigStore sets the workspace config store
func RouterWithConfigStore(c ConfigStore) KnowledgeRouterOption {
	return func(r *KnowledgeRouter) {
		r.configs = c
	}
}

// RouterWithMaxResults caps the number of results per lookup
func RouterWithMaxResults(n int) KnowledgeRouterOption {
	return func(r *KnowledgeRouter) {
		r.maxResults = n
	}
}

// NewKnowledgeRouter creates a new knowledge store router
func NewKnowledgeRouter(opts ...KnowledgeRouterOption) *KnowledgeRouter {
	r := &KnowledgeRouter{maxResults: 8}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup resolves the motion's store and runs one search. A missing store
// mapping is ErrNotConfigured; any search failure is ErrLookupUnavailable so
// the orchestrator can draft without citations.
func (r *KnowledgeRouter) Lookup(ctx context.Context, query models.KnowledgeQuery) ([]models.KnowledgeResult, error) {
	if r.searcher == nil || r.configs == nil {
		return nil, fmt.Errorf("%w: router not wired", ErrLookupUnavailable)
	}

	cfg, err := r.configs.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load config: %v", ErrLookupUnavailable, err)
	}

	storeID, ok := cfg.StoreFor(query.MotionType)
	if !ok {
		return nil, fmt.Errorf("%w: no knowledge store for %s", ErrNotConfigured, query.MotionType)
	}

	results, err := r.searcher.Search(ctx, storeID, buildQueryText(query), r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}

	return results, nil
}

// buildQueryText folds jurisdiction and chapter into the query as hints.
// They are passed through verbatim, never parsed or validated.
func buildQueryText(query models.KnowledgeQuery) string {
	parts := []string{query.Query}
	if query.Jurisdiction != nil && *query.Jurisdiction != "" {
		parts = append(parts, "jurisdiction: "+*query.Jurisdiction)
	}
	if query.Chapter != nil && *query.Chapter != "" {
		parts = append(parts, "chapter "+*query.Chapter)
	}
	return strings.Join(parts, " | ")
}
