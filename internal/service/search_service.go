package service

import (
	"context"
	"fmt"

	"scholarquery/internal/domain"
)

// Prompt templates forwarded verbatim to the store's generative module.
const (
	// explainPrompt runs once per retrieved item; the store substitutes
	// {text} with the item's body text.
	explainPrompt = `Given following text: {text}, perform these tasks:

- Provide summarized translation to English, it needs to be a direct summarized translation.
- Explain why it is relevant to the query.
- Answer back in English.
- Strictly follow the format below:

**Summarized Translation**:
**Relevance**:
`

	// summaryTask runs once over the combined body texts of all results.
	summaryTask = `Provide a short summary in English based on the query results. The summary should represent the content of combined results. Address the query even if it is not a proper question.`
)

// SearchService resolves user selections into store calls: it loads the
// selectable options, builds filter predicates and dispatches exactly one of
// the three retrieval strategies per request.
type SearchService struct {
	store domain.Store
}

func New(store domain.Store) *SearchService { return &SearchService{store: store} }

// Collections returns the selectable collection names. A reachable but empty
// store is reported as ErrNoCollections so the caller can block searches and
// show guidance instead.
func (s *SearchService) Collections(ctx context.Context) ([]string, error) {
	names, err := s.store.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, domain.ErrNoCollections
	}
	return names, nil
}

// Books returns the distinct book values of a collection.
func (s *SearchService) Books(ctx context.Context, collection string) ([]string, error) {
	return s.groupValues(ctx, collection, domain.PropBook)
}

// Topics returns the distinct topic values of a collection.
func (s *SearchService) Topics(ctx context.Context, collection string) ([]string, error) {
	return s.groupValues(ctx, collection, domain.PropTopic)
}

func (s *SearchService) groupValues(ctx context.Context, collection, property string) ([]string, error) {
	groups, err := s.store.AggregateGroupBy(ctx, collection, property)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(groups))
	for _, g := range groups {
		values = append(values, g.Value)
	}
	return values, nil
}

// BuildFilter combines the optional book and topic selections into a filter
// predicate: an equality clause on book, a contains-any clause on topic, both
// ANDed when both are present, nil when neither is.
func BuildFilter(book string, topics []string) *domain.Filter {
	var clauses []domain.Filter
	if book != "" {
		clauses = append(clauses, domain.Equal(domain.PropBook, book))
	}
	if len(topics) > 0 {
		clauses = append(clauses, domain.ContainsAny(domain.PropTopic, topics))
	}
	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return &clauses[0]
	default:
		f := domain.AllOf(clauses...)
		return &f
	}
}

// BuildRerank returns a directive only when reranking is enabled and rerank
// text was supplied; otherwise retrieval stays unreranked.
func BuildRerank(enabled bool, query string) *domain.RerankDirective {
	if !enabled || query == "" {
		return nil
	}
	return &domain.RerankDirective{Property: domain.PropText, Query: query}
}

// Search validates the request and dispatches exactly one retrieval strategy
// against the store, selected by mode.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (domain.SearchOutcome, error) {
	if err := req.Validate(); err != nil {
		return domain.SearchOutcome{}, err
	}
	switch req.Mode {
	case domain.ModeSemantic:
		return s.store.NearTextSearch(ctx, req)
	case domain.ModeExplained:
		return s.store.GenerativeNearTextSearch(ctx, req, explainPrompt)
	case domain.ModeSummary:
		return s.store.GroupedGenerativeSearch(ctx, req, summaryTask, []string{domain.PropText})
	default:
		return domain.SearchOutcome{}, fmt.Errorf("unknown search mode %d", req.Mode)
	}
}
