package domain

import "context"

// Property names the store is expected to carry for every document chunk.
const (
	PropText   = "text"
	PropTopic  = "topic"
	PropBook   = "book"
	PropAuthor = "author"
	PropPage   = "page"
	PropVolume = "volume"
)

// TopK bounds for a single retrieval call.
const (
	MinTopK = 1
	MaxTopK = 10
)

// Mode selects one of the three retrieval strategies.
type Mode int

const (
	// ModeSemantic is plain nearest-neighbor retrieval.
	ModeSemantic Mode = iota
	// ModeExplained adds a generated per-result translation and relevance explanation.
	ModeExplained
	// ModeSummary adds one generated summary over the combined result texts.
	ModeSummary
)

func (m Mode) String() string {
	switch m {
	case ModeSemantic:
		return "Semantic Search"
	case ModeExplained:
		return "Explained Search"
	case ModeSummary:
		return "Summary Generation Search"
	}
	return "Unknown"
}

// RerankDirective asks the store to reorder results by relevance to a second query.
type RerankDirective struct {
	Property string
	Query    string
}

// SearchRequest holds the fully resolved parameters for one retrieval call.
type SearchRequest struct {
	Collection string
	Query      string
	TopK       int
	Mode       Mode
	Filter     *Filter
	Rerank     *RerankDirective
}

// Validate checks the request before any store call is issued.
func (r SearchRequest) Validate() error {
	if r.Collection == "" {
		return ErrNoCollection
	}
	if r.Query == "" {
		return ErrEmptyQuery
	}
	if r.TopK < MinTopK || r.TopK > MaxTopK {
		return ErrInvalidTopK
	}
	return nil
}

// GroupCount is one bucket of a group-by aggregation.
type GroupCount struct {
	Value string
	Count int
}

// RawResult is one retrieved item as returned by the store.
// Distance ranges over [0,2]; RerankScore is present only when a rerank
// directive was sent and the store computed one. Generated carries the
// per-result completion in Explained mode.
type RawResult struct {
	Properties  map[string]string
	Distance    float64
	RerankScore *float64
	Generated   string
}

// SearchOutcome is the full response to one SearchRequest. GroupedSummary is
// non-empty only in Summary mode.
type SearchOutcome struct {
	Results        []RawResult
	GroupedSummary string
}

// DisplayRecord is the normalized, user-facing projection of one RawResult.
type DisplayRecord struct {
	RelevancePercent         float64
	RerankedRelevancePercent *float64
	Topic                    string
	Book                     string
	Author                   string
	Page                     int
	Volume                   int
	Text                     string
}

// Store is the vector-store client contract. All retrieval, filtering,
// reranking and generation happens on the store side.
type Store interface {
	ListCollections(ctx context.Context) ([]string, error)
	AggregateGroupBy(ctx context.Context, collection, property string) ([]GroupCount, error)
	NearTextSearch(ctx context.Context, req SearchRequest) (SearchOutcome, error)
	GenerativeNearTextSearch(ctx context.Context, req SearchRequest, singlePrompt string) (SearchOutcome, error)
	GroupedGenerativeSearch(ctx context.Context, req SearchRequest, groupedTask string, groupedProperties []string) (SearchOutcome, error)
}
