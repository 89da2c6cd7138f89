package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"scholarquery/internal/domain"
)

type fakeStore struct {
	collections []string
	groups      map[string][]domain.GroupCount
	outcome     domain.SearchOutcome
	err         error

	calls       []string
	lastReq     domain.SearchRequest
	lastPrompt  string
	lastTask    string
	lastGrouped []string
}

func (f *fakeStore) ListCollections(ctx context.Context) ([]string, error) {
	f.calls = append(f.calls, "list")
	return f.collections, f.err
}

func (f *fakeStore) AggregateGroupBy(ctx context.Context, collection, property string) ([]domain.GroupCount, error) {
	f.calls = append(f.calls, "aggregate:"+property)
	return f.groups[property], f.err
}

func (f *fakeStore) NearTextSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchOutcome, error) {
	f.calls = append(f.calls, "near")
	f.lastReq = req
	return f.outcome, f.err
}

func (f *fakeStore) GenerativeNearTextSearch(ctx context.Context, req domain.SearchRequest, singlePrompt string) (domain.SearchOutcome, error) {
	f.calls = append(f.calls, "generative")
	f.lastReq = req
	f.lastPrompt = singlePrompt
	return f.outcome, f.err
}

func (f *fakeStore) GroupedGenerativeSearch(ctx context.Context, req domain.SearchRequest, groupedTask string, groupedProperties []string) (domain.SearchOutcome, error) {
	f.calls = append(f.calls, "grouped")
	f.lastReq = req
	f.lastTask = groupedTask
	f.lastGrouped = groupedProperties
	return f.outcome, f.err
}

func validRequest(mode domain.Mode) domain.SearchRequest {
	return domain.SearchRequest{Collection: "Texts", Query: "trade routes", TopK: 5, Mode: mode}
}

func TestSearch_ModeDispatchIsExclusive(t *testing.T) {
	tests := []struct {
		mode domain.Mode
		call string
	}{
		{domain.ModeSemantic, "near"},
		{domain.ModeExplained, "generative"},
		{domain.ModeSummary, "grouped"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			store := &fakeStore{}
			svc := New(store)
			if _, err := svc.Search(context.Background(), validRequest(tt.mode)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(store.calls) != 1 || store.calls[0] != tt.call {
				t.Errorf("calls = %v, want exactly [%s]", store.calls, tt.call)
			}
		})
	}
}

func TestSearch_ExplainedPrompt(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)
	if _, err := svc.Search(context.Background(), validRequest(domain.ModeExplained)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"{text}", "**Summarized Translation**:", "**Relevance**:"} {
		if !strings.Contains(store.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if i := strings.Index(store.lastPrompt, "**Summarized Translation**:"); i > strings.Index(store.lastPrompt, "**Relevance**:") {
		t.Error("translation heading must come before relevance heading")
	}
}

func TestSearch_SummaryTask(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)
	if _, err := svc.Search(context.Background(), validRequest(domain.ModeSummary)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(store.lastTask, "short summary in English") {
		t.Errorf("task prompt = %q", store.lastTask)
	}
	if !reflect.DeepEqual(store.lastGrouped, []string{domain.PropText}) {
		t.Errorf("grouped properties = %v, want [text]", store.lastGrouped)
	}
}

func TestSearch_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.SearchRequest)
		wantErr error
	}{
		{"empty query", func(r *domain.SearchRequest) { r.Query = "" }, domain.ErrEmptyQuery},
		{"no collection", func(r *domain.SearchRequest) { r.Collection = "" }, domain.ErrNoCollection},
		{"top k too low", func(r *domain.SearchRequest) { r.TopK = 0 }, domain.ErrInvalidTopK},
		{"top k too high", func(r *domain.SearchRequest) { r.TopK = 11 }, domain.ErrInvalidTopK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := New(store)
			req := validRequest(domain.ModeSemantic)
			tt.mutate(&req)
			_, err := svc.Search(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(store.calls) != 0 {
				t.Errorf("no store call should be issued, got %v", store.calls)
			}
		})
	}
}

func TestBuildFilter(t *testing.T) {
	t.Run("neither", func(t *testing.T) {
		if f := BuildFilter("", nil); f != nil {
			t.Fatalf("filter = %+v, want nil", f)
		}
	})
	t.Run("book only", func(t *testing.T) {
		f := BuildFilter("BookA", nil)
		if f == nil || f.Op != domain.OpEqual || f.Property != domain.PropBook || f.Value != "BookA" {
			t.Fatalf("filter = %+v", f)
		}
	})
	t.Run("topics only", func(t *testing.T) {
		f := BuildFilter("", []string{"History", "Trade"})
		if f == nil || f.Op != domain.OpContainsAny || f.Property != domain.PropTopic {
			t.Fatalf("filter = %+v", f)
		}
		if !reflect.DeepEqual(f.Values, []string{"History", "Trade"}) {
			t.Errorf("values = %v", f.Values)
		}
	})
	t.Run("both", func(t *testing.T) {
		f := BuildFilter("BookA", []string{"History"})
		if f == nil || f.Op != domain.OpAllOf || len(f.Operands) != 2 {
			t.Fatalf("filter = %+v", f)
		}
		if f.Operands[0].Op != domain.OpEqual || f.Operands[0].Value != "BookA" {
			t.Errorf("first operand = %+v", f.Operands[0])
		}
		if f.Operands[1].Op != domain.OpContainsAny || !reflect.DeepEqual(f.Operands[1].Values, []string{"History"}) {
			t.Errorf("second operand = %+v", f.Operands[1])
		}
	})
}

func TestBuildRerank(t *testing.T) {
	if r := BuildRerank(false, "silk"); r != nil {
		t.Errorf("disabled toggle must not produce a directive, got %+v", r)
	}
	if r := BuildRerank(true, ""); r != nil {
		t.Errorf("empty rerank text must not produce a directive, got %+v", r)
	}
	r := BuildRerank(true, "silk")
	if r == nil || r.Property != domain.PropText || r.Query != "silk" {
		t.Errorf("directive = %+v", r)
	}
}

func TestSearch_SemanticEndToEnd(t *testing.T) {
	store := &fakeStore{}
	svc := New(store)
	req := domain.SearchRequest{
		Collection: "Texts",
		Query:      "trade routes",
		TopK:       5,
		Mode:       domain.ModeSemantic,
		Filter:     BuildFilter("BookA", []string{"History"}),
		Rerank:     BuildRerank(false, "anything"),
	}
	outcome, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.calls) != 1 || store.calls[0] != "near" {
		t.Fatalf("calls = %v", store.calls)
	}
	got := store.lastReq
	if got.TopK != 5 || got.Rerank != nil {
		t.Errorf("request = %+v", got)
	}
	if got.Filter == nil || got.Filter.Op != domain.OpAllOf || len(got.Filter.Operands) != 2 {
		t.Errorf("filter = %+v", got.Filter)
	}
	// Zero results is a valid, non-error outcome.
	if len(outcome.Results) != 0 || outcome.GroupedSummary != "" {
		t.Errorf("outcome = %+v", outcome)
	}
}

func TestCollections(t *testing.T) {
	store := &fakeStore{collections: []string{"Poetry", "Texts"}}
	svc := New(store)
	names, err := svc.Collections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Poetry", "Texts"}) {
		t.Errorf("names = %v", names)
	}

	empty := New(&fakeStore{})
	if _, err := empty.Collections(context.Background()); !errors.Is(err, domain.ErrNoCollections) {
		t.Fatalf("err = %v, want ErrNoCollections", err)
	}
}

func TestBooksAndTopics(t *testing.T) {
	store := &fakeStore{groups: map[string][]domain.GroupCount{
		domain.PropBook:  {{Value: "BookA", Count: 12}, {Value: "BookB", Count: 3}},
		domain.PropTopic: {{Value: "History", Count: 7}},
	}}
	svc := New(store)
	books, err := svc.Books(context.Background(), "Texts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(books, []string{"BookA", "BookB"}) {
		t.Errorf("books = %v", books)
	}
	topics, err := svc.Topics(context.Background(), "Texts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(topics, []string{"History"}) {
		t.Errorf("topics = %v", topics)
	}
}
