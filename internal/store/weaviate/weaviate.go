// Package weaviate is a minimal REST/GraphQL client to a hosted Weaviate
// instance. Retrieval, filtering, reranking and generation all run on the
// store side; this client only builds requests and decodes responses.
package weaviate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"scholarquery/internal/domain"
)

// Config holds connection details for the store. API keys are read from the
// named environment variables; both may be absent for an unauthenticated
// local instance.
type Config struct {
	URL                 string
	APIKeyEnv           string
	GenerativeAPIKeyEnv string
	Timeout             time.Duration
}

// Client talks to one Weaviate endpoint. Safe for sequential reuse across
// user actions within a session.
type Client struct {
	url    string
	apiKey string
	genKey string
	client *http.Client
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("weaviate: endpoint url missing")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	var apiKey, genKey string
	if cfg.APIKeyEnv != "" {
		apiKey = os.Getenv(cfg.APIKeyEnv)
	}
	if cfg.GenerativeAPIKeyEnv != "" {
		genKey = os.Getenv(cfg.GenerativeAPIKeyEnv)
	}
	return &Client{
		url:    cfg.URL,
		apiKey: apiKey,
		genKey: genKey,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// ListCollections returns the names of all collections, sorted.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Classes []struct {
			Class string `json:"class"`
		} `json:"classes"`
	}
	if err := c.getJSON(ctx, c.url+"/v1/schema", &resp); err != nil {
		return nil, &domain.StoreError{Op: "list collections", Err: err}
	}
	names := make([]string, 0, len(resp.Classes))
	for _, cl := range resp.Classes {
		names = append(names, cl.Class)
	}
	sort.Strings(names)
	return names, nil
}

// AggregateGroupBy returns the distinct values of a property over the whole
// collection, with per-group counts.
func (c *Client) AggregateGroupBy(ctx context.Context, collection, property string) ([]domain.GroupCount, error) {
	q := fmt.Sprintf("{ Aggregate { %s(groupBy: [%s]) { groupedBy { value } meta { count } } } }",
		collection, gqlString(property))
	var resp struct {
		Aggregate map[string][]struct {
			GroupedBy struct {
				Value string `json:"value"`
			} `json:"groupedBy"`
			Meta struct {
				Count int `json:"count"`
			} `json:"meta"`
		} `json:"Aggregate"`
	}
	if err := c.graphql(ctx, q, &resp); err != nil {
		return nil, &domain.StoreError{Op: "aggregate " + property, Err: err}
	}
	groups := make([]domain.GroupCount, 0, len(resp.Aggregate[collection]))
	for _, g := range resp.Aggregate[collection] {
		groups = append(groups, domain.GroupCount{Value: g.GroupedBy.Value, Count: g.Meta.Count})
	}
	return groups, nil
}

// NearTextSearch is plain nearest-neighbor retrieval with no generative step.
func (c *Client) NearTextSearch(ctx context.Context, req domain.SearchRequest) (domain.SearchOutcome, error) {
	return c.search(ctx, req, "")
}

// GenerativeNearTextSearch retrieves and additionally runs the prompt once
// per result. The {text} placeholder is substituted store-side.
func (c *Client) GenerativeNearTextSearch(ctx context.Context, req domain.SearchRequest, singlePrompt string) (domain.SearchOutcome, error) {
	gen := fmt.Sprintf("generate(singleResult: {prompt: %s}) { singleResult error }", gqlString(singlePrompt))
	return c.search(ctx, req, gen)
}

// GroupedGenerativeSearch retrieves and additionally runs the task once over
// the combined values of the grouped properties.
func (c *Client) GroupedGenerativeSearch(ctx context.Context, req domain.SearchRequest, groupedTask string, groupedProperties []string) (domain.SearchOutcome, error) {
	gen := fmt.Sprintf("generate(groupedResult: {task: %s, properties: [%s]}) { groupedResult error }",
		gqlString(groupedTask), gqlStringList(groupedProperties))
	return c.search(ctx, req, gen)
}

func (c *Client) search(ctx context.Context, req domain.SearchRequest, generateClause string) (domain.SearchOutcome, error) {
	q := buildGetQuery(req, generateClause)
	var resp struct {
		Get map[string][]map[string]json.RawMessage `json:"Get"`
	}
	if err := c.graphql(ctx, q, &resp); err != nil {
		return domain.SearchOutcome{}, &domain.StoreError{Op: "search", Err: err}
	}
	outcome, err := decodeOutcome(resp.Get[req.Collection])
	if err != nil {
		return domain.SearchOutcome{}, &domain.StoreError{Op: "search", Err: err}
	}
	return outcome, nil
}

func (c *Client) graphql(ctx context.Context, query string, out any) error {
	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := c.postJSON(ctx, c.url+"/v1/graphql", map[string]any{"query": query}, &envelope); err != nil {
		return err
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql: %s", envelope.Errors[0].Message)
	}
	if out != nil && len(envelope.Data) > 0 {
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.genKey != "" {
		req.Header.Set("X-Cohere-Api-Key", c.genKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("weaviate %s %s failed: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
