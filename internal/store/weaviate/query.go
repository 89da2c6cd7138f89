package weaviate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"scholarquery/internal/domain"
)

var resultFields = strings.Join([]string{
	domain.PropText,
	domain.PropTopic,
	domain.PropBook,
	domain.PropAuthor,
	domain.PropPage,
	domain.PropVolume,
}, " ")

// buildGetQuery assembles the GraphQL Get query for one search request.
// Distance is always requested; rerank scores only when a directive is set.
func buildGetQuery(req domain.SearchRequest, generateClause string) string {
	args := []string{
		fmt.Sprintf("limit: %d", req.TopK),
		fmt.Sprintf("nearText: {concepts: [%s]}", gqlString(req.Query)),
	}
	if req.Filter != nil {
		args = append(args, "where: "+whereClause(*req.Filter))
	}
	additional := []string{"distance"}
	if req.Rerank != nil {
		additional = append(additional, fmt.Sprintf("rerank(property: %s, query: %s) { score }",
			gqlString(req.Rerank.Property), gqlString(req.Rerank.Query)))
	}
	if generateClause != "" {
		additional = append(additional, generateClause)
	}
	return fmt.Sprintf("{ Get { %s(%s) { %s _additional { %s } } } }",
		req.Collection, strings.Join(args, ", "), resultFields, strings.Join(additional, " "))
}

func whereClause(f domain.Filter) string {
	switch f.Op {
	case domain.OpContainsAny:
		return fmt.Sprintf("{path: [%s], operator: ContainsAny, valueTextArray: [%s]}",
			gqlString(f.Property), gqlStringList(f.Values))
	case domain.OpAllOf:
		parts := make([]string, len(f.Operands))
		for i, op := range f.Operands {
			parts[i] = whereClause(op)
		}
		return fmt.Sprintf("{operator: And, operands: [%s]}", strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("{path: [%s], operator: Equal, valueText: %s}",
			gqlString(f.Property), gqlString(f.Value))
	}
}

// gqlString escapes a string literal. Go escaping is a valid subset of
// GraphQL string escaping.
func gqlString(s string) string { return strconv.Quote(s) }

func gqlStringList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = gqlString(v)
	}
	return strings.Join(quoted, ", ")
}

type rawAdditional struct {
	Distance float64 `json:"distance"`
	Rerank   []struct {
		Score *float64 `json:"score"`
	} `json:"rerank"`
	Generate *struct {
		SingleResult  *string `json:"singleResult"`
		GroupedResult *string `json:"groupedResult"`
		Error         *string `json:"error"`
	} `json:"generate"`
}

// decodeOutcome turns Get response objects into RawResults. Every key other
// than _additional is treated as a string property; the grouped summary is
// lifted from the first object that carries one.
func decodeOutcome(objects []map[string]json.RawMessage) (domain.SearchOutcome, error) {
	var out domain.SearchOutcome
	for _, obj := range objects {
		r := domain.RawResult{Properties: make(map[string]string, len(obj))}
		for key, raw := range obj {
			if key == "_additional" {
				var add rawAdditional
				if err := json.Unmarshal(raw, &add); err != nil {
					return domain.SearchOutcome{}, fmt.Errorf("decode _additional: %w", err)
				}
				r.Distance = add.Distance
				if len(add.Rerank) > 0 && add.Rerank[0].Score != nil {
					r.RerankScore = add.Rerank[0].Score
				}
				if g := add.Generate; g != nil && (g.Error == nil || *g.Error == "") {
					if g.SingleResult != nil {
						r.Generated = *g.SingleResult
					}
					if g.GroupedResult != nil && out.GroupedSummary == "" {
						out.GroupedSummary = *g.GroupedResult
					}
				}
				continue
			}
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				r.Properties[key] = s
			}
		}
		out.Results = append(out.Results, r)
	}
	return out, nil
}
