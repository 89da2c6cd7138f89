package service

import (
	"strconv"

	"scholarquery/internal/domain"
)

// Project normalizes one raw result for display. rerankRequested guards the
// reranked percentage so a stray store score is never shown for an
// unreranked call. Distance ranges over [0,2], 0 meaning identical.
func Project(r domain.RawResult, rerankRequested bool) (domain.DisplayRecord, error) {
	page, err := parsePrefixed(domain.PropPage, r.Properties[domain.PropPage])
	if err != nil {
		return domain.DisplayRecord{}, err
	}
	volume, err := parsePrefixed(domain.PropVolume, r.Properties[domain.PropVolume])
	if err != nil {
		return domain.DisplayRecord{}, err
	}
	rec := domain.DisplayRecord{
		RelevancePercent: (1 - r.Distance/2) * 100,
		Topic:            r.Properties[domain.PropTopic],
		Book:             r.Properties[domain.PropBook],
		Author:           r.Properties[domain.PropAuthor],
		Page:             page,
		Volume:           volume,
		Text:             r.Properties[domain.PropText],
	}
	if rerankRequested && r.RerankScore != nil {
		p := *r.RerankScore * 100
		rec.RerankedRelevancePercent = &p
	}
	return rec, nil
}

// parsePrefixed drops the one-character marker ("p12", "v3") and parses the
// remainder as a base-10 integer.
func parsePrefixed(property, value string) (int, error) {
	if len(value) < 2 {
		return 0, &domain.MalformedResultError{Property: property, Value: value}
	}
	n, err := strconv.Atoi(value[1:])
	if err != nil {
		return 0, &domain.MalformedResultError{Property: property, Value: value}
	}
	return n, nil
}
