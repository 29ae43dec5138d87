package usecase

import (
	"strings"

	"GameNewsBot/internal/domain"
)

// Dedupe collapses records sharing a normalized title, keeping the first
// occurrence in input order. It is a pure in-batch operation: filtering
// against posted history is a separate, publish-eligibility concern handled
// by the selection engine, so the dropped extras can still reach the reserve.
func Dedupe(records []domain.ArticleRecord) []domain.ArticleRecord {
	seen := make(map[string]struct{}, len(records))
	unique := make([]domain.ArticleRecord, 0, len(records))

	for _, record := range records {
		key := strings.ToLower(strings.TrimSpace(record.Title))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, record)
	}

	return unique
}
