package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"GameNewsBot/internal/domain"
	"GameNewsBot/internal/ports"
)

// SelectionEngine decides which single article to publish per tick and
// parks the unconsumed remainder in the reserve queue.
type SelectionEngine struct {
	store  ports.NewsStore
	logger *slog.Logger
}

// NewSelectionEngine wires the persistent store.
func NewSelectionEngine(store ports.NewsStore, logger *slog.Logger) *SelectionEngine {
	return &SelectionEngine{store: store, logger: logger}
}

// SelectAndReserve picks the first candidate not yet posted, in list order.
// An empty batch is replaced by a synthetic fallback record before anything
// else happens, so the fallback wins over reserve content even when the
// reserve is non-empty. When every candidate is already posted, one entry is
// drawn from the reserve; fromReserve reports that path. A nil record with a
// nil error means there is nothing to publish this tick.
func (s *SelectionEngine) SelectAndReserve(ctx context.Context, candidates []domain.ArticleRecord) (record *domain.ArticleRecord, fromReserve bool, err error) {
	if len(candidates) == 0 {
		s.logger.Warn("no candidates collected, substituting fallback record")
		candidates = []domain.ArticleRecord{FallbackRecord()}
	}

	unique := Dedupe(candidates)

	// Everything after the first candidate goes to the reserve; a store
	// failure here degrades to a lost reserve batch, not a lost tick.
	if len(unique) > 1 {
		inserted, reserveErr := s.store.AddToReserve(ctx, unique[1:])
		if reserveErr != nil {
			s.logger.Error("reserve population failed", "error", reserveErr)
		} else if inserted > 0 {
			s.logger.Info("candidates reserved", "count", inserted)
		}
	}

	for i := range unique {
		posted, postedErr := s.store.IsPosted(ctx, unique[i].ID)
		if postedErr != nil {
			return nil, false, fmt.Errorf("check posted %s: %w", unique[i].ID, postedErr)
		}
		if !posted {
			return &unique[i], false, nil
		}
	}

	entries, drawErr := s.store.DrawFromReserve(ctx, 1)
	if drawErr != nil {
		return nil, false, fmt.Errorf("draw from reserve: %w", drawErr)
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	return &entries[0].ArticleRecord, true, nil
}

// FallbackRecord is the synthetic candidate published when every source
// came back empty.
func FallbackRecord() domain.ArticleRecord {
	return domain.NewArticleRecord(
		"Игровая индустрия: последние новости и тренды",
		"https://store.steampowered.com",
		"Steam",
		domain.CategoryGames,
		"Актуальные события из мира видеоигр",
		"",
	)
}
