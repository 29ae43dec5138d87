package ports

import (
	"context"

	"GameNewsBot/internal/domain"
)

// ArticleSource pulls candidate articles from one upstream provider.
type ArticleSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.ArticleRecord, error)
}

// NewsStore owns the posted-history and reserve tables and is their single
// writer.
type NewsStore interface {
	// IsPosted reports whether an article with this id was ever delivered.
	IsPosted(ctx context.Context, id string) (bool, error)
	// MarkPosted records a delivered article; a duplicate id is a no-op.
	MarkPosted(ctx context.Context, record domain.ArticleRecord) error
	// AddToReserve inserts candidates absent from both tables and returns
	// how many were actually inserted.
	AddToReserve(ctx context.Context, records []domain.ArticleRecord) (int, error)
	// DrawFromReserve atomically marks up to n oldest unused entries as used
	// and returns them in added order.
	DrawFromReserve(ctx context.Context, n int) ([]domain.ReserveEntry, error)
	// ReserveCount returns the number of unused reserve entries.
	ReserveCount(ctx context.Context) (int, error)
}

// Publisher delivers one article to the outbound channel. A degraded
// delivery (photo failing over to text) still counts as success.
type Publisher interface {
	Deliver(ctx context.Context, record domain.ArticleRecord) error
}
