package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
)

// Category is the fixed vocabulary articles are labelled with.
type Category string

const (
	CategoryGames   Category = "games"
	CategoryNews    Category = "news"
	CategoryEsports Category = "esports"
	CategoryGeneral Category = "general"
)

// NormalizeCategory maps free-form labels onto the fixed vocabulary;
// anything unknown falls back to general.
func NormalizeCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryGames:
		return CategoryGames
	case CategoryNews:
		return CategoryNews
	case CategoryEsports:
		return CategoryEsports
	default:
		return CategoryGeneral
	}
}

// ArticleRecord is a candidate article collected from a source.
// ID is a pure function of Title and Link; the remaining fields never
// participate in identity.
type ArticleRecord struct {
	ID          string
	Title       string
	Link        string
	Source      string
	Category    Category
	Description string
	ImageURL    string
}

// NewArticleRecord builds a record and derives its fingerprint.
func NewArticleRecord(title, link, source string, category Category, description, imageURL string) ArticleRecord {
	return ArticleRecord{
		ID:          Fingerprint(title, link),
		Title:       title,
		Link:        link,
		Source:      source,
		Category:    category,
		Description: description,
		ImageURL:    imageURL,
	}
}

// Fingerprint returns the stable article id: a 128-bit digest of title+link
// rendered as hex. Collisions are treated as negligible.
func Fingerprint(title, link string) string {
	sum := md5.Sum([]byte(title + link))
	return hex.EncodeToString(sum[:])
}

// PostedRecord is the persisted trace of a delivered article.
type PostedRecord struct {
	ID       string
	Title    string
	Link     string
	Source   string
	Category Category
	PostedAt time.Time
}

// ReserveEntry is a fetched-but-unpublished candidate parked in the reserve
// queue. Used flips to true exactly once, when the entry is drawn.
type ReserveEntry struct {
	ArticleRecord
	AddedAt time.Time
	Used    bool
}

// TickOutcome describes how the last publication tick ended.
type TickOutcome string

const (
	// TickNone means no tick has completed yet.
	TickNone TickOutcome = "none"
	// TickPublished means a fresh candidate was delivered.
	TickPublished TickOutcome = "published"
	// TickReserve means delivery fell back to a reserve entry.
	TickReserve TickOutcome = "reserve"
	// TickIdle means nothing was available to publish.
	TickIdle TickOutcome = "idle"
	// TickSkipped means the store was unreachable during selection.
	TickSkipped TickOutcome = "skipped"
	// TickFailed means delivery failed; the article stays unposted.
	TickFailed TickOutcome = "failed"
)
