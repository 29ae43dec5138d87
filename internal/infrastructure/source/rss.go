package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"GameNewsBot/internal/config"
	"GameNewsBot/internal/domain"
	"GameNewsBot/internal/ports"
)

// FeedSource pulls candidates from a single RSS/Atom feed.
type FeedSource struct {
	name      string
	url       string
	category  domain.Category
	limit     int
	freshness time.Duration
	parser    *gofeed.Parser
	now       func() time.Time
}

var _ ports.ArticleSource = (*FeedSource)(nil)

// NewFeedSource builds a source for one configured feed.
func NewFeedSource(cfg config.FeedConfig, limits config.LimitsConfig) *FeedSource {
	return &FeedSource{
		name:      cfg.Name,
		url:       cfg.URL,
		category:  domain.NormalizeCategory(cfg.Category),
		limit:     limits.FeedItems,
		freshness: limits.Freshness(),
		parser:    gofeed.NewParser(),
		now:       time.Now,
	}
}

// Name identifies the feed in logs.
func (f *FeedSource) Name() string {
	return f.name
}

// Fetch parses the feed and maps the newest items to article records.
// Items carrying a publish date older than the freshness window are dropped;
// items without one are kept.
func (f *FeedSource) Fetch(ctx context.Context) ([]domain.ArticleRecord, error) {
	feed, err := f.parser.ParseURLWithContext(f.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.url, err)
	}

	items := feed.Items
	if len(items) > f.limit {
		items = items[:f.limit]
	}

	records := make([]domain.ArticleRecord, 0, len(items))
	for _, item := range items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published != nil && f.now().Sub(*published) > f.freshness {
			continue
		}

		records = append(records, domain.NewArticleRecord(
			item.Title,
			item.Link,
			f.name,
			f.category,
			item.Description,
			feedImage(item),
		))
	}

	return records, nil
}

// feedImage digs an image URL out of the item: dedicated image, enclosures,
// then media RSS extensions.
func feedImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if strings.HasPrefix(ext.Attrs["type"], "image") && ext.Attrs["url"] != "" {
				return ext.Attrs["url"]
			}
		}
	}

	return ""
}
