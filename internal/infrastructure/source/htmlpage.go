package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"GameNewsBot/internal/config"
	"GameNewsBot/internal/domain"
	"GameNewsBot/internal/ports"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	minTitleRunes    = 10
)

// PageSource scrapes article cards from a news site listing page. Some
// sections publish faster on the page than in the feed, so it complements
// the RSS sources rather than replacing them.
type PageSource struct {
	name     string
	pageURL  string
	baseURL  string
	category domain.Category
	limit    int
	client   *http.Client
}

var _ ports.ArticleSource = (*PageSource)(nil)

// NewPageSource builds a scraper for one configured page; client may be nil.
func NewPageSource(cfg config.PageConfig, limits config.LimitsConfig, client *http.Client) *PageSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PageSource{
		name:     cfg.Name,
		pageURL:  cfg.URL,
		baseURL:  siteRoot(cfg.URL),
		category: domain.NormalizeCategory(cfg.Category),
		limit:    limits.PageItems,
		client:   client,
	}
}

// Name identifies the page in logs.
func (p *PageSource) Name() string {
	return p.name
}

// Fetch downloads the page and extracts up to the configured number of
// article cards. Cards without a usable title link are skipped silently:
// markup drifts and a partial harvest beats none.
func (p *PageSource) Fetch(ctx context.Context) ([]domain.ArticleRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page %s returned %s", p.pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var records []domain.ArticleRecord
	doc.Find("article").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(records) >= p.limit {
			return false
		}

		record, ok := p.extractCard(card)
		if ok {
			records = append(records, record)
		}
		return true
	})

	return records, nil
}

func (p *PageSource) extractCard(card *goquery.Selection) (domain.ArticleRecord, bool) {
	titleLink := card.Find("h2.content-title a, h3.content-title a, a.content-link").First()

	title := strings.TrimSpace(titleLink.Text())
	href, hasHref := titleLink.Attr("href")
	if !hasHref || utf8.RuneCountInString(title) < minTitleRunes {
		return domain.ArticleRecord{}, false
	}

	description := strings.TrimSpace(card.Find("div.content-description").First().Text())

	imageURL := ""
	if src, ok := card.Find("img").First().Attr("src"); ok {
		imageURL = p.absoluteURL(src)
	}

	return domain.NewArticleRecord(
		title,
		p.absoluteURL(href),
		p.name,
		p.category,
		description,
		imageURL,
	), true
}

func (p *PageSource) absoluteURL(href string) string {
	switch {
	case strings.HasPrefix(href, "http"):
		return href
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return p.baseURL + href
	default:
		return href
	}
}

func siteRoot(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return strings.TrimSuffix(pageURL, "/")
	}
	return parsed.Scheme + "://" + parsed.Host
}
