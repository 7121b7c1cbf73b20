package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gocolly/colly/v2"

	"TVPriceScanner/internal/retailer"
)

// CrawlAdapter handles retailers whose listings span multiple pages. It
// walks the listing with a colly collector, following the configured
// next-page link within the listing URL's host.
type CrawlAdapter struct {
	userAgent string
}

var _ retailer.Adapter = (*CrawlAdapter)(nil)

// NewCrawlAdapter builds the adapter; an empty userAgent picks the default.
func NewCrawlAdapter(userAgent string) *CrawlAdapter {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &CrawlAdapter{userAgent: userAgent}
}

// Name identifies the strategy inside the registry.
func (a *CrawlAdapter) Name() string {
	return "crawl"
}

// Fetch crawls the paginated listing and collects items from every page.
// Page errors after the first successful page are tolerated: whatever was
// collected so far is still a usable observation set.
func (a *CrawlAdapter) Fetch(ctx context.Context, req retailer.Request) ([]retailer.RawItem, error) {
	if req.Selectors.Item == "" || req.Selectors.Title == "" || req.Selectors.Price == "" {
		return nil, fmt.Errorf("retailer %s has incomplete selectors", req.Retailer)
	}

	start, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("retailer %s has invalid url: %w", req.Retailer, err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(start.Hostname()),
		colly.UserAgent(a.userAgent),
	)

	var (
		mu       sync.Mutex
		items    []retailer.RawItem
		firstErr error
	)

	c.OnHTML(req.Selectors.Item, func(e *colly.HTMLElement) {
		title := strings.TrimSpace(e.ChildText(req.Selectors.Title))
		priceText := strings.TrimSpace(e.ChildText(req.Selectors.Price))
		if title == "" || priceText == "" {
			return
		}

		item := retailer.RawItem{Title: title, PriceText: priceText}
		if req.Selectors.Link != "" {
			item.URL = e.Request.AbsoluteURL(e.ChildAttr(req.Selectors.Link, "href"))
		}

		mu.Lock()
		items = append(items, item)
		mu.Unlock()
	})

	if next := req.Selectors.NextPage; next != "" {
		c.OnHTML(next, func(e *colly.HTMLElement) {
			if ctx.Err() != nil {
				return
			}
			_ = e.Request.Visit(e.Attr("href"))
		})
	}

	c.OnError(func(_ *colly.Response, err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	})

	if err := c.Visit(req.URL); err != nil {
		return nil, fmt.Errorf("crawl %s: %w", req.Retailer, err)
	}
	c.Wait()

	if len(items) == 0 && firstErr != nil {
		return nil, fmt.Errorf("crawl %s: %w", req.Retailer, firstErr)
	}
	return items, nil
}
