// Package scrape implements the retailer adapters and the source that
// aggregates them into one run's worth of observations.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"TVPriceScanner/internal/retailer"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ListingAdapter fetches a single listing page and extracts items with the
// retailer's configured selectors.
type ListingAdapter struct {
	client *resty.Client
}

var _ retailer.Adapter = (*ListingAdapter)(nil)

// NewListingAdapter wires an HTTP client; pass nil for a default one.
func NewListingAdapter(client *resty.Client) *ListingAdapter {
	if client == nil {
		client = resty.New().
			SetTimeout(20 * time.Second).
			SetHeader("User-Agent", defaultUserAgent)
	}
	return &ListingAdapter{client: client}
}

// Name identifies the strategy inside the registry.
func (a *ListingAdapter) Name() string {
	return "listing"
}

// Fetch downloads the listing page and returns one RawItem per product
// container. Containers missing a title or price element are skipped here;
// they carry no usable observation.
func (a *ListingAdapter) Fetch(ctx context.Context, req retailer.Request) ([]retailer.RawItem, error) {
	if req.Selectors.Item == "" || req.Selectors.Title == "" || req.Selectors.Price == "" {
		return nil, fmt.Errorf("retailer %s has incomplete selectors", req.Retailer)
	}

	resp, err := a.client.R().SetContext(ctx).Get(req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s listing: %w", req.Retailer, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s returned %s", req.Retailer, resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse %s listing: %w", req.Retailer, err)
	}

	base, _ := url.Parse(req.URL)

	var items []retailer.RawItem
	doc.Find(req.Selectors.Item).Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(req.Selectors.Title).First().Text())
		priceText := strings.TrimSpace(sel.Find(req.Selectors.Price).First().Text())
		if title == "" || priceText == "" {
			return
		}

		items = append(items, retailer.RawItem{
			Title:     title,
			PriceText: priceText,
			URL:       itemURL(base, sel, req.Selectors.Link),
		})
	})

	return items, nil
}

func itemURL(base *url.URL, sel *goquery.Selection, linkSelector string) string {
	if linkSelector == "" {
		return ""
	}
	href, ok := sel.Find(linkSelector).First().Attr("href")
	if !ok || href == "" {
		return ""
	}

	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
