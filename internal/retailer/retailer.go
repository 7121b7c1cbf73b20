// Package retailer defines the uniform capability every retailer adapter
// implements. The core never branches on retailer identity beyond carrying
// it as a data field.
package retailer

import (
	"context"
	"fmt"
)

// RawItem is one scraped listing entry before normalization. PriceText is
// still the display string; URL may be empty.
type RawItem struct {
	Title     string
	PriceText string
	URL       string
}

// Selectors are the CSS selectors that locate listing fields on a retailer
// page. NextPage is only consulted by crawling adapters.
type Selectors struct {
	Item     string
	Title    string
	Price    string
	Link     string
	NextPage string
}

// Request carries everything an adapter needs for one retailer fetch.
type Request struct {
	Retailer  string
	URL       string
	Selectors Selectors
	Options   map[string]string
}

// Adapter fetches raw listing items for one retailer. Implementations are
// resolved by name from the registry, so retailers differ only in config.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, req Request) ([]RawItem, error)
}

// Registry keeps a mapping from adapter names to their implementations.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(adapter Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[adapter.Name()] = adapter
}

// Resolve returns an adapter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Adapter, error) {
	if adapter, ok := r.adapters[name]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("adapter %s is not registered", name)
}
