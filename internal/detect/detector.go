// Package detect compares a run's observations against the persisted price
// history and produces the run's change set.
package detect

import (
	"TVPriceScanner/internal/domain"
)

// Detect runs the per-identity comparison followed by cross-retailer
// grouping. It never fails: malformed records were excluded upstream, and
// the history map is only read, never written.
//
// Output order is deterministic for a fixed input order: events follow the
// input scan order, cross-retailer groups the first-encounter order of
// their titles.
func Detect(current []domain.ProductRecord, history domain.History) domain.ChangeSet {
	var changes domain.ChangeSet

	for _, record := range current {
		entry, seen := history[record.Identity()]
		if !seen {
			changes.NewProducts = append(changes.NewProducts, domain.NewProduct{
				Title:    record.Title,
				Retailer: record.Retailer,
				Price:    record.Price,
			})
			continue
		}

		// Rises and unchanged prices are silent: only favorable or novel
		// changes are reported.
		if record.Price.LessThan(entry.Price) {
			changes.PriceDrops = append(changes.PriceDrops, domain.PriceDrop{
				Title:    record.Title,
				Retailer: record.Retailer,
				OldPrice: entry.Price,
				NewPrice: record.Price,
				Savings:  entry.Price.Sub(record.Price),
			})
		}
	}

	changes.CrossRetailerDeals = detectCrossRetailer(current)

	return changes
}

// detectCrossRetailer groups records by lowercased title and, for every
// group with more than one member, reports each member priced strictly
// above the cheapest one. Ties on the cheapest price break toward the
// first-encountered record and tied members generate no event.
func detectCrossRetailer(current []domain.ProductRecord) []domain.CrossRetailerDeal {
	groups := make(map[string][]domain.ProductRecord)
	var order []string

	for _, record := range current {
		key := record.TitleKey()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], record)
	}

	var deals []domain.CrossRetailerDeal
	for _, key := range order {
		members := groups[key]
		if len(members) < 2 {
			continue
		}

		cheapest := members[0]
		for _, m := range members[1:] {
			if m.Price.LessThan(cheapest.Price) {
				cheapest = m
			}
		}

		for _, m := range members {
			if !m.Price.GreaterThan(cheapest.Price) {
				continue
			}
			deals = append(deals, domain.CrossRetailerDeal{
				Title:            m.Title,
				CheaperAt:        cheapest.Retailer,
				CheaperPrice:     cheapest.Price,
				CurrentRetailer:  m.Retailer,
				CurrentPrice:     m.Price,
				PotentialSavings: m.Price.Sub(cheapest.Price),
			})
		}
	}

	return deals
}
