package domain

import "github.com/shopspring/decimal"

// PriceDrop reports a product that is cheaper than its last recorded price
// at the same retailer.
type PriceDrop struct {
	Title    string
	Retailer string
	OldPrice decimal.Decimal
	NewPrice decimal.Decimal
	Savings  decimal.Decimal
}

// CrossRetailerDeal reports a product that another tracked retailer currently
// sells for strictly less.
type CrossRetailerDeal struct {
	Title            string
	CheaperAt        string
	CheaperPrice     decimal.Decimal
	CurrentRetailer  string
	CurrentPrice     decimal.Decimal
	PotentialSavings decimal.Decimal
}

// NewProduct reports an identity seen for the first time.
type NewProduct struct {
	Title    string
	Retailer string
	Price    decimal.Decimal
}

// ChangeSet is the output of one detection run. It is transient: rendered
// and delivered once, never persisted.
type ChangeSet struct {
	PriceDrops         []PriceDrop
	CrossRetailerDeals []CrossRetailerDeal
	NewProducts        []NewProduct
}

// Empty reports whether the run produced nothing worth telling anyone about.
func (c ChangeSet) Empty() bool {
	return len(c.PriceDrops) == 0 && len(c.CrossRetailerDeals) == 0 && len(c.NewProducts) == 0
}
