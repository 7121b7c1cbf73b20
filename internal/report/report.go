// Package report renders a change set into human-readable summaries: an
// HTML body for email delivery and a plain-text digest for logs. Rendering
// is purely presentational and total over well-formed change sets.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"TVPriceScanner/internal/domain"
)

//go:embed templates
var templatesFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tpl").
		Funcs(template.FuncMap{"rand": FormatRand}).
		ParseFS(templatesFS, "templates/report.html.tpl"),
)

type templateData struct {
	Heading     string
	GeneratedAt string
	Changes     domain.ChangeSet
}

// RenderHTML produces the email body: drops, cross-retailer deals and new
// products in that order, empty sections omitted, or a single no-changes
// notice. Rendering is total: the template is embedded and the data shape
// is fixed, so execution cannot fail for any change set.
func RenderHTML(heading string, changes domain.ChangeSet, now time.Time) string {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, templateData{
		Heading:     heading,
		GeneratedAt: now.Format("2006-01-02 15:04:05"),
		Changes:     changes,
	})
	if err != nil {
		panic(fmt.Errorf("render report: %w", err))
	}
	return buf.String()
}

// RenderText produces a compact plain-text version of the same report.
func RenderText(changes domain.ChangeSet) string {
	if changes.Empty() {
		return "No price changes detected today."
	}

	var b strings.Builder

	if len(changes.PriceDrops) > 0 {
		b.WriteString("Price drops:\n")
		for _, drop := range changes.PriceDrops {
			fmt.Fprintf(&b, "- %s @ %s: %s -> %s (save %s)\n",
				drop.Title, drop.Retailer,
				FormatRand(drop.OldPrice), FormatRand(drop.NewPrice), FormatRand(drop.Savings))
		}
	}

	if len(changes.CrossRetailerDeals) > 0 {
		b.WriteString("Cheaper elsewhere:\n")
		for _, deal := range changes.CrossRetailerDeals {
			fmt.Fprintf(&b, "- %s: %s at %s vs %s at %s (save %s)\n",
				deal.Title,
				FormatRand(deal.CheaperPrice), deal.CheaperAt,
				FormatRand(deal.CurrentPrice), deal.CurrentRetailer,
				FormatRand(deal.PotentialSavings))
		}
	}

	if len(changes.NewProducts) > 0 {
		b.WriteString("New products:\n")
		for _, item := range changes.NewProducts {
			fmt.Fprintf(&b, "- %s @ %s: %s\n", item.Title, item.Retailer, FormatRand(item.Price))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// FormatRand renders an amount as whole rand with thousands separators,
// e.g. R15,000.
func FormatRand(amount decimal.Decimal) string {
	digits := amount.Round(0).String()

	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "R" + strings.Join(groups, ",")
	if negative {
		out = "-" + out
	}
	return out
}
