package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityIsDeterministic(t *testing.T) {
	t.Parallel()

	p := ProductRecord{Retailer: "Takealot", Title: `Samsung 65" 4K UHD TV`}

	assert.Equal(t, `samsung 65" 4k uhd tv_Takealot`, p.Identity())
	assert.Equal(t, p.Identity(), p.Identity())
	assert.Equal(t, `samsung 65" 4k uhd tv`, p.TitleKey())

	// Same title at another retailer is a different identity but the same
	// grouping key.
	q := ProductRecord{Retailer: "Game", Title: `SAMSUNG 65" 4K UHD TV`}
	assert.NotEqual(t, p.Identity(), q.Identity())
	assert.Equal(t, p.TitleKey(), q.TitleKey())
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := ProductRecord{Retailer: "Game", Title: "LG 65in UHD TV", Price: decimal.NewFromInt(12000)}
	assert.NoError(t, valid.Validate())

	noTitle := ProductRecord{Retailer: "Game", Title: "   "}
	assert.Error(t, noTitle.Validate())

	negative := ProductRecord{Retailer: "Game", Title: "LG TV", Price: decimal.NewFromInt(-1)}
	assert.Error(t, negative.Validate())
}

func TestHistoryRebuild(t *testing.T) {
	t.Parallel()

	day := time.Date(2026, time.August, 28, 9, 30, 0, 0, time.UTC)
	old := History{
		"stale tv_Game": {Price: decimal.NewFromInt(999), Date: "2026-01-01"},
	}
	records := []ProductRecord{
		{Retailer: "Game", Title: "LG 65in UHD TV", Price: decimal.NewFromInt(12000), URL: "https://g/1", ObservedDate: day},
		// Later observation of the same identity wins.
		{Retailer: "Game", Title: "LG 65in UHD TV", Price: decimal.NewFromInt(11500), ObservedDate: day},
	}

	next := old.Rebuild(records)

	// Entries absent from the current run are carried over, not expired.
	require.Len(t, next, 2)
	assert.Contains(t, next, "stale tv_Game")

	entry := next["lg 65in uhd tv_Game"]
	assert.True(t, entry.Price.Equal(decimal.NewFromInt(11500)))
	assert.Equal(t, "2026-08-28", entry.Date)

	// Rebuild leaves the source history untouched.
	assert.Len(t, old, 1)
}
