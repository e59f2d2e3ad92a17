package eventmodels

import (
	"fmt"
	"time"
)

type PriceBar struct {
	Date          time.Time
	Close         float64
	AdjustedClose float64
}

// PriceSeries is the daily close history of one symbol as returned by a
// market-data fetcher: trading days only, strictly increasing, no
// duplicates. Leading gaps (no history before listing) are allowed.
type PriceSeries struct {
	Symbol StockSymbol
	Bars   []PriceBar
}

func NewPriceSeries(symbol StockSymbol) *PriceSeries {
	return &PriceSeries{Symbol: symbol}
}

func (p *PriceSeries) Add(bar PriceBar) error {
	bar.Date = normalizeDate(bar.Date)
	if len(p.Bars) > 0 && !p.Bars[len(p.Bars)-1].Date.Before(bar.Date) {
		return fmt.Errorf("PriceSeries: Add: %s: bar for %s arrived after %s: %w", p.Symbol, bar.Date.Format("2006-01-02"), p.Bars[len(p.Bars)-1].Date.Format("2006-01-02"), ErrDuplicateDate)
	}

	p.Bars = append(p.Bars, bar)
	return nil
}

// AdjustedCloses projects the split/dividend-adjusted close column.
func (p *PriceSeries) AdjustedCloses() *DailySeries {
	out := NewDailySeries()
	for _, bar := range p.Bars {
		out.Append(bar.Date, bar.AdjustedClose)
	}

	return out
}

// Closes projects the raw observed close column.
func (p *PriceSeries) Closes() *DailySeries {
	out := NewDailySeries()
	for _, bar := range p.Bars {
		out.Append(bar.Date, bar.Close)
	}

	return out
}
